package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"checkout-service/config"
	"checkout-service/controllers"
	"checkout-service/logger"
	"checkout-service/middleware"
	awspkg "checkout-service/pkg/aws"
	"checkout-service/routes"
	"checkout-service/services"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[CheckoutService] Failed to load config:", err)
	}

	ctx := context.Background()

	// CloudWatch log shipping is a no-op unless CLOUDWATCH_ENABLED=true
	cwLogs, err := awspkg.NewCloudWatchLogsClient(ctx, "checkout-service")
	if err != nil {
		log.Fatal("[CheckoutService] Failed to initialize CloudWatch logs:", err)
	}

	zlog, err := logger.InitializeWithWriter(cfg.Env, cwLogs)
	if err != nil {
		log.Fatal("[CheckoutService] Failed to initialize logger:", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	metricsClient, err := awspkg.NewMetricsClient(ctx)
	if err != nil {
		zlog.Fatal("Failed to initialize metrics client", zap.Error(err))
	}

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	var publisher awspkg.SNSPublisher
	if cfg.FulfillmentTopicARN != "" {
		awsCfg, err := awspkg.LoadAWSConfig(ctx)
		if err != nil {
			zlog.Fatal("Failed to load AWS config", zap.Error(err))
		}
		publisher = awspkg.NewSNSClient(awsCfg)
	}
	fulfillment := services.NewFulfillmentRecorder(zlog, publisher, cfg.FulfillmentTopicARN)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.MetricsMiddleware(metricsClient, "checkout-service"))

	cc := controllers.NewCheckoutController(stripeSvc, fulfillment, zlog, cfg)
	routes.RegisterCheckoutRoutes(r, cc)

	zlog.Info("Checkout service running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("Server failed", zap.Error(err))
	}
}
