package routes

import (
	"github.com/gin-gonic/gin"

	"checkout-service/controllers"
	"checkout-service/middleware"
)

func RegisterCheckoutRoutes(r *gin.Engine, cc *controllers.CheckoutController) {
	r.GET("/healthz", cc.Health)

	api := r.Group("/")
	api.Use(middleware.RateLimitMiddleware())
	api.GET("/config", cc.GetConfig)
	api.GET("/products", cc.ListProducts)
	api.POST("/checkout", cc.CreateCheckoutSession)
	api.GET("/checkout/session", cc.GetCheckoutSession)
	api.GET("/payment/status", cc.GetPaymentStatus)

	// Stripe webhook (signature-verified, not rate limited)
	r.POST("/webhooks/stripe", cc.StripeWebhook)
}
