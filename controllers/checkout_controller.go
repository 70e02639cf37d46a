package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"checkout-service/catalog"
	"checkout-service/config"
	"checkout-service/models"
	"checkout-service/services"
)

// sessionExpiry is how long a hosted checkout session stays open.
const sessionExpiry = 30 * time.Minute

type CheckoutController struct {
	Stripe      services.StripeClient
	Fulfillment services.FulfillmentRecorder
	Logger      *zap.Logger
	Config      *config.Config

	webhookHandlers map[stripe.EventType]webhookHandler
}

func NewCheckoutController(stripeClient services.StripeClient, fulfillment services.FulfillmentRecorder, logger *zap.Logger, cfg *config.Config) *CheckoutController {
	cc := &CheckoutController{
		Stripe:      stripeClient,
		Fulfillment: fulfillment,
		Logger:      logger,
		Config:      cfg,
	}
	cc.webhookHandlers = cc.buildWebhookHandlers()
	return cc
}

// CreateCheckoutSession creates a Stripe hosted checkout session for a catalog
// item and returns the redirect URL.
func (cc *CheckoutController) CreateCheckoutSession(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
		return
	}

	product, ok := catalog.GetProductByID(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(product.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(product.Name),
						Description: stripe.String(product.Description),
					},
					UnitAmount: stripe.Int64(product.Price),
				},
				Quantity: stripe.Int64(quantity),
			},
		},
		SuccessURL:               stripe.String(cc.Config.SuccessURL()),
		CancelURL:                stripe.String(cc.Config.CancelURL()),
		ExpiresAt:                stripe.Int64(time.Now().Add(sessionExpiry).Unix()),
		CustomerCreation:         stripe.String(string(stripe.CheckoutSessionCustomerCreationAlways)),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
	}
	params.AddMetadata("productId", product.ID)
	params.AddMetadata("quantity", strconv.FormatInt(quantity, 10))

	sess, err := cc.Stripe.CreateCheckoutSession(params)
	if err != nil {
		cc.Logger.Error("Checkout session creation failed",
			zap.String("product_id", product.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create checkout session",
			"details": services.StripeErrorMessage(err),
		})
		return
	}

	cc.Logger.Info("Checkout session created",
		zap.String("session_id", sess.ID),
		zap.String("product_id", product.ID),
		zap.Int64("quantity", quantity),
	)

	c.JSON(http.StatusOK, gin.H{"url": sess.URL})
}

// ListProducts returns the static catalog the storefront renders.
func (cc *CheckoutController) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": catalog.Products()})
}

// GetConfig exposes the publishable key to browser clients.
func (cc *CheckoutController) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publishable_key": cc.Config.StripePublishableKey})
}

// Health is the liveness endpoint.
func (cc *CheckoutController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
