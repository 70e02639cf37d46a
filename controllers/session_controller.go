package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"checkout-service/models"
	"checkout-service/services"
)

// GetCheckoutSession fetches a checkout session with line items and the
// payment intent expanded, and projects it for the storefront. An expired
// session is reported as 410 with the expiry instant, distinct from 404.
func (cc *CheckoutController) GetCheckoutSession(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return
	}

	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("line_items")
	params.AddExpand("payment_intent")

	sess, err := cc.Stripe.GetCheckoutSession(sessionID, params)
	if err != nil {
		switch {
		case services.IsStripeResourceMissing(err):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case services.IsStripeInvalidRequest(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		default:
			cc.Logger.Error("Session retrieval failed",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to retrieve session",
				"details": services.StripeErrorMessage(err),
			})
		}
		return
	}

	if sess.ExpiresAt > 0 && sess.ExpiresAt < time.Now().Unix() {
		c.JSON(http.StatusGone, gin.H{
			"error":      "Session has expired",
			"expired_at": time.Unix(sess.ExpiresAt, 0).UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": projectSession(sess)})
}

// projectSession maps the upstream session onto the client-facing shape.
// Fields absent upstream are omitted, never defaulted.
func projectSession(sess *stripe.CheckoutSession) models.SessionInfo {
	info := models.SessionInfo{
		ID:            sess.ID,
		Status:        string(sess.Status),
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
		ExpiresAt:     sess.ExpiresAt,
		Created:       sess.Created,
		Metadata:      sess.Metadata,
	}

	if sess.CustomerDetails != nil {
		info.CustomerEmail = sess.CustomerDetails.Email
	}

	if sess.LineItems != nil {
		for _, item := range sess.LineItems.Data {
			info.LineItems = append(info.LineItems, models.LineItemInfo{
				Description: item.Description,
				Quantity:    item.Quantity,
				AmountTotal: item.AmountTotal,
			})
		}
	}

	return info
}
