package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"checkout-service/models"
	"checkout-service/services"
)

// GetPaymentStatus resolves a payment intent, directly by id or via a checkout
// session's embedded reference, and classifies its status for display.
func (cc *CheckoutController) GetPaymentStatus(c *gin.Context) {
	paymentIntentID := c.Query("payment_intent_id")
	sessionID := c.Query("session_id")

	if paymentIntentID == "" && sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment Intent ID or Session ID is required"})
		return
	}

	var (
		pi   *stripe.PaymentIntent
		sess *stripe.CheckoutSession
		err  error
	)

	if paymentIntentID != "" {
		pi, err = cc.Stripe.GetPaymentIntent(paymentIntentID)
	} else {
		sess, err = cc.Stripe.GetCheckoutSession(sessionID, nil)
		if err == nil && sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
			pi, err = cc.Stripe.GetPaymentIntent(sess.PaymentIntent.ID)
		}
	}

	if err != nil {
		if services.IsStripeResourceMissing(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment Intent not found"})
			return
		}
		cc.Logger.Error("Payment status check failed",
			zap.String("payment_intent_id", paymentIntentID),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to check payment status",
			"details": services.StripeErrorMessage(err),
		})
		return
	}

	if pi == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment Intent not found"})
		return
	}

	resp := models.PaymentStatusResponse{
		PaymentIntent: models.PaymentIntentInfo{
			ID:           pi.ID,
			Status:       string(pi.Status),
			Amount:       pi.Amount,
			Currency:     string(pi.Currency),
			Created:      pi.Created,
			ClientSecret: pi.ClientSecret,
		},
		StatusInfo: services.ClassifyPaymentStatus(pi.Status, pi.LastPaymentError),
	}

	if sess != nil {
		resp.Session = &models.SessionSummary{
			ID:            sess.ID,
			Status:        string(sess.Status),
			PaymentStatus: string(sess.PaymentStatus),
			ExpiresAt:     sess.ExpiresAt,
		}
	}

	if pi.LastPaymentError != nil {
		resp.LastPaymentError = &models.PaymentError{
			Type:        string(pi.LastPaymentError.Type),
			Code:        string(pi.LastPaymentError.Code),
			Message:     pi.LastPaymentError.Msg,
			DeclineCode: string(pi.LastPaymentError.DeclineCode),
		}
	}

	c.JSON(http.StatusOK, resp)
}
