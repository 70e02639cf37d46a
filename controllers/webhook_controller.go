package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"checkout-service/models"
)

// webhookHandler processes one verified event. A returned error turns into a
// 500 so Stripe redelivers; nil acknowledges the event.
type webhookHandler func(ctx context.Context, event stripe.Event) error

// buildWebhookHandlers wires each event type to its handler. Dispatch goes
// through this map rather than a switch so the handled set is a single value
// that tests can exercise.
func (cc *CheckoutController) buildWebhookHandlers() map[stripe.EventType]webhookHandler {
	return map[stripe.EventType]webhookHandler{
		"checkout.session.completed":     cc.handleCheckoutSessionCompleted,
		"checkout.session.expired":       cc.handleCheckoutSessionExpired,
		"payment_intent.succeeded":       cc.handlePaymentIntentSucceeded,
		"payment_intent.payment_failed":  cc.handlePaymentIntentFailed,
		"payment_intent.requires_action": cc.handlePaymentIntentRequiresAction,
		"invoice.payment_succeeded":      cc.handleInvoicePaymentSucceeded,
		"invoice.payment_failed":         cc.handleInvoicePaymentFailed,
		"customer.subscription.created":  cc.handleSubscriptionCreated,
		"customer.subscription.updated":  cc.handleSubscriptionUpdated,
		"customer.subscription.deleted":  cc.handleSubscriptionDeleted,
	}
}

// StripeWebhook receives and dispatches Stripe webhook events. Events are not
// deduplicated: Stripe delivers at least once, and a redelivered
// checkout.session.completed produces a second fulfillment record.
func (cc *CheckoutController) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	event, err := cc.Stripe.ConstructWebhookEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		cc.Logger.Warn("Webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
		return
	}

	cc.Logger.Info("Processing webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("event_created", event.Created),
	)

	handler, ok := cc.webhookHandlers[event.Type]
	if !ok {
		cc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := handler(c.Request.Context(), event); err != nil {
		cc.Logger.Error("Webhook processing failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (cc *CheckoutController) handleCheckoutSessionCompleted(ctx context.Context, event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return err
	}

	rec := models.FulfillmentRecord{
		SessionID: sess.ID,
		Amount:    sess.AmountTotal,
		Currency:  string(sess.Currency),
		Status:    "completed",
		Metadata:  sess.Metadata,
	}
	if sess.CustomerDetails != nil {
		rec.CustomerEmail = sess.CustomerDetails.Email
	}

	return cc.Fulfillment.Record(ctx, rec)
}

func (cc *CheckoutController) handleCheckoutSessionExpired(ctx context.Context, event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return err
	}

	now := time.Now().UTC()
	return cc.Fulfillment.Record(ctx, models.FulfillmentRecord{
		SessionID: sess.ID,
		Status:    "expired",
		ExpiredAt: &now,
	})
}

func (cc *CheckoutController) handlePaymentIntentSucceeded(ctx context.Context, event stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("payment_intent_id", pi.ID),
		zap.Int64("amount", pi.Amount),
		zap.String("currency", string(pi.Currency)),
	}
	if pi.Customer != nil {
		fields = append(fields, zap.String("customer_id", pi.Customer.ID))
	}
	cc.Logger.Info("Payment confirmed", fields...)
	return nil
}

func (cc *CheckoutController) handlePaymentIntentFailed(ctx context.Context, event stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return err
	}

	fields := []zap.Field{zap.String("payment_intent_id", pi.ID)}
	if pi.LastPaymentError != nil {
		fields = append(fields,
			zap.String("error_type", string(pi.LastPaymentError.Type)),
			zap.String("error_code", string(pi.LastPaymentError.Code)),
			zap.String("error_message", pi.LastPaymentError.Msg),
			zap.String("decline_code", string(pi.LastPaymentError.DeclineCode)),
		)
	}
	cc.Logger.Warn("Payment failed", fields...)
	return nil
}

func (cc *CheckoutController) handlePaymentIntentRequiresAction(ctx context.Context, event stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("payment_intent_id", pi.ID),
		zap.String("status", string(pi.Status)),
	}
	if pi.NextAction != nil {
		fields = append(fields, zap.String("next_action", string(pi.NextAction.Type)))
	}
	cc.Logger.Info("Payment requires additional authentication", fields...)
	return nil
}

func (cc *CheckoutController) handleInvoicePaymentSucceeded(ctx context.Context, event stripe.Event) error {
	var inv stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("invoice_id", inv.ID),
		zap.Int64("amount_paid", inv.AmountPaid),
	}
	if inv.Subscription != nil {
		fields = append(fields, zap.String("subscription_id", inv.Subscription.ID))
	}
	if inv.Customer != nil {
		fields = append(fields, zap.String("customer_id", inv.Customer.ID))
	}
	cc.Logger.Info("Invoice payment succeeded", fields...)
	return nil
}

func (cc *CheckoutController) handleInvoicePaymentFailed(ctx context.Context, event stripe.Event) error {
	var inv stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("invoice_id", inv.ID),
		zap.Int64("attempt_count", inv.AttemptCount),
	}
	if inv.Subscription != nil {
		fields = append(fields, zap.String("subscription_id", inv.Subscription.ID))
	}
	if inv.Customer != nil {
		fields = append(fields, zap.String("customer_id", inv.Customer.ID))
	}
	cc.Logger.Warn("Invoice payment failed", fields...)
	return nil
}

func (cc *CheckoutController) handleSubscriptionCreated(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("subscription_id", sub.ID),
		zap.String("status", string(sub.Status)),
		zap.Int64("current_period_start", sub.CurrentPeriodStart),
		zap.Int64("current_period_end", sub.CurrentPeriodEnd),
	}
	if sub.Customer != nil {
		fields = append(fields, zap.String("customer_id", sub.Customer.ID))
	}
	cc.Logger.Info("Subscription created", fields...)
	return nil
}

func (cc *CheckoutController) handleSubscriptionUpdated(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return err
	}

	cc.Logger.Info("Subscription updated",
		zap.String("subscription_id", sub.ID),
		zap.String("status", string(sub.Status)),
		zap.Bool("cancel_at_period_end", sub.CancelAtPeriodEnd),
	)
	return nil
}

func (cc *CheckoutController) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("subscription_id", sub.ID),
		zap.Int64("canceled_at", sub.CanceledAt),
	}
	if sub.Customer != nil {
		fields = append(fields, zap.String("customer_id", sub.Customer.ID))
	}
	cc.Logger.Info("Subscription canceled", fields...)
	return nil
}
