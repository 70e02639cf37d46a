package services

import (
	"fmt"

	"github.com/stripe/stripe-go/v80"

	"checkout-service/models"
)

// Severity levels for payment status classification.
const (
	SeveritySuccess = "success"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// statusInfoTable maps every payment intent status Stripe defines to a
// customer-facing classification. Built once; never mutated.
var statusInfoTable = map[stripe.PaymentIntentStatus]models.StatusInfo{
	stripe.PaymentIntentStatusSucceeded: {
		Message:  "Payment completed successfully",
		Severity: SeveritySuccess,
	},
	stripe.PaymentIntentStatusProcessing: {
		Message:  "Payment is being processed",
		Severity: SeverityInfo,
	},
	stripe.PaymentIntentStatusRequiresPaymentMethod: {
		Message:  "Payment failed - please try a different payment method",
		Severity: SeverityError,
	},
	stripe.PaymentIntentStatusRequiresConfirmation: {
		Message:  "Payment requires additional confirmation",
		Severity: SeverityWarning,
	},
	stripe.PaymentIntentStatusRequiresAction: {
		Message:  "Payment requires additional authentication (3D Secure)",
		Severity: SeverityWarning,
	},
	stripe.PaymentIntentStatusCanceled: {
		Message:  "Payment was canceled",
		Severity: SeverityError,
	},
	stripe.PaymentIntentStatusRequiresCapture: {
		Message:  "Payment authorized, awaiting capture",
		Severity: SeverityInfo,
	},
}

// declineMessages overrides the generic requires_payment_method message with a
// decline-code-specific explanation.
var declineMessages = map[string]string{
	"card_declined":    "Your card was declined",
	"expired_card":     "Your card has expired",
	"incorrect_cvc":    "Your card's security code is incorrect",
	"processing_error": "An error occurred while processing your card",
	"incorrect_number": "Your card number is incorrect",
}

// ClassifyPaymentStatus is a pure function of (status, decline code). Unknown
// statuses get a warning embedding the raw status string.
func ClassifyPaymentStatus(status stripe.PaymentIntentStatus, lastErr *stripe.Error) models.StatusInfo {
	info, ok := statusInfoTable[status]
	if !ok {
		info = models.StatusInfo{
			Message:  fmt.Sprintf("Unknown payment status: %s", status),
			Severity: SeverityWarning,
		}
	}

	if status == stripe.PaymentIntentStatusRequiresPaymentMethod && lastErr != nil {
		if msg, ok := declineMessages[string(lastErr.DeclineCode)]; ok {
			info.Message = msg
		}
	}

	return info
}
