package models

// CheckoutRequest is the body of POST /checkout. Quantity defaults to 1 when
// omitted.
type CheckoutRequest struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// LineItemInfo is one purchased line projected from the Stripe session.
type LineItemInfo struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	AmountTotal int64  `json:"amount_total"`
}

// SessionInfo is the client-facing projection of a Stripe checkout session.
// CustomerEmail is omitted when Stripe has not collected one yet.
type SessionInfo struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	ExpiresAt     int64             `json:"expires_at"`
	Created       int64             `json:"created"`
	Metadata      map[string]string `json:"metadata"`
	LineItems     []LineItemInfo    `json:"line_items,omitempty"`
}

// SessionSummary is the reduced session shape embedded in payment status
// responses when the payment intent was resolved via a session id.
type SessionSummary struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	ExpiresAt     int64  `json:"expires_at"`
}

// PaymentIntentInfo is the client-facing projection of a Stripe payment intent.
type PaymentIntentInfo struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Created      int64  `json:"created"`
	ClientSecret string `json:"client_secret"`
}

// PaymentError carries the structured last-error detail from a failed payment
// attempt.
type PaymentError struct {
	Type        string `json:"type"`
	Code        string `json:"code,omitempty"`
	Message     string `json:"message"`
	DeclineCode string `json:"decline_code,omitempty"`
}

// StatusInfo is the human-readable classification of a payment intent status.
type StatusInfo struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// PaymentStatusResponse is the body of GET /payment/status.
type PaymentStatusResponse struct {
	PaymentIntent    PaymentIntentInfo `json:"payment_intent"`
	Session          *SessionSummary   `json:"session"`
	StatusInfo       StatusInfo        `json:"status_info"`
	LastPaymentError *PaymentError     `json:"last_payment_error"`
}
