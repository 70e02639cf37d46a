package models

import "time"

// FulfillmentRecord is emitted when a checkout session completes or expires.
// There is no idempotency tracking: Stripe's at-least-once delivery can produce
// duplicate records for the same session, and consumers must tolerate that.
type FulfillmentRecord struct {
	RecordID      string            `json:"record_id"`
	SessionID     string            `json:"session_id"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	Amount        int64             `json:"amount,omitempty"`
	Currency      string            `json:"currency,omitempty"`
	Status        string            `json:"status"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	ExpiredAt     *time.Time        `json:"expired_at,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}
