package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port                 string
	Env                  string
	StripePublishableKey string
	StripeSecretKey      string
	StripeWebhookSecret  string
	PublicBaseURL        string // used to build success/cancel redirect URLs
	FulfillmentTopicARN  string // optional SNS topic for fulfillment events
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8090"),
		Env:                  getEnv("ENV", "development"),
		StripePublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PublicBaseURL:        strings.TrimSuffix(os.Getenv("PUBLIC_BASE_URL"), "/"),
		FulfillmentTopicARN:  os.Getenv("FULFILLMENT_SNS_TOPIC_ARN"),
	}

	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" || cfg.PublicBaseURL == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}

	return cfg, nil
}

// SuccessURL is the redirect target after a completed checkout. Stripe replaces
// the placeholder with the real session id.
func (c *Config) SuccessURL() string {
	return c.PublicBaseURL + "/success?session_id={CHECKOUT_SESSION_ID}"
}

// CancelURL is the redirect target when the customer abandons checkout.
func (c *Config) CancelURL() string {
	return c.PublicBaseURL + "/cancel"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
