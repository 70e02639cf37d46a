package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setRequired(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
	t.Setenv("PUBLIC_BASE_URL", "https://shop.example.com/")
}

func TestLoadConfig(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "https://shop.example.com", cfg.PublicBaseURL)
	assert.Equal(t, "https://shop.example.com/success?session_id={CHECKOUT_SESSION_ID}", cfg.SuccessURL())
	assert.Equal(t, "https://shop.example.com/cancel", cfg.CancelURL())
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}
