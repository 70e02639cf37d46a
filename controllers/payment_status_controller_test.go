package controllers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v80"

	"checkout-service/models"
)

func TestGetPaymentStatus_DirectLookup(t *testing.T) {
	fake := &fakeStripeClient{
		intent: &stripe.PaymentIntent{
			ID:           "pi_test_1",
			Status:       stripe.PaymentIntentStatusSucceeded,
			Amount:       4999,
			Currency:     stripe.CurrencyUSD,
			Created:      time.Now().Unix(),
			ClientSecret: "pi_test_1_secret",
		},
	}
	r := setupRouter(fake, &fakeRecorder{})

	w := getPath(r, "/payment/status?payment_intent_id=pi_test_1")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.PaymentStatusResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "pi_test_1", resp.PaymentIntent.ID)
	assert.Equal(t, "succeeded", resp.PaymentIntent.Status)
	assert.Equal(t, "success", resp.StatusInfo.Severity)
	assert.Nil(t, resp.Session)
	assert.Nil(t, resp.LastPaymentError)
	assert.Equal(t, 0, fake.getSessionCalls)
}

func TestGetPaymentStatus_ViaSession(t *testing.T) {
	fake := &fakeStripeClient{
		session: &stripe.CheckoutSession{
			ID:            "cs_test_1",
			Status:        stripe.CheckoutSessionStatusComplete,
			PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
			ExpiresAt:     time.Now().Add(10 * time.Minute).Unix(),
			PaymentIntent: &stripe.PaymentIntent{ID: "pi_test_1"},
		},
		intent: &stripe.PaymentIntent{
			ID:       "pi_test_1",
			Status:   stripe.PaymentIntentStatusProcessing,
			Amount:   4999,
			Currency: stripe.CurrencyUSD,
		},
	}
	r := setupRouter(fake, &fakeRecorder{})

	w := getPath(r, "/payment/status?session_id=cs_test_1")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.PaymentStatusResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "pi_test_1", resp.PaymentIntent.ID)
	assert.Equal(t, "info", resp.StatusInfo.Severity)
	assert.NotNil(t, resp.Session)
	assert.Equal(t, "cs_test_1", resp.Session.ID)
	assert.Equal(t, "paid", resp.Session.PaymentStatus)
}

func TestGetPaymentStatus_DeclineCodeOverride(t *testing.T) {
	fake := &fakeStripeClient{
		intent: &stripe.PaymentIntent{
			ID:     "pi_test_1",
			Status: stripe.PaymentIntentStatusRequiresPaymentMethod,
			LastPaymentError: &stripe.Error{
				Type:        stripe.ErrorTypeCard,
				Code:        stripe.ErrorCodeCardDeclined,
				Msg:         "Your card was declined.",
				DeclineCode: "card_declined",
			},
		},
	}
	r := setupRouter(fake, &fakeRecorder{})

	w := getPath(r, "/payment/status?payment_intent_id=pi_test_1")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.PaymentStatusResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "Your card was declined", resp.StatusInfo.Message)
	assert.Equal(t, "error", resp.StatusInfo.Severity)
	assert.NotNil(t, resp.LastPaymentError)
	assert.Equal(t, "card_declined", resp.LastPaymentError.DeclineCode)
}

func TestGetPaymentStatus_MissingIDs(t *testing.T) {
	fake := &fakeStripeClient{}
	r := setupRouter(fake, &fakeRecorder{})

	w := getPath(r, "/payment/status")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, fake.getIntentCalls)
	assert.Equal(t, 0, fake.getSessionCalls)
}

func TestGetPaymentStatus_IntentNotFound(t *testing.T) {
	fake := &fakeStripeClient{
		intentErr: &stripe.Error{
			Type: stripe.ErrorTypeInvalidRequest,
			Code: stripe.ErrorCodeResourceMissing,
			Msg:  "No such payment_intent: 'pi_missing'",
		},
	}
	r := setupRouter(fake, &fakeRecorder{})

	w := getPath(r, "/payment/status?payment_intent_id=pi_missing")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPaymentStatus_SessionWithoutIntent(t *testing.T) {
	fake := &fakeStripeClient{
		session: &stripe.CheckoutSession{
			ID:        "cs_test_1",
			Status:    stripe.CheckoutSessionStatusOpen,
			ExpiresAt: time.Now().Add(10 * time.Minute).Unix(),
		},
	}
	r := setupRouter(fake, &fakeRecorder{})

	w := getPath(r, "/payment/status?session_id=cs_test_1")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, fake.getIntentCalls)
}

func TestGetPaymentStatus_UpstreamFailure(t *testing.T) {
	fake := &fakeStripeClient{
		intentErr: &stripe.Error{Msg: "API connection error"},
	}
	r := setupRouter(fake, &fakeRecorder{})

	w := getPath(r, "/payment/status?payment_intent_id=pi_test_1")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "Failed to check payment status", resp["error"])
	assert.Equal(t, "API connection error", resp["details"])
}
