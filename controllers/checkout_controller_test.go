package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"checkout-service/config"
	"checkout-service/models"
)

// ---- fakes shared by the controller tests ----

type fakeStripeClient struct {
	createCalls      int
	lastCreateParams *stripe.CheckoutSessionParams
	createSession    *stripe.CheckoutSession
	createErr        error

	getSessionCalls int
	session         *stripe.CheckoutSession
	sessionErr      error

	getIntentCalls int
	intent         *stripe.PaymentIntent
	intentErr      error

	constructCalls int
	event          stripe.Event
	eventErr       error
}

func (f *fakeStripeClient) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.createCalls++
	f.lastCreateParams = params
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createSession, nil
}

func (f *fakeStripeClient) GetCheckoutSession(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.getSessionCalls++
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.session, nil
}

func (f *fakeStripeClient) GetPaymentIntent(id string) (*stripe.PaymentIntent, error) {
	f.getIntentCalls++
	if f.intentErr != nil {
		return nil, f.intentErr
	}
	return f.intent, nil
}

func (f *fakeStripeClient) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	f.constructCalls++
	if f.eventErr != nil {
		return stripe.Event{}, f.eventErr
	}
	return f.event, nil
}

type fakeRecorder struct {
	records []models.FulfillmentRecord
	err     error
}

func (f *fakeRecorder) Record(ctx context.Context, rec models.FulfillmentRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

func setupRouter(fake *fakeStripeClient, rec *fakeRecorder) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:                 "8090",
		Env:                  "test",
		StripePublishableKey: "pk_test_123",
		PublicBaseURL:        "https://shop.example.com",
	}
	cc := NewCheckoutController(fake, rec, zap.NewNop(), cfg)

	r := gin.New()
	r.GET("/healthz", cc.Health)
	r.GET("/config", cc.GetConfig)
	r.GET("/products", cc.ListProducts)
	r.POST("/checkout", cc.CreateCheckoutSession)
	r.GET("/checkout/session", cc.GetCheckoutSession)
	r.GET("/payment/status", cc.GetPaymentStatus)
	r.POST("/webhooks/stripe", cc.StripeWebhook)
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---- tests ----

func TestCreateCheckoutSession_Success(t *testing.T) {
	fake := &fakeStripeClient{
		createSession: &stripe.CheckoutSession{
			ID:  "cs_test_1",
			URL: "https://checkout.stripe.com/c/pay/cs_test_1",
		},
	}
	r := setupRouter(fake, &fakeRecorder{})

	w := postJSON(r, "/checkout", models.CheckoutRequest{ProductID: "prod_1", Quantity: 2})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", resp["url"])

	params := fake.lastCreateParams
	assert.Equal(t, "payment", *params.Mode)
	assert.Equal(t, "https://shop.example.com/success?session_id={CHECKOUT_SESSION_ID}", *params.SuccessURL)
	assert.Equal(t, "https://shop.example.com/cancel", *params.CancelURL)
	assert.Len(t, params.LineItems, 1)
	assert.Equal(t, int64(4999), *params.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, int64(2), *params.LineItems[0].Quantity)
	assert.Equal(t, "prod_1", params.Metadata["productId"])
	assert.Equal(t, "2", params.Metadata["quantity"])

	// 30 minute expiry, allowing a little slack for test execution
	expiry := time.Unix(*params.ExpiresAt, 0)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiry, 5*time.Second)
}

func TestCreateCheckoutSession_DefaultQuantity(t *testing.T) {
	fake := &fakeStripeClient{
		createSession: &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"},
	}
	r := setupRouter(fake, &fakeRecorder{})

	w := postJSON(r, "/checkout", models.CheckoutRequest{ProductID: "prod_2"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), *fake.lastCreateParams.LineItems[0].Quantity)
	assert.Equal(t, "1", fake.lastCreateParams.Metadata["quantity"])
}

func TestCreateCheckoutSession_MissingProductID(t *testing.T) {
	fake := &fakeStripeClient{}
	r := setupRouter(fake, &fakeRecorder{})

	w := postJSON(r, "/checkout", models.CheckoutRequest{Quantity: 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, fake.createCalls)
}

func TestCreateCheckoutSession_UnknownProduct(t *testing.T) {
	fake := &fakeStripeClient{}
	r := setupRouter(fake, &fakeRecorder{})

	w := postJSON(r, "/checkout", models.CheckoutRequest{ProductID: "prod_missing"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, fake.createCalls)
}

func TestCreateCheckoutSession_NegativeQuantity(t *testing.T) {
	fake := &fakeStripeClient{}
	r := setupRouter(fake, &fakeRecorder{})

	w := postJSON(r, "/checkout", models.CheckoutRequest{ProductID: "prod_1", Quantity: -1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, fake.createCalls)
}

func TestCreateCheckoutSession_UpstreamError(t *testing.T) {
	fake := &fakeStripeClient{
		createErr: &stripe.Error{Msg: "Invalid API key provided"},
	}
	r := setupRouter(fake, &fakeRecorder{})

	w := postJSON(r, "/checkout", models.CheckoutRequest{ProductID: "prod_1"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "Failed to create checkout session", resp["error"])
	assert.Equal(t, "Invalid API key provided", resp["details"])
}

func TestListProducts(t *testing.T) {
	r := setupRouter(&fakeStripeClient{}, &fakeRecorder{})

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Products []models.Product `json:"products"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Len(t, resp.Products, 3)
}

func TestGetConfig(t *testing.T) {
	r := setupRouter(&fakeStripeClient{}, &fakeRecorder{})

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "pk_test_123", resp["publishable_key"])
}
