package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayPalTestServer(t *testing.T, captureStatus string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token-abc","token_type":"Bearer"}`))
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))

		var payload struct {
			Intent        string `json:"intent"`
			PurchaseUnits []struct {
				Amount struct {
					CurrencyCode string `json:"currency_code"`
					Value        string `json:"value"`
				} `json:"amount"`
			} `json:"purchase_units"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "CAPTURE", payload.Intent)
		if assert.Len(t, payload.PurchaseUnits, 1) {
			assert.Equal(t, "USD", payload.PurchaseUnits[0].Amount.CurrencyCode)
			assert.Equal(t, "2499.00", payload.PurchaseUnits[0].Amount.Value)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order-1","status":"CREATED"}`))
	})
	mux.HandleFunc("/v2/checkout/orders/order-1/capture", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order-1","status":"` + captureStatus + `"}`))
	})
	return httptest.NewServer(mux)
}

func newTestPayPalClient(baseURL string) *PayPalClient {
	return &PayPalClient{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		APIBaseURL:   baseURL,
		HTTPClient:   &http.Client{Timeout: 5 * time.Second},
	}
}

func TestPayPalCreateOrder(t *testing.T) {
	t.Parallel()

	srv := newPayPalTestServer(t, PayPalOrderCompleted)
	defer srv.Close()

	client := newTestPayPalClient(srv.URL)
	order, err := client.CreateOrder(context.Background(), 249900)

	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, "CREATED", order.Status)
}

func TestPayPalCaptureOrder(t *testing.T) {
	t.Parallel()

	srv := newPayPalTestServer(t, PayPalOrderCompleted)
	defer srv.Close()

	client := newTestPayPalClient(srv.URL)
	order, err := client.CaptureOrder(context.Background(), "order-1")

	require.NoError(t, err)
	assert.Equal(t, PayPalOrderCompleted, order.Status)
}

func TestPayPalCaptureOrderDeclined(t *testing.T) {
	t.Parallel()

	srv := newPayPalTestServer(t, "DECLINED")
	defer srv.Close()

	client := newTestPayPalClient(srv.URL)
	order, err := client.CaptureOrder(context.Background(), "order-1")

	require.NoError(t, err)
	assert.NotEqual(t, PayPalOrderCompleted, order.Status)
}

func TestPayPalCreateOrderRejectsBadInput(t *testing.T) {
	t.Parallel()

	client := newTestPayPalClient("http://unused")
	_, err := client.CreateOrder(context.Background(), 0)
	assert.Error(t, err)

	client.ClientID = ""
	_, err = client.CreateOrder(context.Background(), 1500)
	assert.Error(t, err)
}
