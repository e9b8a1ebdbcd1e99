package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FelixBrandt/StackDroid/internal/pkg/env"
)

const defaultPayPalAPIBaseURL = "https://api-m.sandbox.paypal.com"

// PayPalOrderCompleted is the capture status that finalizes a purchase.
const PayPalOrderCompleted = "COMPLETED"

// PayPalClient creates and captures checkout orders.
type PayPalClient struct {
	ClientID     string
	ClientSecret string
	APIBaseURL   string

	HTTPClient *http.Client
}

// PayPalOrder is the subset of an order the storefront uses.
type PayPalOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func NewPayPalClientFromEnv() *PayPalClient {
	return &PayPalClient{
		ClientID:     strings.TrimSpace(env.GetEnv("PAYPAL_CLIENT_ID", "")),
		ClientSecret: strings.TrimSpace(env.GetEnv("PAYPAL_CLIENT_SECRET", "")),
		APIBaseURL:   strings.TrimRight(env.GetEnv("PAYPAL_API_BASE_URL", defaultPayPalAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *PayPalClient) accessToken(ctx context.Context) (string, error) {
	if c.ClientID == "" || c.ClientSecret == "" {
		return "", errors.New("PAYPAL_CLIENT_ID/PAYPAL_CLIENT_SECRET are not configured")
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.ClientID, c.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("paypal token request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return "", errors.New("paypal token response missing access_token")
	}
	return out.AccessToken, nil
}

// CreateOrder creates a capture-intent order over amountCents USD.
func (c *PayPalClient) CreateOrder(ctx context.Context, amountCents int64) (*PayPalOrder, error) {
	if amountCents <= 0 {
		return nil, errors.New("amount must be positive")
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": "USD",
					"value":         fmt.Sprintf("%d.%02d", amountCents/100, amountCents%100),
				},
			},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return c.postOrder(ctx, c.APIBaseURL+"/v2/checkout/orders", token, data)
}

// CaptureOrder finalizes an approved order; a non-COMPLETED status must
// never grant an entitlement.
func (c *PayPalClient) CaptureOrder(ctx context.Context, orderID string) (*PayPalOrder, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, errors.New("order id is required")
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	return c.postOrder(ctx, c.APIBaseURL+"/v2/checkout/orders/"+url.PathEscape(orderID)+"/capture", token, nil)
}

func (c *PayPalClient) postOrder(ctx context.Context, endpoint, token string, body []byte) (*PayPalOrder, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paypal order request failed: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var out PayPalOrder
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("paypal order response missing id")
	}
	return &out, nil
}
