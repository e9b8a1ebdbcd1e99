package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testWebhookSecret = "whsec_test_secret"

func signPayload(t *testing.T, payload []byte, secret string, ts time.Time) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyWebhookSignatureValid(t *testing.T) {
	t.Parallel()

	now := time.Now()
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	header := signPayload(t, payload, testWebhookSecret, now)

	assert.True(t, VerifyStripeWebhookSignature(payload, header, testWebhookSecret, now))
}

func TestVerifyWebhookSignatureTamperedPayload(t *testing.T) {
	t.Parallel()

	now := time.Now()
	payload := []byte(`{"id":"evt_1"}`)
	header := signPayload(t, payload, testWebhookSecret, now)

	tampered := []byte(`{"id":"evt_2"}`)
	assert.False(t, VerifyStripeWebhookSignature(tampered, header, testWebhookSecret, now))
}

func TestVerifyWebhookSignatureWrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Now()
	payload := []byte(`{"id":"evt_1"}`)
	header := signPayload(t, payload, "whsec_other", now)

	assert.False(t, VerifyStripeWebhookSignature(payload, header, testWebhookSecret, now))
}

func TestVerifyWebhookSignatureExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	payload := []byte(`{"id":"evt_1"}`)
	header := signPayload(t, payload, testWebhookSecret, now.Add(-6*time.Minute))

	assert.False(t, VerifyStripeWebhookSignature(payload, header, testWebhookSecret, now))
}

func TestVerifyWebhookSignatureMalformedHeader(t *testing.T) {
	t.Parallel()

	now := time.Now()
	payload := []byte(`{"id":"evt_1"}`)

	assert.False(t, VerifyStripeWebhookSignature(payload, "", testWebhookSecret, now))
	assert.False(t, VerifyStripeWebhookSignature(payload, "garbage", testWebhookSecret, now))
	assert.False(t, VerifyStripeWebhookSignature(payload, "t=notanumber,v1=abcd", testWebhookSecret, now))
	assert.False(t, VerifyStripeWebhookSignature(payload, "v1=abcd", testWebhookSecret, now))
}

func TestVerifyWebhookSignatureMultipleSignatures(t *testing.T) {
	t.Parallel()

	now := time.Now()
	payload := []byte(`{"id":"evt_1"}`)
	valid := signPayload(t, payload, testWebhookSecret, now)

	// A rotated-secret delivery carries an extra v1 entry; one valid
	// signature is enough.
	header := valid + ",v1=" + hex.EncodeToString(make([]byte, 32))
	assert.True(t, VerifyStripeWebhookSignature(payload, header, testWebhookSecret, now))
}
