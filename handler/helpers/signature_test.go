package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func computeSignature(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureV3(t *testing.T) {
	secret := "client-secret"
	body := []byte(`[{"objectId": 42}]`)
	timestamp := "1686825000000"

	req := httptest.NewRequest("POST", "/hubspot/v1/events?foo=bar", nil)
	req.Host = "example.com"

	message := "POST" + "https://example.com/hubspot/v1/events?foo=bar" +
		string(body) + timestamp
	req.Header.Set("X-HubSpot-Signature-v3", computeSignature(message, secret))
	req.Header.Set("X-HubSpot-Request-Timestamp", timestamp)

	assert.True(t, VerifySignatureV3(req, body, secret))
	assert.False(t, VerifySignatureV3(req, body, "other-secret"))
	assert.False(t, VerifySignatureV3(req, []byte(`tampered`), secret))
}

func TestVerifySignatureV3MissingHeaders(t *testing.T) {
	req := httptest.NewRequest("POST", "/hubspot/v1/events", nil)
	req.Host = "example.com"

	assert.False(t, VerifySignatureV3(req, nil, "client-secret"))

	req.Header.Set("X-HubSpot-Signature-v3", "something")
	assert.False(t, VerifySignatureV3(req, nil, "client-secret"))
}
