package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
)

// VerifySignatureV3 checks the hubspot v3 request signature. The signed
// message is method + full https url + body + timestamp, keyed with the
// app's client secret.
func VerifySignatureV3(r *http.Request, body []byte, clientSecret string) bool {
	signature := r.Header.Get("X-HubSpot-Signature-v3")
	timestamp := r.Header.Get("X-HubSpot-Request-Timestamp")
	if signature == "" || timestamp == "" {
		return false
	}

	message := r.Method + "https://" + r.Host + r.URL.RequestURI() +
		string(body) + timestamp

	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(message))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) == 1
}
