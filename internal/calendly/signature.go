package calendly

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

const SignatureHeader = "Calendly-Webhook-Signature"

var (
	ErrMalformedSignature = errors.New("malformed signature header")
	ErrSignatureMismatch  = errors.New("signature mismatch")
)

// Sign returns the hex HMAC-SHA256 of body under key.
func Sign(key string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a header of comma separated k=v pairs, e.g.
// "t=1700000000,v1=<hex>", against the body.
func VerifySignature(key, header string, body []byte) error {
	parts := map[string]string{}
	for _, pair := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return ErrMalformedSignature
		}
		parts[k] = v
	}

	expected := Sign(key, body)
	if !hmac.Equal([]byte(parts["v1"]), []byte(expected)) {
		return ErrSignatureMismatch
	}
	return nil
}
