// Package auth owns the credential lifecycle on the client side: deciding
// whether a bearer token is still usable, and storing the access/refresh
// token pair durably between runs.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// IsExpired reports whether a JWT's exp claim is in the past, using the
// provided clock. The signature is NOT verified: this layer trusts the
// issuer, and TLS covers integrity in transit.
//
// Fail closed: a token that cannot be split into at least two segments,
// whose payload does not decode, or that carries no exp claim is treated as
// expired. An unparseable token must never pass as valid.
func IsExpired(token string, now func() time.Time) bool {
	if now == nil {
		now = time.Now
	}

	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return true
	}

	payload := parts[1]
	if m := len(payload) % 4; m != 0 {
		payload += strings.Repeat("=", 4-m)
	}
	data, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return true
	}

	var claims struct {
		Exp *float64 `json:"exp"` // seconds since epoch
	}
	if err := json.Unmarshal(data, &claims); err != nil || claims.Exp == nil {
		return true
	}

	exp := time.Unix(int64(*claims.Exp), 0)
	return !exp.After(now())
}
