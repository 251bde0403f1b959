package social

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
)

// NewStateToken returns a random token for the OAuth state parameter. The
// controller keeps a copy in a short-lived cookie and compares it with the
// value echoed back on the callback.
func NewStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// VerifyState compares the echoed state with the stored one in constant
// time.
func VerifyState(got, want string) bool {
	if got == "" || want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
