package token

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"
)

// Generate returns a cryptographically random bearer token: 32 bytes of
// entropy rendered as base64url. Tokens are opaque; nothing is derived from
// the subscriber.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "rand.Read")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
