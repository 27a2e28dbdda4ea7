package core

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"
)

// GenerateSecret returns a cryptographically random, url-safe string built
// from nBytes of entropy. Used for course access codes and password reset
// tokens.
func GenerateSecret(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "reading random bytes")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
