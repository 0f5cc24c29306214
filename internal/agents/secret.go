package agents

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const (
	secretPrefix = "sk_"
	secretLength = 24
)

// GenerateSecret returns a fresh per-agent secret key.
func GenerateSecret() (string, error) {
	b := make([]byte, secretLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return secretPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}
