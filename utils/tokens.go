package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

const (
	apiKeyPrefix     = "hk_"
	apiKeyByteLength = 20
	apiKeyPrefixLen  = 8
)

// NewDebtorToken returns a random opaque token for a debtor link.
func NewDebtorToken() string {
	return uuid.NewString()
}

// NewCallID identifies a queued call request.
func NewCallID() string {
	return uuid.NewString()
}

// GenerateAPIKey returns the plaintext key, its sha256 hash and a short
// display prefix. Only the hash and prefix are persisted.
func GenerateAPIKey() (key, hash, prefix string, err error) {
	b := make([]byte, apiKeyByteLength)
	if _, err := rand.Read(b); err != nil {
		return "", "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	key = apiKeyPrefix + hex.EncodeToString(b)
	return key, HashAPIKey(key), key[:len(apiKeyPrefix)+apiKeyPrefixLen], nil
}

func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
