package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewToken returns n random bytes hex encoded.
func NewToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashToken is what gets persisted in place of a plaintext token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
