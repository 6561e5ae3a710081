package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// generateToken returns n random bytes hex-encoded (2n characters).
func generateToken(n int) (string, error) {
	if n < 16 {
		return "", fmt.Errorf("token length too short")
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
