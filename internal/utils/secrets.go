package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SecretBytes is the size of generated signing secrets (256-bit)
const SecretBytes = 32

// JWTSecrets holds one signing secret per token type
type JWTSecrets struct {
	Access  string
	Refresh string
}

// RandomHex returns n random bytes from crypto/rand, hex encoded
func RandomHex(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("secret size must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewJWTSecrets generates distinct access and refresh secrets
func NewJWTSecrets() (JWTSecrets, error) {
	var secrets JWTSecrets
	var err error
	if secrets.Access, err = RandomHex(SecretBytes); err != nil {
		return JWTSecrets{}, fmt.Errorf("failed to generate access secret: %w", err)
	}
	for {
		if secrets.Refresh, err = RandomHex(SecretBytes); err != nil {
			return JWTSecrets{}, fmt.Errorf("failed to generate refresh secret: %w", err)
		}
		if secrets.Refresh != secrets.Access {
			return secrets, nil
		}
	}
}
