package postgresadapter

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RandomTokenGenerator draws 128 bits from crypto/rand per token. Collisions
// are handled by the store's unique index plus the caller's retry, never by
// reusing a token.
type RandomTokenGenerator struct{}

func (RandomTokenGenerator) NewToken(_ context.Context) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read token entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
