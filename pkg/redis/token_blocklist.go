package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const blocklistPrefix = "auth:revoked:"

var (
	setBlocklistValue = Set
	existsBlocklist   = Exists
)

// TokenBlocklist remembers revoked tokens until they would have
// expired anyway. Tokens are stored hashed.
type TokenBlocklist struct{}

func NewTokenBlocklist() *TokenBlocklist {
	return &TokenBlocklist{}
}

func (b *TokenBlocklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return setBlocklistValue(ctx, blocklistKey(token), "1", ttl)
}

func (b *TokenBlocklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	return existsBlocklist(ctx, blocklistKey(token))
}

func blocklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blocklistPrefix + hex.EncodeToString(sum[:])
}
