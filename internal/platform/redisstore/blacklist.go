// Package redisstore provides Redis-backed implementations of the
// store interfaces that need expiring state. Redis handles key expiry
// natively, which makes it a natural fit for a token blacklist whose
// entries become irrelevant the moment the token itself expires.
package redisstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskhive/taskhive-api/internal/store"
)

const blacklistKeyPrefix = "blacklist"

// TokenBlacklist implements store.TokenBlacklist on top of Redis.
// Tokens are stored under a SHA-256 digest of the raw token so the
// signed credential itself never lands in Redis, and each entry
// carries a TTL equal to the token's remaining lifetime.
type TokenBlacklist struct {
	redis    *redis.Client
	prefix   string
	timeFunc func() time.Time
}

// Ensure TokenBlacklist implements store.TokenBlacklist
var _ store.TokenBlacklist = (*TokenBlacklist)(nil)

// NewTokenBlacklist creates a Redis-backed token blacklist. keyPrefix
// namespaces the blacklist keys so several deployments can share a
// Redis instance; it may be empty.
func NewTokenBlacklist(redisClient *redis.Client, keyPrefix string) *TokenBlacklist {
	return &TokenBlacklist{
		redis:    redisClient,
		prefix:   keyPrefix,
		timeFunc: time.Now,
	}
}

func (b *TokenBlacklist) key(token string) string {
	digest := sha256.Sum256([]byte(token))
	hashed := hex.EncodeToString(digest[:])
	if b.prefix == "" {
		return blacklistKeyPrefix + ":" + hashed
	}
	return b.prefix + ":" + blacklistKeyPrefix + ":" + hashed
}

// Record marks a token as revoked until its expiry. Recording an
// already-revoked token is a no-op, as is recording a token whose
// expiry has already passed.
func (b *TokenBlacklist) Record(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.timeFunc())
	if ttl <= 0 {
		return nil
	}

	if err := b.redis.Set(ctx, b.key(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to record blacklisted token: %w", err)
	}
	return nil
}

// Contains reports whether the token has been revoked. Expired entries
// are evicted by Redis, so a token past its lifetime reads as absent.
func (b *TokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := b.redis.Exists(ctx, b.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}
