package store

import (
	"context"
	"time"
)

// TokenBlacklist records tokens invalidated by logout so they are
// rejected before their natural expiry. Implementations must make
// Record idempotent: re-recording an already blacklisted token is a
// no-op success.
//
// Entries only need to live until the token's expiry; after that the
// expiry check rejects the token regardless, so implementations are
// free to drop expired entries.
type TokenBlacklist interface {
	// Record blacklists the raw token until expiresAt. Recording a
	// token that is already expired is a no-op success.
	Record(ctx context.Context, token string, expiresAt time.Time) error

	// Contains reports whether the raw token is currently blacklisted.
	Contains(ctx context.Context, token string) (bool, error)
}
