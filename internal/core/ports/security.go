package ports

import (
	"context"
	"time"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

// PasswordHasher is a one-way salted hash. Verify returns false on any mismatch
// and never reports an error.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) bool
}

// TokenService issues and verifies signed, time-limited session tokens.
type TokenService interface {
	Issue(p domain.Principal) (token string, expiresAt time.Time, err error)
	Verify(token string) (domain.Principal, error)
	TTL() time.Duration
}

// LoginLimiter tracks failed logins per key within a sliding window.
type LoginLimiter interface {
	Blocked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}
