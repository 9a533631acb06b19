package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/jmartinemployment/acord-pcs-crm/internal/auth/domain UserRepository

// UserRepository is the credential/token store contract. Lookups return
// (nil, nil) when no row matches; errors are reserved for store failures.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateProfile(ctx context.Context, id string, firstName, lastName, displayName *string) (*User, error)

	// RecordFailedLogin atomically increments the failure counter and, when
	// the incremented value reaches maxAttempts, sets locked_until to
	// now + lockWindow. Returns the post-update user state.
	RecordFailedLogin(ctx context.Context, id string, maxAttempts int, lockWindow time.Duration) (*User, error)

	// ResetLoginState zeroes the failure counter, clears any lock and
	// stamps last_login_at.
	ResetLoginState(ctx context.Context, id string) error

	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	SetResetToken(ctx context.Context, id string, token string, expires time.Time) error
	GetByResetToken(ctx context.Context, token string) (*User, error)

	// ResetPassword swaps the hash and clears both reset-token fields in
	// one statement so a reset token is spendable exactly once.
	ResetPassword(ctx context.Context, id string, passwordHash string) error

	StoreRefreshToken(ctx context.Context, rt *RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error
}
