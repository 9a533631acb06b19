package service

import (
	"time"

	"github.com/jmartinemployment/acord-pcs-crm/internal/auth/domain"
)

// LockoutPolicy decides when repeated login failures freeze an account.
// The counter increment itself happens atomically in the store
// (UserRepository.RecordFailedLogin); this type only carries the numbers
// and the read-side check.
type LockoutPolicy struct {
	MaxAttempts int
	Window      time.Duration
}

func NewLockoutPolicy(maxAttempts int, window time.Duration) LockoutPolicy {
	return LockoutPolicy{MaxAttempts: maxAttempts, Window: window}
}

// IsLocked reports whether the account is inside an active lockout window.
// An elapsed window unlocks lazily; no sweeper clears locked_until.
func (p LockoutPolicy) IsLocked(u *domain.User, now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
