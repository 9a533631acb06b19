package handler_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jmartinemployment/acord-pcs-crm/internal/auth/domain"
)

// memoryRepo is an in-memory UserRepository for exercising full session
// flows through the HTTP surface without a database.
type memoryRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User         // keyed by id
	tokens map[string]*domain.RefreshToken // keyed by token value
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:  make(map[string]*domain.User),
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *memoryRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memoryRepo) UpdateProfile(_ context.Context, id string, firstName, lastName, displayName *string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	if u == nil {
		return nil, nil
	}
	if firstName != nil {
		u.FirstName = *firstName
	}
	if lastName != nil {
		u.LastName = *lastName
	}
	if displayName != nil {
		u.DisplayName = *displayName
	}
	return u, nil
}

func (r *memoryRepo) RecordFailedLogin(_ context.Context, id string, maxAttempts int, lockWindow time.Duration) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	if u == nil {
		return nil, nil
	}
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		until := time.Now().Add(lockWindow)
		u.LockedUntil = &until
	}
	return u, nil
}

func (r *memoryRepo) ResetLoginState(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.users[id]; u != nil {
		u.FailedLoginAttempts = 0
		u.LockedUntil = nil
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

func (r *memoryRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.users[id]; u != nil {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (r *memoryRepo) SetResetToken(_ context.Context, id string, token string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.users[id]; u != nil {
		u.PasswordResetToken = &token
		u.PasswordResetExpires = &expires
	}
	return nil
}

func (r *memoryRepo) GetByResetToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.PasswordResetToken != nil && *u.PasswordResetToken == token &&
			u.PasswordResetExpires != nil && u.PasswordResetExpires.After(time.Now()) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) ResetPassword(_ context.Context, id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.users[id]; u != nil {
		u.PasswordHash = passwordHash
		u.PasswordResetToken = nil
		u.PasswordResetExpires = nil
	}
	return nil
}

func (r *memoryRepo) StoreRefreshToken(_ context.Context, rt *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[rt.Token] = rt
	return nil
}

func (r *memoryRepo) GetRefreshToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens[token], nil
}

func (r *memoryRepo) RevokeRefreshToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rt := r.tokens[token]; rt != nil && !rt.Revoked {
		rt.Revoked = true
		now := time.Now()
		rt.RevokedAt = &now
	}
	return nil
}

func (r *memoryRepo) RevokeAllRefreshTokens(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, rt := range r.tokens {
		if rt.UserID == userID && !rt.Revoked {
			rt.Revoked = true
			rt.RevokedAt = &now
		}
	}
	return nil
}
