package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmartinemployment/acord-pcs-crm/config"
	"github.com/jmartinemployment/acord-pcs-crm/internal/auth/crypto"
	"github.com/jmartinemployment/acord-pcs-crm/internal/auth/domain"
	"github.com/jmartinemployment/acord-pcs-crm/internal/auth/dto"
	autherror "github.com/jmartinemployment/acord-pcs-crm/internal/errors"
	"github.com/jmartinemployment/acord-pcs-crm/pkg/constant"
)

// ResetNotifier delivers password-reset tokens out of band. Delivery is
// outside this service; failures are logged, never surfaced to the caller.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// UserService orchestrates the session lifecycle: credential checks,
// lockout, token issuance and revocation, password changes and resets.
type UserService struct {
	repo         domain.UserRepository
	tokenService TokenGenerator
	lockout      LockoutPolicy
	notifier     ResetNotifier
}

func NewUserService(repo domain.UserRepository, tokenService TokenGenerator, cfg *config.Config) *UserService {
	return &UserService{
		repo:         repo,
		tokenService: tokenService,
		lockout:      NewLockoutPolicy(cfg.LockoutMaxAttempts, cfg.LockoutWindow),
	}
}

// WithNotifier installs the reset-token delivery channel.
func (s *UserService) WithNotifier(n ResetNotifier) *UserService {
	s.notifier = n
	return s
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	email := strings.ToLower(input.Email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		DisplayName:  input.FirstName + " " + input.LastName,
		Role:         constant.DefaultUserRole,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, autherror.ErrAccountDeactivated
	}

	if s.lockout.IsLocked(user, time.Now()) {
		return nil, autherror.ErrAccountLocked
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		// The store increments and compares in one statement; two racing
		// failures can never under-count.
		if _, err := s.repo.RecordFailedLogin(ctx, user.ID, s.lockout.MaxAttempts, s.lockout.Window); err != nil {
			log.Printf("warn: failed to record login failure for user %s: %v", user.ID, err)
		}
		return nil, autherror.ErrInvalidCredentials
	}

	if err := s.repo.ResetLoginState(ctx, user.ID); err != nil {
		return nil, err
	}

	accessToken, _, err := s.tokenService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshExpiresAt, err := s.tokenService.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := &domain.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     refreshToken,
		UserAgent: input.UserAgent,
		IPAddress: input.IPAddress,
		ExpiresAt: refreshExpiresAt,
		CreatedAt: now,
		Revoked:   false,
	}
	if err := s.repo.StoreRefreshToken(ctx, record); err != nil {
		return nil, err
	}

	lastLogin := now
	user.LastLoginAt = &lastLogin

	return &dto.LoginResponse{
		User:         dto.NewUserOutput(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.tokenService.GetAccessTokenExpiry().Seconds()),
	}, nil
}

// Refresh trades a stored, unrevoked, unexpired refresh token for a new
// access token. The refresh token itself is not rotated.
func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.RefreshResponse, error) {
	record, err := s.repo.GetRefreshToken(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Revoked || time.Now().After(record.ExpiresAt) {
		return nil, autherror.ErrInvalidRefreshToken
	}

	user, err := s.repo.GetByID(ctx, record.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrInvalidRefreshToken
	}
	if !user.IsActive {
		return nil, autherror.ErrAccountDeactivated
	}

	accessToken, _, err := s.tokenService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.tokenService.GetAccessTokenExpiry().Seconds()),
	}, nil
}

// Logout revokes the matching refresh token. Revoking an unknown or
// already-revoked token is not an error.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.RevokeRefreshToken(ctx, refreshToken)
}

// LogoutAll revokes every live refresh token the account owns.
func (s *UserService) LogoutAll(ctx context.Context, userID string) error {
	return s.repo.RevokeAllRefreshTokens(ctx, userID)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, input dto.UpdateProfileInput) (*domain.User, error) {
	displayName := input.DisplayName
	if displayName == nil && input.FirstName != nil && input.LastName != nil {
		derived := *input.FirstName + " " + *input.LastName
		displayName = &derived
	}

	user, err := s.repo.UpdateProfile(ctx, userID, input.FirstName, input.LastName, displayName)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	if !crypto.CheckPassword(currentPassword, user.PasswordHash) {
		return autherror.ErrWrongCurrentPassword
	}

	passwordHash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return err
	}

	// Every other session dies with the old password.
	return s.LogoutAll(ctx, user.ID)
}

// ForgotPassword never reveals whether the email exists; the response is
// identical either way.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	token, err := crypto.NewResetToken()
	if err != nil {
		return err
	}

	expires := time.Now().Add(constant.ResetTokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, token, expires); err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.SendPasswordReset(ctx, user.Email, token); err != nil {
			log.Printf("warn: failed to deliver reset token for user %s: %v", user.ID, err)
		}
	}

	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.repo.GetByResetToken(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrInvalidResetToken
	}

	passwordHash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return err
	}

	// Clears the token fields alongside the hash swap, so a second attempt
	// with the same token finds nothing.
	if err := s.repo.ResetPassword(ctx, user.ID, passwordHash); err != nil {
		return err
	}

	return s.LogoutAll(ctx, user.ID)
}
