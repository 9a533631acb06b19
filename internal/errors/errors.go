package errors

import (
	"errors"
)

var (
	ErrEmailAlreadyInUse    = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountDeactivated   = errors.New("account is deactivated")
	ErrAccountLocked        = errors.New("account is locked, try again later")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidAccessToken   = errors.New("invalid or expired access token")
	ErrMissingAuthHeader    = errors.New("missing or malformed authorization header")
)

// IsUnauthorized reports whether err belongs to the credential/token failure
// family that maps to HTTP 401.
func IsUnauthorized(err error) bool {
	for _, target := range []error{
		ErrInvalidCredentials,
		ErrAccountDeactivated,
		ErrAccountLocked,
		ErrInvalidRefreshToken,
		ErrInvalidResetToken,
		ErrWrongCurrentPassword,
		ErrInvalidAccessToken,
		ErrMissingAuthHeader,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
