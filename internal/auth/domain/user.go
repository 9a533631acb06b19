package domain

import "time"

type User struct {
	ID                   string
	Email                string
	PasswordHash         string
	FirstName            string
	LastName             string
	DisplayName          string
	Role                 string
	IsActive             bool
	FailedLoginAttempts  int
	LockedUntil          *time.Time
	PasswordResetToken   *string
	PasswordResetExpires *time.Time
	LastLoginAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	UserAgent string
	IPAddress string
	ExpiresAt time.Time
	Revoked   bool
	RevokedAt *time.Time
	CreatedAt time.Time
}
