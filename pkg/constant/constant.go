package constant

import "time"

// Roles assignable to CRM users. Authorization enforcement lives in the
// routing layer; auth only stamps the role into access-token claims.
const (
	RoleAdmin    = "ADMIN"
	RoleAgent    = "AGENT"
	RoleReadonly = "READONLY"
)

// DefaultUserRole is assigned at registration.
const DefaultUserRole = RoleAgent

const (
	// BcryptCost is the work factor for password hashing.
	BcryptCost = 12

	// LockoutMaxAttempts is the consecutive-failure count that locks an
	// account. The lock lands on the attempt that brings the counter to
	// this value, i.e. the 5th consecutive failure.
	LockoutMaxAttempts = 5

	// LockoutWindow is how long a locked account stays locked.
	LockoutWindow = 30 * time.Minute

	// ResetTokenTTL bounds the lifetime of a password-reset token.
	ResetTokenTTL = time.Hour

	// ResetTokenBytes is the entropy of a reset token before hex encoding.
	ResetTokenBytes = 32
)

// MinSecretLength is the shortest JWT signing secret accepted at startup.
const MinSecretLength = 32
