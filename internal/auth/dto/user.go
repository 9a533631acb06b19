package dto

import (
	"time"

	"github.com/jmartinemployment/acord-pcs-crm/internal/auth/domain"
)

type UserOutput struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	DisplayName string     `json:"displayName"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewUserOutput strips security state off a domain user. The password hash
// and lockout fields never leave the service boundary.
func NewUserOutput(u *domain.User) UserOutput {
	return UserOutput{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

type UpdateProfileInput struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	DisplayName *string `json:"displayName"`
}
