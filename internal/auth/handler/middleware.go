package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jmartinemployment/acord-pcs-crm/internal/auth/service"
	autherror "github.com/jmartinemployment/acord-pcs-crm/internal/errors"
)

const claimsLocalKey = "authClaims"

// RequireAuth validates the bearer access token and stashes its claims in
// the request locals for downstream handlers.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return errorJSON(c, autherror.ErrMissingAuthHeader)
		}

		claims, err := h.tokenService.VerifyAccessToken(token)
		if err != nil {
			return errorJSON(c, autherror.ErrInvalidAccessToken)
		}

		c.Locals(claimsLocalKey, claims)

		return c.Next()
	}
}

// ClaimsFromCtx returns the verified claims set by RequireAuth, or nil.
func ClaimsFromCtx(c *fiber.Ctx) *service.JWTCustomClaims {
	claims, _ := c.Locals(claimsLocalKey).(*service.JWTCustomClaims)
	return claims
}
