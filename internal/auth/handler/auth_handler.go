package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jmartinemployment/acord-pcs-crm/internal/auth/dto"
	"github.com/jmartinemployment/acord-pcs-crm/internal/auth/service"
	autherror "github.com/jmartinemployment/acord-pcs-crm/internal/errors"
)

type AuthHandler struct {
	userService  *service.UserService
	tokenService service.TokenGenerator
}

func NewAuthHandler(userService *service.UserService, tokenService service.TokenGenerator) *AuthHandler {
	return &AuthHandler{userService: userService, tokenService: tokenService}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, autherror.ErrEmailAlreadyInUse):
		return fiber.StatusConflict
	case errors.Is(err, autherror.ErrUserNotFound):
		return fiber.StatusNotFound
	case autherror.IsUnauthorized(err):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		// Store failures stay out of responses.
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	user, err := h.userService.Register(c.Context(), input)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":    dto.NewUserOutput(user),
		"message": "Registration successful",
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	result, err := h.userService.Login(c.Context(), input)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	result, err := h.userService.Refresh(c.Context(), input)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var input dto.LogoutInput
	// Logout without a token is still a successful logout.
	_ = c.BodyParser(&input)

	if err := h.userService.Logout(c.Context(), input.RefreshToken); err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := ClaimsFromCtx(c)
	if claims == nil {
		return errorJSON(c, autherror.ErrInvalidAccessToken)
	}

	user, err := h.userService.GetProfile(c.Context(), claims.UserID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserOutput(user))
}

func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	claims := ClaimsFromCtx(c)
	if claims == nil {
		return errorJSON(c, autherror.ErrInvalidAccessToken)
	}

	var input dto.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	user, err := h.userService.UpdateProfile(c.Context(), claims.UserID, input)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserOutput(user))
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims := ClaimsFromCtx(c)
	if claims == nil {
		return errorJSON(c, autherror.ErrInvalidAccessToken)
	}

	var input dto.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if err := h.userService.ChangePassword(c.Context(), claims.UserID, input.CurrentPassword, input.NewPassword); err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Password changed successfully"})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input dto.ForgotPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if err := h.userService.ForgotPassword(c.Context(), input.Email); err != nil {
		return errorJSON(c, err)
	}

	// Same body whether or not the account exists.
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "If the email exists, a reset link has been sent",
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if err := h.userService.ResetPassword(c.Context(), input.Token, input.Password); err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Password reset successfully"})
}
