package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	auth := app.Group("/api/auth")

	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Post("/logout", h.Logout)
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Post("/reset-password", h.ResetPassword)

	// Bearer-token protected endpoints
	auth.Get("/me", h.RequireAuth(), h.Me)
	auth.Patch("/me", h.RequireAuth(), h.UpdateMe)
	auth.Post("/change-password", h.RequireAuth(), h.ChangePassword)
}
