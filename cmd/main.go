package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jmartinemployment/acord-pcs-crm/config"
	"github.com/jmartinemployment/acord-pcs-crm/db"
	"github.com/jmartinemployment/acord-pcs-crm/internal/auth/handler"
	repo "github.com/jmartinemployment/acord-pcs-crm/internal/auth/repository/postgres"
	"github.com/jmartinemployment/acord-pcs-crm/internal/auth/service"
)

// logNotifier stands in for the mail channel until one is wired up.
type logNotifier struct{}

func (logNotifier) SendPasswordReset(_ context.Context, email, _ string) error {
	log.Printf("password reset requested for %s", email)
	return nil
}

func main() {
	cfg := config.Load()

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}
	defer dbPool.Close()

	userRepo := repo.NewPostgresRepository(dbPool)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	userService := service.NewUserService(userRepo, tokenService, cfg).WithNotifier(logNotifier{})
	authHandler := handler.NewAuthHandler(userService, tokenService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	log.Printf("auth service listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
