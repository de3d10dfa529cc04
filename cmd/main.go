package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/yamess/authService/config"
	"github.com/yamess/authService/db"
	"github.com/yamess/authService/internal/auth/handler"
	repo "github.com/yamess/authService/internal/auth/repository/postgres"
	"github.com/yamess/authService/internal/auth/service"
	"github.com/yamess/authService/internal/logging"
)

func main() {
	ctx := context.Background()
	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := db.RunMigrations(ctx, cfg.DBURL); err != nil {
		log.Error(ctx, "failed to run migrations", "error", err)
		os.Exit(1)
	}

	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	tokenService, err := service.NewTokenService(cfg.SecretKey, cfg.Algorithm, cfg.AccessExpiryMin)
	if err != nil {
		log.Error(ctx, "failed to build token service", "error", err)
		os.Exit(1)
	}

	userRepo := repo.NewPostgresRepository(pool)
	usernames := service.NewUsernameGenerator(cfg.UsernameLength)
	userService := service.NewUserService(userRepo, tokenService, usernames, cfg.UsernameAttempts, log)
	guard := service.NewGuard(tokenService, userRepo)
	authHandler := handler.NewAuthHandler(userService, tokenService, guard)

	app := fiber.New(fiber.Config{AppName: "Authentication API service"})
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	handler.RegisterRoutes(app, authHandler)

	log.Info(ctx, "starting server", "port", cfg.Port, "env", cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}
