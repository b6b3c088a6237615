package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/voglerhub/club-system/config"
	"github.com/voglerhub/club-system/db"
	"github.com/voglerhub/club-system/handlers"
	"github.com/voglerhub/club-system/middleware"
	"github.com/voglerhub/club-system/repositories"
	"github.com/voglerhub/club-system/routes"
	"github.com/voglerhub/club-system/services"
	"github.com/voglerhub/club-system/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Float64("travel_km_rate", cfg.TravelKmRate))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	trainerRepo := repositories.NewPostgresTrainerRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	billRepo := repositories.NewPostgresBillRepository(dbConn)
	travelReportRepo := repositories.NewPostgresTravelReportRepository(dbConn)
	logger.Info("repositories initialized")

	// One rate resolver for the whole process. The travel km rate is read from
	// the environment exactly once at startup.
	rates := services.NewRateResolver(cfg.TravelKmRate)
	emailService := services.NewEmailService(cfg)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	trainerService := services.NewTrainerService(trainerRepo)
	teamService := services.NewTeamService(teamRepo, trainerRepo, playerRepo, uploader)
	playerService := services.NewPlayerService(playerRepo)
	billService := services.NewBillService(billRepo, trainerRepo, teamRepo, userRepo, rates, emailService, logger)
	travelService := services.NewTravelReportService(travelReportRepo, teamRepo, userRepo, rates, emailService, logger)
	logger.Info("services initialized")

	h := routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		User:         handlers.NewUserHandler(userService),
		Trainer:      handlers.NewTrainerHandler(trainerService),
		Team:         handlers.NewTeamHandler(teamService),
		Player:       handlers.NewPlayerHandler(playerService),
		Bill:         handlers.NewBillHandler(billService),
		TravelReport: handlers.NewTravelReportHandler(travelService),
	}

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)
	router := routes.InitRoutes(h, authenticator)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
