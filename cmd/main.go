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

	"github.com/Dosada05/match-score/config"
	"github.com/Dosada05/match-score/db"
	"github.com/Dosada05/match-score/handlers"
	"github.com/Dosada05/match-score/repositories"
	api "github.com/Dosada05/match-score/routes"
	"github.com/Dosada05/match-score/services"
	"github.com/Dosada05/match-score/storage"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("log_level", level.String()))

	// Подключение к базе данных
	dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, cfg.DBConnectTimeout, logger)
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

	if err := db.RunMigrations(dbConn); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Хранилище снапшотов (Cloudflare R2). Без настроек снапшоты просто не выгружаются.
	var uploader storage.Uploader = storage.NoopUploader{}
	if cfg.R2Enabled() {
		uploader, err = storage.NewR2Uploader(context.Background(), storage.R2Config{
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
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("R2 is not configured, tournament snapshots disabled")
	}

	// Инициализация репозиториев
	tx := repositories.NewPostgresTransactor(dbConn, logger)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	matchupRepo := repositories.NewPostgresMatchupRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo, cfg.AdminEmails)
	userService := services.NewUserService(userRepo, logger)
	tournamentService := services.NewTournamentService(tx, tournamentRepo, matchupRepo, playerRepo, teamRepo, uploader, logger)
	matchupService := services.NewMatchupService(tx, tournamentRepo, matchupRepo, playerRepo, teamRepo, uploader, logger)
	playerService := services.NewPlayerService(playerRepo, teamRepo, tournamentRepo)
	teamService := services.NewTeamService(teamRepo, playerRepo, tournamentRepo, logger)

	router := api.SetupRoutes(api.Handlers{
		Auth:       handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Matchup:    handlers.NewMatchupHandler(matchupService),
		Player:     handlers.NewPlayerHandler(playerService),
		Team:       handlers.NewTeamHandler(teamService),
		User:       handlers.NewUserHandler(userService),
		Health:     handlers.NewHealthHandler(dbConn),
	}, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	// Настройка и запуск HTTP-сервера
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

	// Ожидание сигнала завершения
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
