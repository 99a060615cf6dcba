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

	"github.com/Dosada05/lamasia-league/config"
	"github.com/Dosada05/lamasia-league/db"
	"github.com/Dosada05/lamasia-league/handlers"
	"github.com/Dosada05/lamasia-league/navigation"
	"github.com/Dosada05/lamasia-league/realtime"
	"github.com/Dosada05/lamasia-league/repositories"
	api "github.com/Dosada05/lamasia-league/routes"
	"github.com/Dosada05/lamasia-league/services"
	"github.com/Dosada05/lamasia-league/state"
	"github.com/Dosada05/lamasia-league/storage"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подключение к базе данных
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
	if err := db.Migrate(ctx, dbConn); err != nil {
		logger.Error("failed to apply schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database connection established")

	// Инициализация репозиториев
	tx := repositories.NewPostgresTransactor(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	identityRepo := repositories.NewPostgresIdentityRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	roundRepo := repositories.NewPostgresRoundRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	notificationRepo := repositories.NewPostgresNotificationRepository(dbConn)

	// Снимок состояния и лента изменений
	controller := state.NewController(&state.RepositorySource{
		TeamRepo:         teamRepo,
		MatchRepo:        matchRepo,
		PlayerRepo:       playerRepo,
		RoundRepo:        roundRepo,
		UserRepo:         userRepo,
		NotificationRepo: notificationRepo,
	}, logger)

	listener, err := db.NewListener(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("failed to start change feed", slog.Any("error", err))
		os.Exit(1)
	}
	defer listener.Close()

	if err := controller.Start(ctx, listener); err != nil {
		logger.Error("failed to load initial snapshot", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("snapshot loaded", slog.Uint64("version", controller.Snapshot().Version))

	// WebSocket Hub и публикация изменений
	wsHub := realtime.NewHub(logger)
	go wsHub.Run(ctx)
	changes, unsubscribe := controller.Subscribe()
	defer unsubscribe()
	go realtime.NewPublisher(wsHub, controller, logger).Run(ctx, changes)
	logger.Info("WebSocket Hub started")

	// Необязательные внешние сервисы
	var mailer services.Mailer
	if cfg.SMTPEnabled() {
		mailer = services.NewEmailService(cfg)
		logger.Info("SMTP mailer enabled", slog.String("host", cfg.SMTPHost))
	}
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	// Инициализация сервисов
	clock := clockwork.NewRealClock()
	notificationService := services.NewNotificationService(notificationRepo, userRepo, controller, wsHub, mailer, clock, logger)
	authService := services.NewAuthService(tx, identityRepo, userRepo, notificationService, logger)
	sessionService := services.NewSessionService(userRepo, cfg.OwnerEmail, logger)
	teamService := services.NewTeamService(teamRepo, notificationService, logger)
	roundService := services.NewRoundService(tx, roundRepo, matchRepo, teamRepo, notificationService, logger)
	matchService := services.NewMatchService(tx, matchRepo, roundRepo, teamRepo, playerRepo, notificationService, logger)
	playerService := services.NewPlayerService(playerRepo, teamRepo, logger)
	userService := services.NewUserService(userRepo, teamRepo, controller, notificationService, logger)
	queryService := services.NewQueryService(controller)
	publishService := services.NewPublishService(controller, uploader, clock, logger)
	navigator := navigation.NewRouter(services.ViewGuard)
	logger.Info("Services initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, sessionService, navigator, cfg.JWTSecretKey, clock),
		Me:           handlers.NewMeHandler(navigator, queryService),
		Team:         handlers.NewTeamHandler(teamService, queryService),
		Player:       handlers.NewPlayerHandler(playerService),
		Round:        handlers.NewRoundHandler(roundService, queryService),
		Match:        handlers.NewMatchHandler(matchService, queryService),
		Standings:    handlers.NewStandingsHandler(queryService, publishService),
		User:         handlers.NewUserHandler(userService),
		Notification: handlers.NewNotificationHandler(notificationService),
		WebSocket:    handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins, logger),
	}, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Sessions:       sessionService,
		Logger:         logger,
	})
	logger.Info("Routes configured")

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
	case <-controller.Done():
		logger.Error("change feed closed, shutting down")
		shutdown(server, logger)
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdown(server, logger)
	}
	cancel()
	logger.Info("application exited")
}

func shutdown(server *http.Server, logger *slog.Logger) {
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
		return
	}
	logger.Info("server shutdown complete")
}
