package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/tshwanesporting/clubsite/config"
	"github.com/tshwanesporting/clubsite/db"
	"github.com/tshwanesporting/clubsite/handlers"
	"github.com/tshwanesporting/clubsite/live"
	"github.com/tshwanesporting/clubsite/repositories"
	api "github.com/tshwanesporting/clubsite/routes"
	"github.com/tshwanesporting/clubsite/services"
	"github.com/tshwanesporting/clubsite/sessions"
	"github.com/tshwanesporting/clubsite/storage"
)

const sessionPruneInterval = 10 * time.Minute

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
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("storage_backend", cfg.StorageBackend),
		slog.String("session_backend", cfg.SessionBackend),
		slog.String("upload_backend", cfg.UploadBackend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных (только для postgres-бэкендов)
	var dbConn *sql.DB
	if cfg.StorageBackend == config.StorageBackendPostgres || cfg.SessionBackend == config.SessionBackendPostgres {
		dbConn, err = db.Connect(cfg.DatabaseURL, 5*time.Second)
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
	}

	// Хранилище сессий
	sessionStore, janitor, err := buildSessionStore(cfg, dbConn)
	if err != nil {
		logger.Error("failed to initialize session store", slog.Any("error", err))
		os.Exit(1)
	}

	// Шлюз хранения
	var store *repositories.Store
	switch cfg.StorageBackend {
	case config.StorageBackendPostgres:
		store = repositories.NewPostgresStore(dbConn, sessionStore)
	default:
		store = repositories.NewMemoryStore(sessionStore)
	}
	logger.Info("storage gateway initialized")

	// Загрузчик файлов
	uploader, uploadsDir, err := buildUploader(cfg)
	if err != nil {
		logger.Error("failed to initialize file uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("file uploader initialized", slog.String("backend", cfg.UploadBackend))

	// Инициализация WebSocket Hub (запускается ниже, в errgroup)
	wsHub := live.NewHub()

	// Сервисы
	authService := services.NewAuthService(store.Users, store.Sessions, cfg.SessionTTL, logger)
	playerService := services.NewPlayerService(store.Players, wsHub, logger)
	photoService := services.NewPhotoService(store.Photos, uploader, wsHub, logger)
	adminService := services.NewAdminService(store.Players, store.Photos)
	logger.Info("services initialized")

	if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminFullName); err != nil {
		logger.Error("failed to seed bootstrap admin", slog.Any("error", err))
		os.Exit(1)
	}

	// Обработчики HTTP
	authHandler := handlers.NewAuthHandler(authService, cfg.SessionSecret)
	playerHandler := handlers.NewPlayerHandler(playerService, uploader)
	photoHandler := handlers.NewPhotoHandler(photoService, uploader)
	adminHandler := handlers.NewAdminHandler(adminService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	// Маршрутизатор
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Deps{
		AuthHandler:      authHandler,
		PlayerHandler:    playerHandler,
		PhotoHandler:     photoHandler,
		AdminHandler:     adminHandler,
		WebSocketHandler: webSocketHandler,
		SessionStore:     sessionStore,
		UserRepo:         store.Users,
		SessionSecret:    cfg.SessionSecret,
		Logger:           logger,
		UploadsDir:       uploadsDir,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("WebSocket Hub started")
		wsHub.Run(gCtx)
		return nil
	})

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			return server.Close()
		}
		logger.Info("server shutdown complete")
		return nil
	})

	if janitor != nil {
		g.Go(func() error {
			janitor(gCtx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

// buildSessionStore picks the session backend and returns an optional
// background pruner for backends that need one.
func buildSessionStore(cfg *config.Config, dbConn *sql.DB) (sessions.Store, func(context.Context), error) {
	switch cfg.SessionBackend {
	case config.SessionBackendPostgres:
		store := sessions.NewPostgresStore(dbConn)
		janitor := func(ctx context.Context) {
			ticker := time.NewTicker(sessionPruneInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := store.PruneExpired(ctx); err != nil && !errors.Is(err, context.Canceled) {
						slog.Error("failed to prune expired sessions", slog.Any("error", err))
					}
				}
			}
		}
		return store, janitor, nil

	case config.SessionBackendRedis:
		store, err := sessions.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		// Redis выбрасывает ключи по TTL сам, janitor не нужен.
		return store, nil, nil

	default:
		store := sessions.NewMemoryStore()
		janitor := func(ctx context.Context) {
			store.RunJanitor(ctx, sessionPruneInterval)
		}
		return store, janitor, nil
	}
}

func buildUploader(cfg *config.Config) (storage.FileUploader, string, error) {
	if cfg.UploadBackend == config.UploadBackendR2 {
		uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		return uploader, "", err
	}

	uploader, err := storage.NewLocalDiskUploader(cfg.UploadDir)
	return uploader, cfg.UploadDir, err
}
