package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NomadCrew/feedback-board/config"
	"github.com/NomadCrew/feedback-board/db"
	"github.com/NomadCrew/feedback-board/handlers"
	"github.com/NomadCrew/feedback-board/internal/events"
	"github.com/NomadCrew/feedback-board/internal/store"
	"github.com/NomadCrew/feedback-board/internal/store/memory"
	"github.com/NomadCrew/feedback-board/internal/store/postgres"
	"github.com/NomadCrew/feedback-board/internal/store/sqlite"
	"github.com/NomadCrew/feedback-board/logger"
	"github.com/NomadCrew/feedback-board/router"
	"github.com/NomadCrew/feedback-board/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title        Feedback Board API
// @version      1.0
// @description  Collects, lists, edits and deletes user feedback entries.
// @BasePath     /
func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		_ = logger.Close()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s store: %v", cfg.Database.Driver, err)
	}
	defer backend.close()

	var (
		publisher   events.Publisher = events.NoopPublisher{}
		redisClient redis.UniversalClient
	)
	if cfg.Events.Enabled {
		client := redis.NewClient(config.ConfigureRedisOptions(&cfg.Redis))
		if err := config.TestRedisConnection(ctx, client); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer func() {
			_ = client.Close()
		}()

		redisPublisher := events.NewRedisPublisher(client, events.Config{
			Channel:        cfg.Events.Channel,
			PublishTimeout: time.Duration(cfg.Events.PublishTimeoutSeconds) * time.Second,
		})
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := redisPublisher.Shutdown(shutdownCtx); err != nil {
				log.Warnw("Event publisher shutdown incomplete", "error", err)
			}
		}()

		publisher = redisPublisher
		redisClient = client
		log.Infow("Publishing feedback events", "channel", cfg.Events.Channel)
	}

	feedbackService := services.NewFeedbackService(backend.store, publisher)
	healthService := services.NewHealthService(backend.pinger, cfg.Database.Driver, redisClient, cfg.Server.Version)

	r := router.SetupRouter(router.Dependencies{
		Config:          cfg,
		FeedbackHandler: handlers.NewFeedbackHandler(feedbackService, cfg.API.LegacyErrorStatus),
		HealthHandler:   handlers.NewHealthHandler(healthService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "driver", cfg.Database.Driver, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
}

// storeBackend bundles the selected store with its health probe and cleanup.
// pinger stays nil for the in-memory store.
type storeBackend struct {
	store  store.FeedbackStore
	pinger services.Pinger
	close  func()
}

func openStore(ctx context.Context, cfg *config.Config) (*storeBackend, error) {
	log := logger.GetLogger()

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		if cfg.Database.RunMigrations {
			if err := db.RunMigrations(cfg.Database.URL()); err != nil {
				return nil, err
			}
		}
		client, err := db.NewDatabaseClient(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		return &storeBackend{
			store:  postgres.NewFeedbackStore(client.GetPool()),
			pinger: client,
			close:  client.Close,
		}, nil

	case config.DriverSQLite:
		gdb, err := sqlite.Open(cfg.Database.SQLitePath, cfg.IsDevelopment())
		if err != nil {
			return nil, err
		}
		return &storeBackend{
			store:  sqlite.NewFeedbackStore(gdb),
			pinger: sqlite.NewPinger(gdb),
			close: func() {
				if err := sqlite.Close(gdb); err != nil {
					log.Warnw("Failed to close SQLite database", "error", err)
				}
			},
		}, nil

	default:
		log.Warn("Using in-memory feedback store, entries are lost on restart")
		return &storeBackend{
			store: memory.NewFeedbackStore(),
			close: func() {},
		}, nil
	}
}
