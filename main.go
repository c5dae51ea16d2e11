package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"overtime-approval/cache"
	"overtime-approval/config"
	"overtime-approval/database"
	"overtime-approval/events"
	"overtime-approval/handlers"
	"overtime-approval/middleware"
	"overtime-approval/notify"
	"overtime-approval/repository/memory"
	"overtime-approval/repository/postgresql"
	"overtime-approval/services"

	"github.com/go-chi/httplog/v3"
	"gorm.io/gorm"
)

func main() {
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(slog.String("app", "overtime-approval"))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger = logger.With(slog.String("env", cfg.App.Env))
	slog.SetDefault(logger)

	ctx := context.Background()

	// Initialize storage
	repos, db, err := openRepositories(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "storage", cfg.App.Storage, "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer database.Close(db)
	}

	var seedData *database.SeedData
	if cfg.App.SeedFile != "" {
		if seedData, err = database.LoadSeedFile(cfg.App.SeedFile); err != nil {
			slog.Error("Failed to load seed file", "path", cfg.App.SeedFile, "error", err)
			os.Exit(1)
		}
	}
	if err := database.Seed(ctx, repos.Profiles, repos.Categories, seedData); err != nil {
		slog.Error("Failed to seed data", "error", err)
		os.Exit(1)
	}

	listCache, err := cache.New(cfg.Cache.Size)
	if err != nil {
		slog.Error("Failed to initialize cache", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.NATS.URL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Error("Failed to connect to NATS", "url", cfg.NATS.URL, "error", err)
			os.Exit(1)
		}
		publisher = natsPublisher
	}
	defer publisher.Close()

	var notifier notify.Notifier = notify.Nop{}
	if cfg.SMTP.Enabled() {
		mailer, err := notify.NewMailer(notify.SMTPConfig{
			Host:          cfg.SMTP.Host,
			Port:          cfg.SMTP.Port,
			User:          cfg.SMTP.User,
			Pass:          cfg.SMTP.Pass,
			From:          cfg.SMTP.From,
			SkipTLSVerify: cfg.SMTP.SkipTLSVerify,
		})
		if err != nil {
			slog.Error("Failed to initialize mailer", "error", err)
			os.Exit(1)
		}
		notifier = mailer
	}

	svc := services.New(repos, listCache, publisher, notifier)
	session := middleware.NewSession(cfg.JWT.Secret, cfg.JWT.Expiration, cfg.IsProduction(), svc.Session)

	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	}, svc, session)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "storage", cfg.App.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	slog.Info("Server stopped")
}

// openRepositories returns the configured storage backend. The *gorm.DB is nil
// for in-memory storage.
func openRepositories(cfg *config.Config) (services.Repositories, *gorm.DB, error) {
	if cfg.App.Storage == config.StorageMemory {
		store := memory.NewStore()
		return services.Repositories{
			Profiles:    store.Profiles(),
			Categories:  store.Categories(),
			Submissions: store.Submissions(),
		}, nil, nil
	}

	db, err := database.Open(cfg.Database.URL, cfg.IsProduction())
	if err != nil {
		return services.Repositories{}, nil, err
	}

	return services.Repositories{
		Profiles:    postgresql.NewProfileRepository(db),
		Categories:  postgresql.NewCategoryRepository(db),
		Submissions: postgresql.NewSubmissionRepository(db),
	}, db, nil
}
