package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"

	"mentorhub/internal/config"
	"mentorhub/internal/database"
	"mentorhub/internal/handler"
	"mentorhub/internal/jwtauth"
	"mentorhub/internal/list"
	"mentorhub/internal/logger"
	"mentorhub/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	var fluentClient *fluent.Fluent
	var extra []slog.Handler
	if cfg.FluentBit.Enabled {
		fluentClient, err = logger.NewFluentClient(cfg.FluentBit, "mentorhub")
		if err != nil {
			log.Fatalf("failed to create Fluent Bit client: %v", err)
		}
		extra = append(extra, logger.NewFluentHandler(fluentClient, logger.ParseLevel(cfg.Log.Level)))
	}

	l := logger.New(cfg.Log, os.Stdout, extra...)
	slog.SetDefault(l)

	if err := run(cfg, l); err != nil {
		l.Error("server exited with error", "error", err)
		closeFluent(fluentClient)
		os.Exit(1)
	}
	closeFluent(fluentClient)
}

func run(cfg *config.Config, l *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			l.Error("error closing database connection", "error", err)
		}
	}()
	l.Info("database connection established")

	// Run migrations
	if err := db.MigrateUp(); err != nil {
		return err
	}
	version, dirty, err := db.MigrateVersion()
	switch {
	case err != nil:
		l.Warn("failed to get migration version", "error", err)
	case dirty:
		l.Warn("database is in dirty state, a previous migration failed and manual intervention is required", "version", version)
	default:
		l.Info("database migrations complete", "version", version)
	}

	verifier, err := jwtauth.NewVerifier(ctx, jwtauth.Config{
		Domain:          cfg.Auth0.Domain,
		Audience:        cfg.Auth0.Audience,
		RefreshInterval: cfg.Auth0.RefreshInterval,
		Logger:          l,
	})
	if err != nil {
		return err
	}

	router := handler.NewRouter(handler.Deps{
		Config:   cfg,
		Verifier: verifier,
		Users:    user.NewManager(user.NewDatastore(db.DB)),
		Lists:    list.NewManager(list.NewDatastore(db.DB)),
		DB:       db,
		Logger:   l,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		l.Info("mentorhub server starting", "port", cfg.Port, "env", cfg.Environment)
		serverErr <- server.ListenAndServe()
	}()

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		l.Info("received shutdown signal, waiting for in-flight requests to complete")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error("graceful shutdown failed, forcing shutdown", "error", err)
		if err := server.Close(); err != nil {
			return err
		}
	}

	l.Info("server shutdown complete")
	return nil
}

func closeFluent(c *fluent.Fluent) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Printf("error closing Fluent Bit client: %v", err)
	}
}
