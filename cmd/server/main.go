package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/snipvid/backend/internal/router"
	"github.com/snipvid/backend/pkg/config"
	"github.com/snipvid/backend/pkg/firebase"
	"github.com/snipvid/backend/pkg/logger"
	"github.com/snipvid/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize structured logger
	logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	l := logger.L()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize databases")
	}
	defer db.CloseDB()

	// Initialize Firebase (social login + push). The server still runs
	// without it; those features return a 503 / are skipped.
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		l.Warn().Err(err).Msg("firebase unavailable, social login and push disabled")
		firebaseApp = &firebase.App{}
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e)
	reconciler := router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, firebaseApp.AuthClient, firebaseApp.MessagingClient)
	reconciler.Start()

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("server stopped")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("server shutdown failed")
	}

	// Drain any queued counter reconciliations before exiting
	reconciler.Stop()
	select {
	case <-reconciler.Done():
	case <-time.After(10 * time.Second):
		l.Warn().Msg("reconciler drain timed out")
	}
}
