package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/isdelr/todo-be/internal/api"
	"github.com/isdelr/todo-be/internal/api/handlers"
	"github.com/isdelr/todo-be/internal/auth"
	"github.com/isdelr/todo-be/internal/config"
	"github.com/isdelr/todo-be/internal/database"
	"github.com/isdelr/todo-be/internal/logger"
	"github.com/isdelr/todo-be/internal/monitoring"
	"github.com/isdelr/todo-be/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	// Ensure the directory for the database file exists
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create database directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	userService := services.NewUserService(db, auth.PasswordCost)
	todoService := services.NewTodoService(db)
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.SessionCookieName, cfg.IsProduction())

	// Set up and run the background maintenance scheduler
	maintenance, err := monitoring.NewMaintenance(db, cfg.MaintenanceCron)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up maintenance scheduler")
	}
	maintenance.Start()

	stats, err := monitoring.NewStatsCollector()
	if err != nil {
		log.Warn().Err(err).Msg("Process stats unavailable")
		stats = nil
	}

	// Set up router
	router := api.NewRouter(api.Deps{
		Users:          userService,
		Todos:          todoService,
		Sessions:       sessions,
		Health:         handlers.NewHealthHandler(db, stats),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.AppEnv).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	maintenance.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
