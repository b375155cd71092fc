package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mserrato/accounts-be/internal/api"
	"github.com/mserrato/accounts-be/internal/auth"
	"github.com/mserrato/accounts-be/internal/config"
	"github.com/mserrato/accounts-be/internal/database"
	"github.com/mserrato/accounts-be/internal/logger"
	"github.com/mserrato/accounts-be/internal/monitoring"
	"github.com/mserrato/accounts-be/internal/services"
)

func main() {
	logger.Init()

	// Load configuration; missing secrets abort here, never at first request.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath, cfg.DBConnectAttempts, cfg.DBConnectDelay)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up auth components
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token manager")
	}
	serviceTokens, err := auth.NewStaticTokenVerifier(cfg.ServiceToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service token verifier")
	}
	hasher := auth.NewPasswordHasher()

	// Set up services
	userService := services.NewUserService(db, hasher, tokens)
	eventService := services.NewEventService(db)

	// Set up and run the background stats updater
	statUpdater := monitoring.NewStatUpdater(1 * time.Minute)
	go statUpdater.Run()

	// Set up and run the maintenance scheduler
	scheduler := monitoring.NewScheduler(eventService, cfg.EventRetentionDays, cfg.EventPurgeSchedule)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start maintenance scheduler")
	}

	// Set up router
	router := api.NewRouter(tokens, serviceTokens, userService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	statUpdater.Stop()
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
