package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rugfork/internal/auth"
	"rugfork/internal/blockchain"
	"rugfork/internal/config"
	"rugfork/internal/database"
	"rugfork/internal/events"
	"rugfork/internal/handlers"
	"rugfork/internal/jobs"
	"rugfork/internal/metrics"
	"rugfork/internal/middleware"
	"rugfork/internal/repository"
	"rugfork/internal/rugscore"
	"rugfork/internal/services"
)

const (
	rescoreBatch    = 50
	jobTimeout      = 5 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log)
	if cfg.Log.Level != "debug" && cfg.Log.Level != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}

	auth.InitJWT(cfg.App.JWTSecret)

	if err := database.Connect(cfg.Database.Driver, cfg.GetDSN()); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	repo := repository.NewRepository(database.GetDB())

	// Live feed and optional broker
	hub := events.NewHub()
	bus := events.NewBus(hub)
	if cfg.RabbitMQ.URL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			logrus.WithError(err).Warn("RabbitMQ unavailable, events stay on the websocket feed only")
		} else {
			defer publisher.Close()
			bus.Add(publisher)
		}
	}

	m := metrics.New()
	solanaClient := blockchain.NewSolanaClient(cfg.Solana.Network, cfg.Solana.RPCURL, cfg.Solana.Timeout, cfg.Solana.SignatureLimit)
	admins := &cfg.App

	// Initialize services
	rugScoreService := services.NewRugScoreService(repo, rugscore.NewScorer(solanaClient), m)
	betService := services.NewBetService(repo, bus, m, admins)
	poolService := services.NewPoolService(repo, betService, rugScoreService, bus, m, admins)
	analyticsService := services.NewAnalyticsService(repo)
	tournamentService := services.NewTournamentService(repo, bus, admins)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})
	done := make(chan struct{})
	defer close(done)
	go limiter.Run(done)

	router := &handlers.Router{
		Auth:           handlers.NewAuthHandler(services.NewAuthService(repo)),
		Users:          handlers.NewUserHandler(services.NewUserService(repo), admins),
		Pools:          handlers.NewPoolHandler(poolService, analyticsService),
		Bets:           handlers.NewBetHandler(betService),
		Leaderboard:    handlers.NewLeaderboardHandler(services.NewLeaderboardService(repo)),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService, rugScoreService),
		Tournaments:    handlers.NewTournamentHandler(tournamentService),
		Chain:          solanaClient,
		Hub:            hub,
		Metrics:        m,
		RateLimiter:    limiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}

	if cfg.Jobs.Enabled {
		scheduler := jobs.NewScheduler(jobTimeout)
		if err := scheduler.Add(cfg.Jobs.RugScoreRefresh, jobs.NewRugScoreRefresher(rugScoreService, cfg.Jobs.RugScoreMaxAge, rescoreBatch)); err != nil {
			return err
		}
		if err := scheduler.Add(cfg.Jobs.TournamentFinalize, jobs.NewTournamentFinalizer(tournamentService)); err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"network": cfg.Solana.Network,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logrus.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logrus.Info("Server exited")
	return nil
}
