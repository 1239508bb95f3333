package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Azcobu/portdash/internal/api"
	"github.com/Azcobu/portdash/internal/config"
	"github.com/Azcobu/portdash/internal/database"
	"github.com/Azcobu/portdash/internal/repository"
	"github.com/Azcobu/portdash/internal/service"
	"github.com/Azcobu/portdash/internal/yahoo"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	// Open database connection and apply migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	logger.Info().Str("path", cfg.Database.Path).Msg("connected to database")

	// Create repositories and services
	holdingRepo := repository.NewHoldingRepository(db)
	quoteProvider := yahoo.NewFinanceClient()

	systemService := service.NewSystemService(db)
	portfolioService := service.NewPortfolioService(
		holdingRepo,
		quoteProvider,
		cfg.Portfolio.HoldingsDir,
		logger,
	)

	// Seed the holdings table from the portfolio CSV when empty
	if cfg.Portfolio.CSVPath != "" {
		if err := seedPortfolio(portfolioService, cfg.Portfolio.CSVPath, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed portfolio")
		}
	}

	// Scheduled metrics passes; manual refresh stays available either way
	scheduler := cron.New()
	if cfg.Portfolio.RefreshSchedule != "" {
		_, err := scheduler.AddFunc(cfg.Portfolio.RefreshSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if _, err := portfolioService.Refresh(ctx); err != nil {
				logger.Error().Err(err).Msg("scheduled metrics pass failed")
			}
		})
		if err != nil {
			logger.Fatal().Err(err).Str("schedule", cfg.Portfolio.RefreshSchedule).Msg("invalid refresh schedule")
		}
		scheduler.Start()
		logger.Info().Str("schedule", cfg.Portfolio.RefreshSchedule).Msg("scheduled refresh enabled")
	}

	// Create router
	router := api.NewRouter(systemService, portfolioService, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	scheduler.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}

// seedPortfolio imports the configured portfolio CSV when the holdings
// table is empty. An already-populated table wins over the file, so edits
// made through the import endpoint survive restarts.
func seedPortfolio(portfolioService *service.PortfolioService, csvPath string, logger zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := portfolioService.HoldingCount(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()

	imported, err := portfolioService.ImportCSV(ctx, f)
	if err != nil {
		return err
	}

	logger.Info().Int("holdings", imported).Str("csv", csvPath).Msg("portfolio seeded")
	return nil
}
