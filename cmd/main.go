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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/Dosada05/league-system/cache"
	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/db"
	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/live"
	"github.com/Dosada05/league-system/repositories"
	api "github.com/Dosada05/league-system/routes"
	"github.com/Dosada05/league-system/services"
	"github.com/Dosada05/league-system/storage"
)

const (
	broadcastInterval  = 30 * time.Second
	cacheTTL           = time.Minute
	cacheSweepInterval = 5 * time.Minute
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	if err := db.RunMigrations(dbConn, cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	var uploader storage.FileUploader
	if cfg.R2Endpoint != "" {
		uploader, err = storage.NewR2Uploader(storage.R2Config{
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			Endpoint:        cfg.R2Endpoint,
			Bucket:          cfg.R2Bucket,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, crest uploads disabled")
	}

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	hub := live.NewHub(logger)
	go hub.Run()

	store := cache.NewStore(cacheTTL)
	go store.Sweep(rootCtx, cacheSweepInterval)

	// Repositories are stateless; they receive *sql.DB or *sql.Tx per call.
	competitionRepo := repositories.NewPostgresCompetitionRepository()
	seasonRepo := repositories.NewPostgresSeasonRepository()
	clubRepo := repositories.NewPostgresClubRepository()
	playerRepo := repositories.NewPostgresPlayerRepository()
	participantRepo := repositories.NewPostgresParticipantRepository()
	roundRepo := repositories.NewPostgresRoundRepository()
	seriesRepo := repositories.NewPostgresSeriesRepository()
	matchRepo := repositories.NewPostgresMatchRepository()
	eventRepo := repositories.NewPostgresMatchEventRepository()
	lineupRepo := repositories.NewPostgresLineupRepository()
	clubStatsRepo := repositories.NewPostgresClubStatsRepository()
	playerStatsRepo := repositories.NewPostgresPlayerStatsRepository()
	disqRepo := repositories.NewPostgresDisqualificationRepository()
	predictionRepo := repositories.NewPostgresPredictionRepository()
	achievementRepo := repositories.NewPostgresAchievementRepository()
	userRepo := repositories.NewPostgresUserRepository()
	notificationRepo := repositories.NewPostgresNotificationRepository()

	authService := services.NewAuthService(dbConn, userRepo, []byte(cfg.JWTSecretKey))
	competitionService := services.NewCompetitionService(dbConn, competitionRepo, seasonRepo)
	clubService := services.NewClubService(dbConn, clubRepo, playerRepo, uploader, logger)
	seasonService := services.NewSeasonService(
		dbConn, competitionRepo, seasonRepo, clubRepo, participantRepo,
		roundRepo, seriesRepo, matchRepo, clubStatsRepo, logger)
	progressionService := services.NewProgressionService(
		seasonRepo, seriesRepo, matchRepo, clubStatsRepo, logger)
	finalizeService := services.NewFinalizeService(
		dbConn, seasonRepo, matchRepo, participantRepo, playerRepo,
		eventRepo, lineupRepo, clubStatsRepo, playerStatsRepo,
		disqRepo, predictionRepo, achievementRepo, progressionService, logger)
	matchService := services.NewMatchService(
		dbConn, matchRepo, eventRepo, lineupRepo, clubRepo, finalizeService)
	predictionService := services.NewPredictionService(
		dbConn, matchRepo, predictionRepo, achievementRepo)
	statsService := services.NewStatsService(
		dbConn, seasonRepo, clubStatsRepo, playerStatsRepo, disqRepo)
	overviewService := services.NewOverviewService(
		dbConn, seasonRepo, matchRepo, clubStatsRepo, playerStatsRepo, disqRepo, store)
	broadcastService := services.NewBroadcastService(
		dbConn, notificationRepo, userRepo, services.NewSMTPSender(cfg), logger)

	// Post-commit hooks: cache drop, live push, email fan-out. All best
	// effort after the finalize transaction lands.
	finalizeService.AddHook(func(ctx context.Context, res *services.FinalizeResult) {
		store.InvalidateSeason(ctx, res.Season.ID)
	})
	finalizeService.AddHook(func(ctx context.Context, res *services.FinalizeResult) {
		hub.Publish(live.SeasonRoom(res.Season.ID), "MATCH_FINALIZED", map[string]any{
			"match":     res.Match,
			"standings": res.Standings,
		})
	})
	finalizeService.AddHook(func(ctx context.Context, res *services.FinalizeResult) {
		if err := broadcastService.EnqueueMatchFinalized(ctx, res); err != nil {
			logger.Error("failed to enqueue result broadcast",
				slog.Int("match_id", res.Match.ID), slog.Any("error", err))
		}
	})

	if cfg.SMTPHost != "" {
		go func() {
			ticker := time.NewTicker(broadcastInterval)
			defer ticker.Stop()
			for {
				select {
				case <-rootCtx.Done():
					return
				case <-ticker.C:
					if err := broadcastService.DrainPending(rootCtx); err != nil {
						logger.Error("broadcast drain failed", slog.Any("error", err))
					}
				}
			}
		}()
		logger.Info("broadcast queue drain started", slog.Duration("interval", broadcastInterval))
	} else {
		logger.Warn("SMTP not configured, broadcast queue will not drain")
	}

	authHandler := handlers.NewAuthHandler(authService)
	seasonHandler := handlers.NewSeasonHandler(seasonService, competitionService, overviewService)
	matchHandler := handlers.NewMatchHandler(matchService)
	clubHandler := handlers.NewClubHandler(clubService)
	statsHandler := handlers.NewStatsHandler(statsService)
	predictionHandler := handlers.NewPredictionHandler(predictionService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	router := chi.NewRouter()
	api.SetupRoutes(router, []byte(cfg.JWTSecretKey),
		authHandler, seasonHandler, matchHandler, clubHandler,
		statsHandler, predictionHandler, wsHandler)
	logger.Info("routes configured")

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		stopBackground()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
