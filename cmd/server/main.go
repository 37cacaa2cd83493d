package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nbaedge/props-api/internal/api"
	"github.com/nbaedge/props-api/internal/api/handlers"
	"github.com/nbaedge/props-api/internal/api/middleware"
	"github.com/nbaedge/props-api/internal/providers"
	"github.com/nbaedge/props-api/internal/reconcile"
	"github.com/nbaedge/props-api/internal/services"
	"github.com/nbaedge/props-api/internal/store"
	"github.com/nbaedge/props-api/pkg/config"
	"github.com/nbaedge/props-api/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	logger := logrus.StandardLogger()
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	cacheService := services.NewCacheService(redisClient)

	// Upstream providers
	oddsClient := providers.NewOddsAPIClient(cfg.OddsAPIKey, cacheService, logger)
	lineupClient := providers.NewFantasyNerdsClient(cfg.FantasyNerdsAPIKey, cfg.FantasyNerdsBaseURL, cacheService, logger)
	statsClient := providers.NewNBAStatsClient(cfg.NBAStatsBaseURL, cacheService, logger)

	// Stores
	gameStore := store.NewGameStore(db)
	rosterStore := store.NewRosterStore(db)
	lineupStore := store.NewLineupStore(db, logger)
	gameLogStore := store.NewGameLogStore(db, cfg.GameLogLimit)
	historyStore := store.NewOddsHistoryStore(db)
	depthChartStore := store.NewDepthChartStore(db)

	// Services. Lineup and odds merges write the same slot rows, so
	// they share one keyed lock.
	slotLocks := services.NewKeyedLock()
	rosterSvc := services.NewRosterService(statsClient, rosterStore, logger, cfg.RosterImportDelay, cfg.RosterImportLongDelay)
	lineupSvc := services.NewLineupService(lineupClient, rosterSvc, gameStore, lineupStore, cacheService, logger, slotLocks)
	overUnderSvc := services.NewOverUnderService(statsClient, gameLogStore, logger,
		cfg.GameLogLimit, cfg.LiveFetchTimeout, cfg.GameLogFreshWindow, cfg.GameLogWorkers)
	resolver := reconcile.NewEventResolver(cfg.EventMatchThreshold, logger)
	oddsSvc := services.NewOddsService(oddsClient, rosterSvc, gameStore, lineupStore, historyStore,
		overUnderSvc, resolver, cacheService, logger, slotLocks, cfg.PlayerMatchThreshold)
	depthChartSvc := services.NewDepthChartService(lineupClient, depthChartStore, cacheService, logger)

	// Background refresh loop
	if cfg.EnableBackgroundJobs {
		fetchInterval, err := time.ParseDuration(cfg.DataFetchInterval)
		if err != nil {
			logrus.Warnf("Invalid fetch interval, using default 2h: %v", err)
			fetchInterval = 2 * time.Hour
		}
		dataFetcher := services.NewDataFetcherService(gameStore, lineupSvc, oddsSvc, logger, fetchInterval)
		if err := dataFetcher.Start(); err != nil {
			logrus.Errorf("Failed to start data fetcher: %v", err)
		}
		defer dataFetcher.Stop()
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, api.Deps{
		Games:     gameStore,
		Rosters:   rosterStore,
		History:   historyStore,
		RosterSvc: rosterSvc,
		LineupSvc: lineupSvc,
		OddsSvc:   oddsSvc,
		OverUnder: overUnderSvc,
		DepthSvc:  depthChartSvc,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
