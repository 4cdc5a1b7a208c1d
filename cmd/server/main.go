package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/lkaminski/matchday-stats-service/internal/config"
	"github.com/lkaminski/matchday-stats-service/internal/engine"
	"github.com/lkaminski/matchday-stats-service/internal/handler"
	"github.com/lkaminski/matchday-stats-service/internal/logger"
	"github.com/lkaminski/matchday-stats-service/internal/notifier"
	pgrepo "github.com/lkaminski/matchday-stats-service/internal/repository"
	"github.com/lkaminski/matchday-stats-service/internal/repository/postgres"
	"github.com/lkaminski/matchday-stats-service/internal/service"
)

func main() {
	// Load application config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	ctx := context.Background()
	repo, err := pgrepo.New(ctx, cfg, &appLogger)
	if err != nil {
		log.Fatalf("❌ Postgres connection failed: %v", err)
	}
	defer repo.Close()
	pool := repo.Pool()

	// Repositories
	teams := postgres.NewTeamRepository(pool)
	players := postgres.NewPlayerRepository(pool)
	games := postgres.NewGameRepository(pool)
	gameTeams := postgres.NewGameTeamRepository(pool)
	events := postgres.NewEventLogRepository(pool)
	eventTypes := postgres.NewEventTypeRepository(pool)
	pinger := postgres.NewPinger(pool)

	// Event type reference data is read once at startup. An empty table is
	// survivable: read paths degrade and ingestion refuses until it's seeded.
	typeRows, err := eventTypes.List(ctx)
	if err != nil {
		log.Fatalf("❌ Event type load failed: %v", err)
	}
	types := engine.NewTypeCache(typeRows)
	if types.Empty() {
		appLogger.Warn().Msg("event_types table is empty; clock and ingestion degraded until seeded")
	}
	eng := engine.New(types)

	// Notifications (fire and forget)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	pub := notifier.NewRedisPublisher(redisClient, appLogger)

	// Services
	teamSvc := service.NewTeamService(teams, appLogger)
	playerSvc := service.NewPlayerService(players, teams, appLogger)
	gameSvc := service.NewGameService(games, appLogger)
	clockSvc := service.NewClockService(events, games, eng, types, time.Now, appLogger)
	playTimeSvc := service.NewPlayerTimeService(events, games, gameTeams, eng, types, time.Now, appLogger)
	eventSvc := service.NewEventService(events, gameTeams, eng, types, pub, appLogger)

	// HTTP transport
	if cfg.Logger.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handler.Register(router, pinger, teamSvc, playerSvc, gameSvc, clockSvc, playTimeSvc, eventSvc)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info().Str("addr", addr).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("shutdown incomplete")
	}
	appLogger.Info().Msg("✅ Service stopped")
}
