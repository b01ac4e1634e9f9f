package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"outdoormatch/internal/adapter/api"
	"outdoormatch/internal/adapter/api/handler"
	"outdoormatch/internal/adapter/api/middleware"
	"outdoormatch/internal/adapter/api/router"
	"outdoormatch/internal/adapter/cache"
	"outdoormatch/internal/infrastructure/ratelimit"
	"outdoormatch/internal/infrastructure/websocket"
	"outdoormatch/internal/usecase"
	"outdoormatch/pkg/config"
	"outdoormatch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}
	logger.Setup(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open %s backend: %v", cfg.StoreBackend, err)
	}
	defer b.Close()

	var communityCache usecase.CommunityCache
	if cfg.RedisURL != "" {
		redisClient, err := cache.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		communityCache = cache.NewRedisCommunityCache(redisClient, cfg.CommunityCacheTTL)
		b.checks = append(b.checks, handler.HealthCheck{
			Name:  "redis",
			Probe: redisProbe(redisClient),
		})
	}

	rateLimiter := ratelimit.NewRateLimiter(map[string]int{
		ratelimit.ActionCheck:       cfg.CheckRatePerMinute,
		ratelimit.ActionSendMessage: cfg.MessageRatePerMinute,
		ratelimit.ActionRequest:     cfg.RequestRatePerMinute,
	})
	rateLimiter.StartCleanupRoutine(ctx)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	profileUseCase := usecase.NewProfileUseCase(b.users, b.images)
	communityUseCase := usecase.NewCommunityUseCase(b.communities, b.users, communityCache)
	availabilityUseCase := usecase.NewAvailabilityUseCase(b.communities, b.users)
	matchUseCase := usecase.NewMatchUseCase(b.users, b.chats, rateLimiter)
	chatUseCase := usecase.NewChatUseCase(b.chats, b.users, matchUseCase, rateLimiter)

	handler.Setup(profileUseCase, communityUseCase, availabilityUseCase, matchUseCase, chatUseCase, wsManager, b.checks...)

	e := api.NewEcho()
	e.Use(middleware.RateLimit(rateLimiter, ratelimit.ActionRequest))
	router.Setup(e, middleware.NewAuthMiddleware(b.verifier))
	if b.devTokens != nil {
		handler.SetupDevTokenHandler(b.devTokens)
		router.SetupDevRouter(e)
	}

	go func() {
		logger.Info("Starting server on port %s (%s backend)...", cfg.ServerPort, cfg.StoreBackend)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}

func redisProbe(client *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
