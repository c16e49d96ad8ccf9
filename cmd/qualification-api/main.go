// cmd/qualification-api/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"crbi-workers/internal/api"
	"crbi-workers/internal/common/config"
	"crbi-workers/internal/common/database"
	"crbi-workers/internal/common/logger"
	"crbi-workers/internal/matching"
	"crbi-workers/internal/store"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting qualification API...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres failed", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	var rdb *redis.Client
	redisWrapper, err := database.NewRedis(cfg.Database.Redis)
	if err != nil || redisWrapper.Ping(ctx) != nil {
		// The profile cache is optional for the API path; serve without it.
		zapLog.Warn("redis unreachable, serving without profile cache", zap.Error(err))
	} else {
		defer redisWrapper.Close()
		rdb = redisWrapper.Client
	}

	cacheTTL := time.Duration(cfg.Matching.ProfileCacheTTL) * time.Second
	clients := store.NewClientStore(pg.DB, rdb, cacheTTL, log)
	programs := store.NewProgramStore(pg.DB, log)
	service := matching.NewService(clients, programs, programs, log)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := api.NewHandler(service, log)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.API.ListenAddress,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.API.RequestTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.API.RequestTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("API listening", zap.String("address", cfg.API.ListenAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("API shutdown failed", zap.Error(err))
	}

	zapLog.Info("Qualification API stopped gracefully")
}
