// ABOUTME: Main entry point for the social feed API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-feed-api/api"
	"social-feed-api/api/handlers"
	"social-feed-api/core/socialfeed"
	"social-feed-api/core/workers"
	stdhttp "social-feed-api/infrastructure/http/standard"
	"social-feed-api/infrastructure/logger/structured"
	"social-feed-api/pkg/config"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := structured.NewLogger(structured.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Fields: map[string]interface{}{"service": "social-feed-api"},
	})
	logger.Info("Starting social feed API", map[string]interface{}{
		"port":          cfg.Server.Port,
		"cache_type":    cfg.Cache.Type,
		"refresh_timer": cfg.Server.RefreshTimer,
		"accounts":      len(cfg.Accounts),
	})

	cache, closeCache := buildCache(cfg.Cache, logger)
	defer closeCache()

	httpClient := stdhttp.NewStandardHTTPClient(time.Duration(cfg.Server.HTTPTimeout) * time.Second)

	notifier := socialfeed.NewNotifier(logger)
	notifier.Subscribe(socialfeed.LoggingObserver(logger))

	feeds, err := buildRegistry(cfg, cache, httpClient, logger, notifier)
	if err != nil {
		log.Fatalf("Failed to register accounts: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var refresher *workers.RefreshWorker
	if cfg.Server.RefreshTimer > 0 {
		refresher = workers.NewRefreshWorker(feeds, logger, workers.RefreshConfig{
			Interval:   time.Duration(cfg.Server.RefreshTimer) * time.Second,
			RunOnStart: true,
		})
		if err := refresher.Start(ctx); err != nil {
			log.Fatalf("Failed to start refresher: %v", err)
		}
	}

	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
		Logger:     logger,
		RateLimit:  cfg.Server.RateLimit,
		RateWindow: time.Minute,
		TrustProxy: cfg.Server.TrustProxyHeaders,
	})

	handlers.NewFeedHandler(feeds).RegisterRoutes(humaAPI)
	handlers.NewHealthHandler(feeds, cache).RegisterRoutes(humaAPI)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.Server.HTTPTimeout+15) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	if refresher != nil {
		_ = refresher.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped", nil)
}
