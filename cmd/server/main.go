package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vytor/ankibridge/internal/api"
	"github.com/vytor/ankibridge/internal/app"
	"github.com/vytor/ankibridge/internal/config"
	"github.com/vytor/ankibridge/internal/logger"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("AnkiBridge Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("collection_path=%s", cfg.CollectionPath)
	log.Debug("package=%s authority=%s", cfg.Package, cfg.Authority)
	log.Debug("read_only=%t", cfg.ReadOnly)
	log.Debug("bridge_queue_size=%d", cfg.BridgeQueueSize)
	log.Debug("default_new_card_limit=%d", cfg.DefaultNewCardLimit)
	log.Debug("new_card_order=%s", cfg.NewCardOrder)
	log.Debug("metrics_enabled=%t", cfg.MetricsEnabled)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, log)

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Error("failed to start: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing collection")
		if err := a.Close(); err != nil {
			log.Error("close: %v", err)
		}
	}()

	srv := &api.Server{Bridge: a.Bridge, DB: a.DB, Metrics: a.Metrics}
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error: %v", err)
	}

	log.Info("===========================================")
	log.Info("AnkiBridge Server Stopped")
	log.Info("===========================================")
}
