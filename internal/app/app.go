// Package app wires the collection, client and bridge shared by the server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/vytor/ankibridge/internal/anki"
	"github.com/vytor/ankibridge/internal/bridge"
	"github.com/vytor/ankibridge/internal/config"
	"github.com/vytor/ankibridge/internal/db"
	"github.com/vytor/ankibridge/internal/logger"
	"github.com/vytor/ankibridge/internal/metrics"
	"github.com/vytor/ankibridge/internal/provider/collection"
	"github.com/vytor/ankibridge/internal/worker"
)

// App holds the running components. Close releases them.
type App struct {
	DB      *db.DB
	Metrics *metrics.Metrics
	Pool    *worker.Pool
	Bridge  *bridge.Bridge

	cancel context.CancelFunc
}

// New opens the collection and starts the bridge worker.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx).WithPrefix("app")

	database, err := db.OpenContext(ctx, cfg.CollectionPath)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	resolver := collection.Open(database,
		collection.WithAuthority(cfg.Authority),
		collection.WithReadOnly(cfg.ReadOnly),
	)
	host := collection.NewHost(database, cfg.Package, cfg.Authority)

	client := anki.New(resolver, host,
		anki.WithPackage(cfg.Package),
		anki.WithAuthority(cfg.Authority),
		anki.WithNewCardOrder(anki.ParseNewCardOrder(cfg.NewCardOrder)),
		anki.WithDefaultMarker(cfg.AppendMarker),
		anki.WithMetrics(m),
	)

	var poolOpts []worker.PoolOption
	if m != nil {
		poolOpts = append(poolOpts, worker.WithQueueObserver(m.SetQueueDepth))
	}
	pool := worker.NewPool(1, cfg.BridgeQueueSize, poolOpts...)

	poolCtx, cancel := context.WithCancel(context.Background())
	poolCtx = logger.NewContext(poolCtx, logger.FromContext(ctx))
	pool.Start(poolCtx)

	b := bridge.New(client, pool,
		bridge.WithDefaultLimit(cfg.DefaultNewCardLimit),
		bridge.WithMetrics(m),
	)

	log.Debug("collection=%s read_only=%t queue=%d", database.Path(), cfg.ReadOnly, cfg.BridgeQueueSize)
	return &App{DB: database, Metrics: m, Pool: pool, Bridge: b, cancel: cancel}, nil
}

// Close stops the worker and closes the collection.
func (a *App) Close() error {
	a.cancel()
	a.Pool.Stop()
	return a.DB.Close()
}
