package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/kinnet/internal/compute"
	"github.com/persistorai/kinnet/internal/config"
	"github.com/persistorai/kinnet/internal/dbpool"
	"github.com/persistorai/kinnet/internal/kinship"
	"github.com/persistorai/kinnet/internal/service"
	"github.com/persistorai/kinnet/internal/store"
)

// edgeStore is what the service reads from and health checks ping.
type edgeStore interface {
	service.EdgeStore
	Ping(ctx context.Context) error
}

// runtime holds the wired components of a local kinnet instance.
type runtime struct {
	cfg   *config.Config
	log   *logrus.Logger
	store edgeStore
	svc   *service.NetworkService
	close func()
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

// loadRuntime reads the environment config and wires the store, relationship
// table, compute pools and network service. Pools keep running until close is
// called, so requests still draining after ctx is cancelled stay on the pool.
func loadRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := newLogger(cfg.LogLevel)

	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	table := kinship.Default()
	if cfg.RelationshipTable != "" {
		if table, err = kinship.LoadFile(cfg.RelationshipTable); err != nil {
			closeStore()
			return nil, fmt.Errorf("loading relationship table: %w", err)
		}
	}

	computePool, layoutPool := startPools(ctx, cfg, log)

	svc := service.NewNetworkService(
		st,
		table,
		compute.NewScheduler(computePool, log, compute.WithPartitionSize(cfg.PartitionSize)),
		compute.NewLayoutScheduler(layoutPool, log),
		log,
		service.NetworkConfig{
			MaxNodes: cfg.MaxTraversalNodes,
			MaxDepth: cfg.MaxTraversalDepth,
			Version:  config.Version,
		},
	)

	log.WithFields(logrus.Fields{
		"store":           cfg.StoreDriver,
		"relation_codes":  table.Len(),
		"compute_workers": computePool.Workers(),
		"layout_workers":  layoutPool.Workers(),
	}).Info("kinnet.ready")

	return &runtime{
		cfg:   cfg,
		log:   log,
		store: st,
		svc:   svc,
		close: func() {
			computePool.Stop()
			layoutPool.Stop()
			closeStore()
		},
	}, nil
}

// startPools starts the metrics and layout pools detached from ctx's
// cancellation. The caller stops them.
func startPools(ctx context.Context, cfg *config.Config, log *logrus.Logger) (computePool, layoutPool *compute.Pool) {
	computePool = compute.NewPool("compute", cfg.ComputeWorkers, compute.MaxWorkers, cfg.ComputeQueueSize, nil, log)
	layoutPool = compute.NewPool("layout", cfg.LayoutWorkers, compute.MaxLayoutWorkers, cfg.ComputeQueueSize, nil, log)

	poolCtx := context.WithoutCancel(ctx)
	computePool.Start(poolCtx)
	layoutPool.Start(poolCtx)

	return computePool, layoutPool
}

func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (edgeStore, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		s, err := store.OpenSQLite(ctx, cfg.SQLitePath, false, log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), cfg.DBMaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		return store.NewPostgres(store.Base{Pool: pool, Log: log}), pool.Close, nil
	}
}
