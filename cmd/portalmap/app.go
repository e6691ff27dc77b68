package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmorley/portalmap/pkg/codec"
	"github.com/dmorley/portalmap/pkg/config"
	"github.com/dmorley/portalmap/pkg/graph"
	"github.com/dmorley/portalmap/pkg/logging"
	"github.com/dmorley/portalmap/pkg/metrics"
	"github.com/dmorley/portalmap/pkg/pubsub"
	"github.com/dmorley/portalmap/pkg/store"
	"github.com/dmorley/portalmap/pkg/zone"
)

// app bundles the wired collaborators every subcommand needs.
type app struct {
	cfg     config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	bus     *pubsub.PubSub
	vocab   *zone.Vocabulary
	watcher *zone.Watcher
	engine  *graph.Engine
	blobs   store.BlobStore
}

// newApp loads configuration and wires the core. withStore controls
// whether the blob store is opened (suggest does not need one).
func newApp(ctx context.Context, withStore bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.NewDefaultLogger()
	logger.SetLevel(logging.ParseLevel(cfg.Log.Level))

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewRegistry(),
		bus:     pubsub.NewPubSub(),
	}

	var classifier zone.Classifier
	if cfg.Vocabulary.Watch {
		a.watcher, err = zone.NewWatcher(cfg.Vocabulary.Path, logger)
		if err != nil {
			return nil, err
		}
		classifier = a.watcher
	} else {
		a.vocab, err = zone.LoadFile(cfg.Vocabulary.Path)
		if err != nil {
			return nil, err
		}
		classifier = a.vocab
	}

	a.engine = graph.NewEngine(graph.Options{
		Classifier: classifier,
		Logger:     logger,
		Metrics:    a.metrics,
		Bus:        a.bus,
	})

	if withStore {
		a.blobs, err = store.Open(ctx, cfg.Store, logger)
		if err != nil {
			a.close()
			return nil, err
		}
	}
	return a, nil
}

// vocabulary returns the current vocabulary regardless of watch mode.
func (a *app) vocabulary() *zone.Vocabulary {
	if a.watcher != nil {
		return a.watcher.Current()
	}
	return a.vocab
}

// loadSnapshot decodes the persisted snapshot, if any, through the
// sanitizing bulk load. A missing snapshot starts an empty graph.
func (a *app) loadSnapshot(ctx context.Context) error {
	start := time.Now()
	data, err := a.blobs.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		a.logger.Info("no stored snapshot, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	a.metrics.RecordStoreLoad(time.Since(start))

	wire, err := codec.Decode(data)
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	nodes, edges := codec.FromWire(wire)
	report := a.engine.SetGraph(nodes, edges)
	a.logger.Info("snapshot restored",
		logging.Int("nodes", report.NodesKept),
		logging.Int("edges", report.EdgesKept))
	return nil
}

// saveSnapshot encodes the current graph and persists it.
func (a *app) saveSnapshot(ctx context.Context) error {
	data, err := codec.Encode(a.engine.Snapshot())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	a.metrics.RecordSnapshotEncode(len(data))

	start := time.Now()
	if err := a.blobs.Save(ctx, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	a.metrics.RecordStoreSave(time.Since(start))
	return nil
}

// close releases everything newApp opened. Safe on a partially-built app.
func (a *app) close() {
	if a.blobs != nil {
		a.blobs.Close()
	}
	if a.watcher != nil {
		a.watcher.Close()
	}
	a.bus.Shutdown()
}
