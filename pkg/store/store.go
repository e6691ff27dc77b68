// Package store persists encoded graph snapshots as opaque blobs. The
// engine never sees a backend: it hands the codec output to a BlobStore
// and gets the same bytes back on the next start.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmorley/portalmap/pkg/config"
	"github.com/dmorley/portalmap/pkg/logging"
)

// ErrNotFound is returned by Load when no snapshot has been saved yet.
// First start on an empty store is expected, not a failure.
var ErrNotFound = errors.New("no snapshot stored")

// BlobStore persists one opaque snapshot blob.
type BlobStore interface {
	// Load returns the last saved blob, or ErrNotFound.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored blob.
	Save(ctx context.Context, data []byte) error
	// Close releases backend resources.
	Close() error
}

// Open builds the blob store selected by the configuration.
func Open(ctx context.Context, cfg config.StoreConfig, logger logging.Logger) (BlobStore, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	switch cfg.Backend {
	case config.BackendFile:
		return NewFileStore(cfg.Path), nil
	case config.BackendBadger:
		return NewBadgerStore(cfg.Dir, cfg.InMemory, logger)
	case config.BackendPostgres:
		return NewPGStore(ctx, cfg.URL)
	case config.BackendS3:
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.Bucket,
			Key:       cfg.Key,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
