package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/dmorley/portalmap/pkg/logging"
)

// badgerKey is the single key holding the snapshot blob.
var badgerKey = []byte("portalmap/snapshot")

// BadgerStore keeps the snapshot in an embedded badger database. The
// in-memory mode backs tests that need a real store without disk.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a badger-backed store in dir. With
// inMemory set, dir is ignored and nothing touches disk.
func NewBadgerStore(dir string, inMemory bool, logger logging.Logger) (*BadgerStore, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	opts := badger.DefaultOptions(dir).
		WithInMemory(inMemory).
		WithLogger(badgerLogger{logger: logger})
	if inMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Load reads the snapshot blob.
func (s *BadgerStore) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot from badger: %w", err)
	}
	return data, nil
}

// Save replaces the snapshot blob.
func (s *BadgerStore) Save(ctx context.Context, data []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey, data)
	})
	if err != nil {
		return fmt.Errorf("save snapshot to badger: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's internal logging into ours at debug
// level; badger is chatty and none of it is actionable here.
type badgerLogger struct {
	logger logging.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...), logging.Component("store.badger"))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...), logging.Component("store.badger"))
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...), logging.Component("store.badger"))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...), logging.Component("store.badger"))
}
