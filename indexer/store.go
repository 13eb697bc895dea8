package indexer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"cosmossdk.io/log"
	"github.com/dgraph-io/badger/v4"
)

const snapPrefix = "snap/"

// Store persists snapshots in badger, keyed snap/<id>/<block>. Blocks are
// zero padded so keys of one strategy sort by block.
type Store struct {
	db *badger.DB
}

// badgerLogger routes badger's internal logging to a cosmos logger.
type badgerLogger struct {
	logger log.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenStore opens the snapshot store described by cfg. A nil logger
// silences badger.
func OpenStore(cfg Config, logger log.Logger) (*Store, error) {
	if !cfg.InMemory && cfg.DBPath == "" {
		return nil, errors.New("path is required for persistent snapshot store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.DBPath, 0o750); err != nil {
			return nil, fmt.Errorf("create snapshot directory %s: %w", cfg.DBPath, err)
		}
		opts = badger.DefaultOptions(cfg.DBPath)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if logger != nil {
		opts = opts.WithLogger(badgerLogger{logger: logger.With("component", "badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func strategyPrefix(id string) []byte {
	return []byte(snapPrefix + id + "/")
}

func snapshotKey(id string, block uint64) []byte {
	return fmt.Appendf(strategyPrefix(id), "%020d", block)
}

// Put stores snap, replacing any snapshot of the same strategy and block.
func (s *Store) Put(snap Snapshot) error {
	if snap.StrategyID == "" {
		return errors.New("snapshot has no strategy id")
	}
	bz, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey(snap.StrategyID, snap.Block), bz)
	})
}

// Get returns the snapshot of id at block.
func (s *Store) Get(id string, block uint64) (Snapshot, bool, error) {
	var (
		snap  Snapshot
		found bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey(id, block))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to read snapshot %s@%d: %w", id, block, err)
	}
	return snap, found, nil
}

// Range returns the snapshots of id with from <= block <= to in block order.
func (s *Store) Range(id string, from, to uint64) ([]Snapshot, error) {
	if from > to {
		return nil, fmt.Errorf("invalid block range [%d, %d]", from, to)
	}
	prefix := strategyPrefix(id)
	end := snapshotKey(id, to)

	var out []Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(snapshotKey(id, from)); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			if string(item.Key()) > string(end) {
				break
			}
			var snap Snapshot
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &snap)
			}); err != nil {
				return fmt.Errorf("failed to decode snapshot %s: %w", item.Key(), err)
			}
			out = append(out, snap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Latest returns the snapshot of id with the highest block.
func (s *Store) Latest(id string) (Snapshot, bool, error) {
	prefix := strategyPrefix(id)

	var (
		snap  Snapshot
		found bool
	)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration seeks to the last key at or below the given key.
		it.Seek(append(append([]byte{}, prefix...), 0xFF))
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		found = true
		return it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to read latest snapshot of %s: %w", id, err)
	}
	return snap, found, nil
}
