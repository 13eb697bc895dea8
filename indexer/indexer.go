// Package indexer periodically records the accounting state of registered
// strategies. It only reads: every keeper call it makes is a query.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"golang.org/x/sync/errgroup"

	"github.com/provlabs/strategy/types"
	"github.com/provlabs/strategy/utils"
)

// Read names used in logs and the read failure counter.
const (
	ReadPosition     = "position"
	ReadExchangeRate = "exchange_rate"
	ReadRateSnapshot = "rate_snapshot"
	ReadProjected    = "projected_accumulated"
)

// Reader is the strategy read surface the indexer depends on. Each read is
// made on its own so a failure only zeroes the fields derived from it.
type Reader interface {
	GetPosition(ctx context.Context) (types.Position, error)
	GetExchangeRate(ctx context.Context) (math.Int, error)
	GetRateSnapshot(ctx context.Context) (types.RateSnapshot, error)
	ProjectedAccumulated(ctx context.Context, block uint64) (math.Int, error)
}

// Source couples a Reader with a way to build the read context for a sweep.
// A nil Context reads with the sweep's context unchanged. A read that panics
// on that context is recorded as failed.
type Source struct {
	Reader  Reader
	Context func(parent context.Context, block uint64, t time.Time) context.Context
}

// Indexer snapshots every registered strategy on each sweep.
type Indexer struct {
	cfg     Config
	store   *Store
	metrics *Metrics
	logger  log.Logger

	mu      sync.RWMutex
	sources map[string]Source
}

// New returns an indexer writing to store. metrics may be nil.
func New(cfg Config, store *Store, metrics *Metrics, logger log.Logger) (*Indexer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("indexer requires a snapshot store")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Indexer{
		cfg:     cfg,
		store:   store,
		metrics: metrics,
		logger:  logger.With("module", "indexer"),
		sources: map[string]Source{},
	}, nil
}

// Register adds a strategy to future sweeps.
func (ix *Indexer) Register(id string, src Source) error {
	if id == "" || strings.Contains(id, "/") {
		return fmt.Errorf("invalid strategy id %q", id)
	}
	if src.Reader == nil {
		return fmt.Errorf("strategy %s has no reader", id)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.sources[id]; ok {
		return fmt.Errorf("strategy %s already registered", id)
	}
	ix.sources[id] = src
	return nil
}

// Strategies returns the registered strategy ids in sorted order.
func (ix *Indexer) Strategies() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	ids := make([]string, 0, len(ix.sources))
	for id := range ix.sources {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Sweep snapshots every registered strategy at block and persists the
// results. Failed reads are logged and recorded as zero; only storage errors
// and cancellation fail the sweep. Snapshots are returned in strategy id order.
func (ix *Indexer) Sweep(ctx context.Context, block uint64, t time.Time) ([]Snapshot, error) {
	ids := ix.Strategies()
	ix.mu.RLock()
	sources := make([]Source, len(ids))
	for i, id := range ids {
		sources[i] = ix.sources[id]
	}
	ix.mu.RUnlock()

	out := make([]Snapshot, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.cfg.Workers)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			snap := ix.snapshot(gctx, id, sources[i], block, t)
			if err := ix.store.Put(snap); err != nil {
				return fmt.Errorf("failed to store snapshot of %s at %d: %w", id, block, err)
			}
			if ix.metrics != nil {
				ix.metrics.Observe(snap)
			}
			out[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ix.metrics != nil {
		ix.metrics.sweepDone()
	}
	ix.logger.Debug("indexer sweep complete", "block", block, "strategies", len(ids))
	return out, nil
}

func (ix *Indexer) snapshot(ctx context.Context, id string, src Source, block uint64, t time.Time) Snapshot {
	if src.Context != nil {
		ctx = src.Context(ctx, block, t)
	}
	snap := emptySnapshot(id, block, t)

	pos, posErr := guardRead(func() (types.Position, error) { return src.Reader.GetPosition(ctx) })
	if posErr != nil {
		ix.readFailed(&snap, ReadPosition, posErr)
	} else {
		snap.Shares = pos.TotalShares
		if pos.TotalShares.IsPositive() {
			snap.LiquidityMiningRate = utils.DivDown(pos.StakedBalance, pos.TotalShares)
		}
	}

	rate, err := guardRead(func() (math.Int, error) { return src.Reader.GetExchangeRate(ctx) })
	if err != nil {
		ix.readFailed(&snap, ReadExchangeRate, err)
	} else {
		snap.FeeRate = rate
		if posErr == nil {
			snap.TotalValue = utils.ValueOfReceipt(pos.StakedBalance, rate)
			snap.ShareValue = utils.ShareValue(snap.TotalValue, pos.TotalShares)
		}
	}

	rs, err := guardRead(func() (types.RateSnapshot, error) { return src.Reader.GetRateSnapshot(ctx) })
	if err != nil {
		ix.readFailed(&snap, ReadRateSnapshot, err)
	} else {
		snap.Accumulated = rs.Accumulated
	}

	projected, err := guardRead(func() (math.Int, error) { return src.Reader.ProjectedAccumulated(ctx, block) })
	if err != nil {
		ix.readFailed(&snap, ReadProjected, err)
	} else {
		snap.ProjectedAccumulated = projected
	}
	return snap
}

// guardRead runs read, turning a panic into an error.
func guardRead[T any](read func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, fmt.Errorf("read panicked: %v", r)
		}
	}()
	return read()
}

func (ix *Indexer) readFailed(snap *Snapshot, read string, err error) {
	ix.logger.Warn("strategy read failed, recording zero",
		"strategy", snap.StrategyID, "block", snap.Block, "read", read, "err", err)
	snap.Failed = append(snap.Failed, read)
}

// Run sweeps on every tick until ctx is done. next supplies the block and
// time to index; a sweep error stops the loop.
func (ix *Indexer) Run(ctx context.Context, interval time.Duration, next func() (uint64, time.Time)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			block, t := next()
			if _, err := ix.Sweep(ctx, block, t); err != nil {
				return err
			}
		}
	}
}
