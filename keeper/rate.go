package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/collections"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/strategy/accumulator"
	"github.com/provlabs/strategy/types"
)

// ObserveRate reads the current exchange rate and folds it into the rate
// accumulator at the current block height. State is only written when the
// rate differs from the last checkpoint.
func (k *Keeper) ObserveRate(ctx sdk.Context) (bool, error) {
	rate, err := k.GetExchangeRate(ctx)
	if err != nil {
		return false, err
	}
	return k.ObserveRateAt(ctx, rate, uint64(ctx.BlockHeight()))
}

// ObserveRateAt folds rate observed at block into the rate accumulator and
// reports whether a new checkpoint was written.
func (k *Keeper) ObserveRateAt(ctx sdk.Context, rate math.Int, block uint64) (bool, error) {
	snap, err := k.GetRateSnapshot(ctx)
	if err != nil {
		return false, err
	}
	next, _, changed, err := accumulator.Observe(snap, rate, block)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}
	if err := k.setRateSnapshot(ctx, next); err != nil {
		return false, fmt.Errorf("failed to store rate snapshot: %w", err)
	}
	ctx.EventManager().EmitEvent(types.NewEventRateCheckpoint(k.config.ID, next))
	return true, nil
}

// ProjectedAccumulated returns the accumulated rate at block from the last
// checkpoint without writing anything.
func (k Keeper) ProjectedAccumulated(ctx context.Context, block uint64) (math.Int, error) {
	snap, err := k.GetRateSnapshot(ctx)
	if err != nil {
		return math.Int{}, err
	}
	return accumulator.Project(snap, block)
}

// AccumulatedAt returns the accumulated rate at a past or current block using
// the latest checkpoint at or before block.
func (k Keeper) AccumulatedAt(ctx context.Context, block uint64) (math.Int, error) {
	rng := new(collections.Range[uint64]).EndInclusive(block).Descending()
	iter, err := k.Checkpoints.Iterate(ctx, rng)
	if err != nil {
		return math.Int{}, err
	}
	defer iter.Close()

	if !iter.Valid() {
		return math.Int{}, sdkerrors.Wrapf(types.ErrInvalidInput, "no rate checkpoint at or before block %d", block)
	}
	cp, err := iter.Value()
	if err != nil {
		return math.Int{}, err
	}
	return accumulator.Project(cp, block)
}
