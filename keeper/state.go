package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	"cosmossdk.io/math"

	"github.com/provlabs/strategy/types"
)

// GetPosition returns the stored position, or an empty one if none has been stored yet.
func (k Keeper) GetPosition(ctx context.Context) (types.Position, error) {
	pos, err := k.Position.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.NewPosition(), nil
	}
	return pos, err
}

// SetPosition validates and persists the position.
func (k Keeper) SetPosition(ctx context.Context, pos types.Position) error {
	if err := pos.Validate(); err != nil {
		return err
	}
	return k.Position.Set(ctx, pos)
}

// GetRateSnapshot returns the last rate checkpoint, or a zero snapshot at block 0.
func (k Keeper) GetRateSnapshot(ctx context.Context) (types.RateSnapshot, error) {
	snap, err := k.RateSnapshot.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.NewRateSnapshot(0), nil
	}
	return snap, err
}

// setRateSnapshot stores snap as the latest checkpoint and appends it to the history.
func (k Keeper) setRateSnapshot(ctx context.Context, snap types.RateSnapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	if err := k.RateSnapshot.Set(ctx, snap); err != nil {
		return err
	}
	return k.Checkpoints.Set(ctx, snap.LastBlock, snap)
}

// GetStrategyShares returns the total shares outstanding.
func (k Keeper) GetStrategyShares(ctx context.Context) (math.Int, error) {
	pos, err := k.GetPosition(ctx)
	if err != nil {
		return math.Int{}, err
	}
	return pos.TotalShares, nil
}

// GetStakedBalance returns the receipt tokens staked by the position.
func (k Keeper) GetStakedBalance(ctx context.Context) (math.Int, error) {
	pos, err := k.GetPosition(ctx)
	if err != nil {
		return math.Int{}, err
	}
	return pos.StakedBalance, nil
}

// GetIdleBalance returns the underlying token held by the strategy that is not yet invested.
func (k Keeper) GetIdleBalance(ctx context.Context) (math.Int, error) {
	bal, err := k.TokenKeeper.BalanceOf(ctx, k.config.Token, k.address)
	if err != nil {
		return math.Int{}, types.VenueErr("balance_of", err)
	}
	return bal, nil
}
