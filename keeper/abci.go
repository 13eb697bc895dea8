package keeper

import (
	"context"
	"errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/strategy/types"
)

// BeginBlocker is a hook that is called at the beginning of every block.
// It checkpoints the rate accumulator when the exchange rate has moved.
func (k *Keeper) BeginBlocker(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, write := sdkCtx.CacheContext()
	if _, err := k.ObserveRate(cacheCtx); err != nil {
		k.getLogger(sdkCtx).Error("failed to observe rate", "err", err)
		return nil
	}
	write()
	return nil
}

// EndBlocker is a hook that is called at the end of every block.
// It folds the idle balance into the position when auto invest is enabled.
func (k *Keeper) EndBlocker(ctx context.Context) error {
	if !k.config.AutoInvest {
		return nil
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if _, err := k.Invest(sdkCtx, k.config.Token); err != nil && !errors.Is(err, types.ErrNothingToInvest) {
		k.getLogger(sdkCtx).Error("failed to auto invest", "err", err)
	}
	return nil
}
