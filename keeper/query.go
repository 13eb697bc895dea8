package keeper

import (
	"context"

	"cosmossdk.io/math"

	"github.com/provlabs/strategy/types"
	"github.com/provlabs/strategy/utils"
)

// GetToken returns the underlying token the strategy accepts.
func (k Keeper) GetToken() string {
	return k.config.Token
}

// GetPoolID returns the identifier of the pool the strategy joins.
func (k Keeper) GetPoolID() string {
	return k.config.PoolID
}

// GetMetadataURI returns the strategy metadata URI.
func (k Keeper) GetMetadataURI() string {
	return k.config.MetadataURI
}

// GetSlippage returns the slippage bound applied to pool joins and exits.
func (k Keeper) GetSlippage() math.LegacyDec {
	return k.slippage
}

// GetClaimableRewards returns the staking rewards claimable by the strategy.
// Rewards are not part of the position value until claimed and folded.
func (k Keeper) GetClaimableRewards(ctx context.Context) (math.Int, error) {
	rewards, err := k.StakingVenue.ClaimableRewards(ctx, k.address)
	if err != nil {
		return math.Int{}, types.VenueErr("claimable_rewards", err)
	}
	return rewards, nil
}

// GetStrategyInfo returns an aggregate read of the strategy config and its
// accounting state at ctx.
func (k Keeper) GetStrategyInfo(ctx context.Context) (types.StrategyInfo, error) {
	pos, err := k.GetPosition(ctx)
	if err != nil {
		return types.StrategyInfo{}, err
	}
	snap, err := k.GetRateSnapshot(ctx)
	if err != nil {
		return types.StrategyInfo{}, err
	}
	rate, err := k.GetExchangeRate(ctx)
	if err != nil {
		return types.StrategyInfo{}, err
	}
	total := utils.ValueOfReceipt(pos.StakedBalance, rate)

	return types.StrategyInfo{
		ID:          k.config.ID,
		Address:     k.address,
		Variant:     k.config.Variant,
		Token:       k.config.Token,
		PoolID:      k.config.PoolID,
		MetadataURI: k.config.MetadataURI,
		State:       pos.State(),
		TotalShares: pos.TotalShares,
		Staked:      pos.StakedBalance,
		TotalValue:  total,
		ShareValue:  utils.ShareValue(total, pos.TotalShares),
		Rate:        rate,
		Snapshot:    snap,
	}, nil
}
