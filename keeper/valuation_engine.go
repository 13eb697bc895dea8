package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/provlabs/strategy/types"
	"github.com/provlabs/strategy/utils"
)

// GetExchangeRate returns the receipt token rate reported by the value source
// as an 18 decimal fixed point integer. A non-positive rate is a venue failure.
func (k Keeper) GetExchangeRate(ctx context.Context) (math.Int, error) {
	rate, err := k.ValueSource.GetExchangeRate(ctx)
	if err != nil {
		return math.Int{}, types.VenueErr("exchange_rate", err)
	}
	if rate.IsNil() || !rate.IsPositive() {
		return math.Int{}, types.VenueErr("exchange_rate", fmt.Errorf("non-positive rate %v", rate))
	}
	return rate, nil
}

// GetTotalValue returns the value of the staked position in the underlying token.
//
//	totalValue = floor( stakedBalance * rate / 1e18 )
//
// It performs no writes and is safe on a cached or simulated context.
func (k Keeper) GetTotalValue(ctx context.Context) (math.Int, error) {
	pos, err := k.GetPosition(ctx)
	if err != nil {
		return math.Int{}, err
	}
	rate, err := k.GetExchangeRate(ctx)
	if err != nil {
		return math.Int{}, err
	}
	return utils.ValueOfReceipt(pos.StakedBalance, rate), nil
}

// GetStrategyShareValue returns the value of one share as an 18 decimal fixed
// point integer, or zero when no shares are outstanding.
func (k Keeper) GetStrategyShareValue(ctx context.Context) (math.Int, error) {
	pos, err := k.GetPosition(ctx)
	if err != nil {
		return math.Int{}, err
	}
	if pos.TotalShares.IsZero() {
		return math.ZeroInt(), nil
	}
	total, err := k.GetTotalValue(ctx)
	if err != nil {
		return math.Int{}, err
	}
	return utils.ShareValue(total, pos.TotalShares), nil
}

// PreviewJoin returns the shares a deposit adding depositValue would be
// credited against the current state. Idle balances are not folded.
func (k Keeper) PreviewJoin(ctx context.Context, depositValue math.Int) (math.Int, error) {
	pos, err := k.GetPosition(ctx)
	if err != nil {
		return math.Int{}, err
	}
	total, err := k.GetTotalValue(ctx)
	if err != nil {
		return math.Int{}, err
	}
	if pos.TotalShares.IsZero() {
		credited, _, err := utils.BootstrapShares(depositValue, k.minInitialDeposit, k.lockedShares)
		if err != nil {
			return math.Int{}, errors.Wrap(types.ErrInvalidInput, err.Error())
		}
		return credited, nil
	}
	shares, err := utils.SharesForDeposit(depositValue, total, pos.TotalShares)
	if err != nil {
		return math.Int{}, errors.Wrap(types.ErrInvalidInput, err.Error())
	}
	return shares, nil
}

// PreviewExit returns the value released and the shares burned for an exit of
// ratio of callerShares against the current state. Idle balances are not folded.
func (k Keeper) PreviewExit(ctx context.Context, callerShares math.Int, ratio math.LegacyDec) (released, burned math.Int, err error) {
	if err := utils.ValidateRatio(ratio); err != nil {
		return math.Int{}, math.Int{}, errors.Wrap(types.ErrInvalidInput, err.Error())
	}
	pos, err := k.GetPosition(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if pos.TotalShares.IsZero() {
		return math.ZeroInt(), math.ZeroInt(), nil
	}
	total, err := k.GetTotalValue(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	released, burned, err = utils.ValueForWithdrawal(ratio, total, pos.TotalShares, callerShares)
	if err != nil {
		return math.Int{}, math.Int{}, errors.Wrap(types.ErrInvalidInput, err.Error())
	}
	return released, burned, nil
}
