package keeper

import (
	"errors"
	"fmt"

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/strategy/types"
	"github.com/provlabs/strategy/utils"
)

// Invest folds the strategy's idle balance of token, and any receipt tokens
// it holds but has not staked, into the staked position. It never changes
// the share supply, so value sent to the strategy outside of a join accrues
// to existing holders.
//
// Returns ErrNothingToInvest when there is nothing to fold. That condition
// is logged and callers are expected to ignore it.
func (k *Keeper) Invest(ctx sdk.Context, token string) (math.Int, error) {
	if token != k.config.Token {
		return math.Int{}, sdkerrors.Wrapf(types.ErrInvalidInput, "strategy %s does not invest %s", k.config.ID, token)
	}

	cacheCtx, write := ctx.CacheContext()
	staked, err := k.investIdle(cacheCtx)
	if err != nil {
		if errors.Is(err, types.ErrNothingToInvest) {
			k.getLogger(ctx).Info("nothing to invest")
		}
		return math.Int{}, err
	}
	if _, err := k.ObserveRate(cacheCtx); err != nil {
		return math.Int{}, err
	}
	write()
	return staked, nil
}

// Divest unstakes enough receipt tokens to realize at least target of the
// underlying token and exits them from the pool. The underlying stays idle
// at the strategy address. Returns the underlying actually received, which
// may exceed target.
func (k *Keeper) Divest(ctx sdk.Context, target math.Int) (math.Int, error) {
	if target.IsNil() || !target.IsPositive() {
		return math.Int{}, sdkerrors.Wrapf(types.ErrInvalidInput, "divest target must be positive, got %v", target)
	}

	cacheCtx, write := ctx.CacheContext()
	out, err := k.divest(cacheCtx, target)
	if err != nil {
		return math.Int{}, err
	}
	write()
	return out, nil
}

// investIdle joins the pool with the whole idle balance and stakes every loose receipt token.
func (k *Keeper) investIdle(ctx sdk.Context) (math.Int, error) {
	idle, err := k.GetIdleBalance(ctx)
	if err != nil {
		return math.Int{}, err
	}
	return k.investAmount(ctx, idle)
}

// investAmount joins the pool with amount of the underlying token, which may be
// zero, and then stakes every loose receipt token held by the strategy.
//
// Steps:
//  1. Compute the minimum receipt from the current rate and the slippage bound.
//  2. Join the pool single sided.
//  3. Stake the strategy's whole unstaked receipt balance.
//  4. Increase StakedBalance by the amount staked.
func (k *Keeper) investAmount(ctx sdk.Context, amount math.Int) (math.Int, error) {
	if amount.IsPositive() {
		rate, err := k.GetExchangeRate(ctx)
		if err != nil {
			return math.Int{}, err
		}
		expected, err := utils.ReceiptForValue(amount, rate)
		if err != nil {
			return math.Int{}, err
		}
		// Dust that cannot buy a single receipt token stays idle.
		if expected.IsPositive() {
			minReceipt, err := utils.ApplySlippage(expected, k.slippage)
			if err != nil {
				return math.Int{}, err
			}

			receipt, err := k.PoolVenue.JoinSingleSided(ctx, k.config.Token, amount, minReceipt)
			if err != nil {
				return math.Int{}, types.VenueErr("pool_join", err)
			}
			if receipt.LT(minReceipt) {
				return math.Int{}, sdkerrors.Wrapf(types.ErrSlippage, "pool join returned %s receipt, minimum %s", receipt, minReceipt)
			}
			ctx.EventManager().EmitEvent(types.NewEventInvest(k.config.ID, amount, receipt))
		}
	}

	loose, err := k.ValueSource.GetReceiptTokenBalance(ctx, k.address)
	if err != nil {
		return math.Int{}, types.VenueErr("receipt_balance", err)
	}
	if !loose.IsPositive() {
		return math.Int{}, types.ErrNothingToInvest
	}

	if err := k.StakingVenue.Stake(ctx, loose); err != nil {
		return math.Int{}, types.VenueErr("stake", err)
	}

	pos, err := k.GetPosition(ctx)
	if err != nil {
		return math.Int{}, err
	}
	pos.StakedBalance = pos.StakedBalance.Add(loose)
	if err := k.SetPosition(ctx, pos); err != nil {
		return math.Int{}, fmt.Errorf("failed to store position: %w", err)
	}
	return loose, nil
}

// divest realizes at least target of the underlying token from the staked position.
//
// Steps:
//  1. receipt = ceil( target * 1e18 / rate ), capped at StakedBalance.
//  2. Unstake receipt.
//  3. Exit the pool to the underlying token, bounded by slippage.
//  4. Decrease StakedBalance by the amount unstaked.
func (k *Keeper) divest(ctx sdk.Context, target math.Int) (math.Int, error) {
	pos, err := k.GetPosition(ctx)
	if err != nil {
		return math.Int{}, err
	}
	if pos.StakedBalance.IsZero() {
		return math.Int{}, sdkerrors.Wrapf(types.ErrInvalidInput, "nothing staked to divest %s", target)
	}
	rate, err := k.GetExchangeRate(ctx)
	if err != nil {
		return math.Int{}, err
	}

	receipt := utils.DivUp(target, rate)
	if receipt.GT(pos.StakedBalance) {
		receipt = pos.StakedBalance
	}

	unstaked, err := k.StakingVenue.Unstake(ctx, receipt)
	if err != nil {
		return math.Int{}, types.VenueErr("unstake", err)
	}
	if unstaked.GT(pos.StakedBalance) {
		return math.Int{}, types.VenueErr("unstake", fmt.Errorf("unstaked %s exceeds staked %s", unstaked, pos.StakedBalance))
	}

	minOut, err := utils.ApplySlippage(utils.ValueOfReceipt(unstaked, rate), k.slippage)
	if err != nil {
		return math.Int{}, err
	}
	out, err := k.PoolVenue.ExitToSingleToken(ctx, unstaked, k.config.Token, minOut)
	if err != nil {
		return math.Int{}, types.VenueErr("pool_exit", err)
	}
	if out.LT(minOut) {
		return math.Int{}, sdkerrors.Wrapf(types.ErrSlippage, "pool exit returned %s, minimum %s", out, minOut)
	}

	pos.StakedBalance = pos.StakedBalance.Sub(unstaked)
	if err := k.SetPosition(ctx, pos); err != nil {
		return math.Int{}, fmt.Errorf("failed to store position: %w", err)
	}

	ctx.EventManager().EmitEvent(types.NewEventDivest(k.config.ID, unstaked, out))
	return out, nil
}
