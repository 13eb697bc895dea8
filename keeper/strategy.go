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

// Join credits depositor with shares for amount of the underlying token,
// which the owning vault has already transferred to the strategy address.
//
// Steps:
//  1. Validate the amount against the idle balance.
//  2. Fold any other idle value (donations, dust, exit excess) into the position.
//  3. Read the total value before the deposit.
//  4. Invest the deposit and measure the value it added.
//  5. Price shares against the value before the deposit, applying the first
//     deposit guards when the position is empty.
//  6. Increase the share supply, checkpoint the rate, and emit an event.
//
// All state changes are committed only if every step succeeds.
func (k *Keeper) Join(ctx sdk.Context, depositor sdk.AccAddress, amount math.Int) (types.JoinResult, error) {
	if amount.IsNil() || !amount.IsPositive() {
		return types.JoinResult{}, sdkerrors.Wrapf(types.ErrInvalidInput, "deposit amount must be positive, got %v", amount)
	}

	cacheCtx, write := ctx.CacheContext()
	res, err := k.join(cacheCtx, amount)
	if err != nil {
		return types.JoinResult{}, err
	}
	write()

	k.getLogger(ctx).Debug("strategy join", "depositor", depositor.String(), "amount", amount, "shares", res.Shares)
	return res, nil
}

func (k *Keeper) join(ctx sdk.Context, amount math.Int) (types.JoinResult, error) {
	idle, err := k.GetIdleBalance(ctx)
	if err != nil {
		return types.JoinResult{}, err
	}
	if idle.LT(amount) {
		return types.JoinResult{}, sdkerrors.Wrapf(types.ErrInvalidInput, "idle balance %s is below deposit %s", idle, amount)
	}

	if _, err := k.investAmount(ctx, idle.Sub(amount)); err != nil && !errors.Is(err, types.ErrNothingToInvest) {
		return types.JoinResult{}, fmt.Errorf("failed to fold idle balance: %w", err)
	}

	totalBefore, err := k.GetTotalValue(ctx)
	if err != nil {
		return types.JoinResult{}, err
	}
	pos, err := k.GetPosition(ctx)
	if err != nil {
		return types.JoinResult{}, err
	}
	sharesBefore := pos.TotalShares

	if _, err := k.investAmount(ctx, amount); err != nil {
		if errors.Is(err, types.ErrNothingToInvest) {
			return types.JoinResult{}, sdkerrors.Wrapf(types.ErrInvalidInput, "deposit %s is too small to invest", amount)
		}
		return types.JoinResult{}, fmt.Errorf("failed to invest deposit: %w", err)
	}
	totalAfter, err := k.GetTotalValue(ctx)
	if err != nil {
		return types.JoinResult{}, err
	}
	depositValue := totalAfter.Sub(totalBefore)

	var credited, minted math.Int
	if sharesBefore.IsZero() {
		credited, minted, err = utils.BootstrapShares(depositValue, k.minInitialDeposit, k.lockedShares)
	} else {
		credited, err = utils.SharesForDeposit(depositValue, totalBefore, sharesBefore)
		minted = credited
	}
	if err != nil {
		return types.JoinResult{}, sdkerrors.Wrap(types.ErrInvalidInput, err.Error())
	}
	if credited.IsZero() {
		return types.JoinResult{}, sdkerrors.Wrapf(types.ErrInvalidInput, "deposit value %s mints no shares", depositValue)
	}

	pos, err = k.GetPosition(ctx)
	if err != nil {
		return types.JoinResult{}, err
	}
	pos.TotalShares = pos.TotalShares.Add(minted)
	if err := k.SetPosition(ctx, pos); err != nil {
		return types.JoinResult{}, fmt.Errorf("failed to store position: %w", err)
	}

	if _, err := k.ObserveRate(ctx); err != nil {
		return types.JoinResult{}, err
	}

	ctx.EventManager().EmitEvent(types.NewEventJoin(k.config.ID, amount, depositValue, credited, pos.TotalShares))
	return types.JoinResult{
		Shares:     credited,
		Value:      depositValue,
		TotalValue: totalAfter,
	}, nil
}

// Exit burns ratio of callerShares and transfers the value they release to
// the owning vault. callerShares is the depositor's holding as recorded by
// the vault. Exiting a position with no shares outstanding returns a zero
// result without error.
//
// Steps:
//  1. Validate the ratio and the caller's holding.
//  2. Fold idle value into the position so it is priced for every holder.
//  3. Compute the released value and burned shares, both rounded down.
//  4. Divest the released value and transfer it to the vault. A pool exit that
//     returns less, within the slippage bound, reduces the released value.
//  5. Reduce the share supply, checkpoint the rate, and emit an event.
//
// All state changes are committed only if every step succeeds.
func (k *Keeper) Exit(ctx sdk.Context, depositor sdk.AccAddress, callerShares math.Int, ratio math.LegacyDec) (types.ExitResult, error) {
	if err := utils.ValidateRatio(ratio); err != nil {
		return types.ExitResult{}, sdkerrors.Wrap(types.ErrInvalidInput, err.Error())
	}
	if callerShares.IsNil() || callerShares.IsNegative() {
		return types.ExitResult{}, sdkerrors.Wrapf(types.ErrInvalidInput, "caller shares must be non-negative, got %v", callerShares)
	}

	pos, err := k.GetPosition(ctx)
	if err != nil {
		return types.ExitResult{}, err
	}
	if pos.TotalShares.IsZero() {
		return types.ZeroExitResult(), nil
	}
	if callerShares.GT(pos.TotalShares) {
		return types.ExitResult{}, sdkerrors.Wrapf(types.ErrInvalidInput, "caller shares %s exceed total shares %s", callerShares, pos.TotalShares)
	}

	cacheCtx, write := ctx.CacheContext()
	res, err := k.exit(cacheCtx, callerShares, ratio)
	if err != nil {
		return types.ExitResult{}, err
	}
	write()

	k.getLogger(ctx).Debug("strategy exit", "depositor", depositor.String(), "burned", res.BurnedShares, "released", res.ReleasedValue)
	return res, nil
}

func (k *Keeper) exit(ctx sdk.Context, callerShares math.Int, ratio math.LegacyDec) (types.ExitResult, error) {
	if _, err := k.investIdle(ctx); err != nil && !errors.Is(err, types.ErrNothingToInvest) {
		return types.ExitResult{}, fmt.Errorf("failed to fold idle balance: %w", err)
	}

	totalValue, err := k.GetTotalValue(ctx)
	if err != nil {
		return types.ExitResult{}, err
	}
	pos, err := k.GetPosition(ctx)
	if err != nil {
		return types.ExitResult{}, err
	}

	released, burned, err := utils.ValueForWithdrawal(ratio, totalValue, pos.TotalShares, callerShares)
	if err != nil {
		return types.ExitResult{}, sdkerrors.Wrap(types.ErrInvalidInput, err.Error())
	}

	divested := math.ZeroInt()
	if released.IsPositive() {
		if divested, err = k.divest(ctx, released); err != nil {
			return types.ExitResult{}, fmt.Errorf("failed to divest %s: %w", released, err)
		}
		// Pool exit costs within the slippage bound are borne by the exiting holder.
		if divested.LT(released) {
			released = divested
		}
		if err := k.TokenKeeper.Transfer(ctx, k.config.Token, k.address, k.vault, released); err != nil {
			return types.ExitResult{}, types.VenueErr("transfer", err)
		}
	}

	pos, err = k.GetPosition(ctx)
	if err != nil {
		return types.ExitResult{}, err
	}
	pos.TotalShares = pos.TotalShares.Sub(burned)
	if err := k.SetPosition(ctx, pos); err != nil {
		return types.ExitResult{}, fmt.Errorf("failed to store position: %w", err)
	}

	if _, err := k.ObserveRate(ctx); err != nil {
		return types.ExitResult{}, err
	}

	ctx.EventManager().EmitEvent(types.NewEventExit(k.config.ID, ratio, burned, released, pos.TotalShares))
	return types.ExitResult{
		BurnedShares:  burned,
		ReleasedValue: released,
		Divested:      divested,
	}, nil
}
