package simulation

import (
	"math/rand"

	sdkmath "cosmossdk.io/math"

	"github.com/cosmos/cosmos-sdk/baseapp"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"
	"github.com/cosmos/cosmos-sdk/x/simulation"

	"github.com/provlabs/strategy/keeper"
	"github.com/provlabs/strategy/types"
)

const (
	OpWeightJoin        = "op_weight_strategy_join"
	OpWeightExit        = "op_weight_strategy_exit"
	OpWeightInvest      = "op_weight_strategy_invest"
	OpWeightObserveRate = "op_weight_strategy_observe_rate"
	OpWeightAccrueFees  = "op_weight_strategy_accrue_fees"
	OpWeightDonate      = "op_weight_strategy_donate"
)

const (
	DefaultWeightJoin        = 35
	DefaultWeightExit        = 25
	DefaultWeightInvest      = 10
	DefaultWeightObserveRate = 10
	DefaultWeightAccrueFees  = 15
	DefaultWeightDonate      = 5
)

const (
	MaxJoinAmount   = 1_000_000
	MaxDonation     = 10_000
	MaxFeeAccrual   = "0.01"
	opNameJoin      = "join"
	opNameExit      = "exit"
	opNameInvest    = "invest"
	opNameObserve   = "observe_rate"
	opNameAccrue    = "accrue_fees"
	opNameDonate    = "donate"
	commentNoHolder = "no depositor holds shares"
)

func WeightedOperations(simState module.SimulationState, k *keeper.Keeper, v *Venue, book *Book) simulation.WeightedOperations {
	var (
		wJoin        int
		wExit        int
		wInvest      int
		wObserveRate int
		wAccrueFees  int
		wDonate      int
	)

	simState.AppParams.GetOrGenerate(OpWeightJoin, &wJoin, simState.Rand, func(r *rand.Rand) { wJoin = DefaultWeightJoin })
	simState.AppParams.GetOrGenerate(OpWeightExit, &wExit, simState.Rand, func(r *rand.Rand) { wExit = DefaultWeightExit })
	simState.AppParams.GetOrGenerate(OpWeightInvest, &wInvest, simState.Rand, func(r *rand.Rand) { wInvest = DefaultWeightInvest })
	simState.AppParams.GetOrGenerate(OpWeightObserveRate, &wObserveRate, simState.Rand, func(r *rand.Rand) { wObserveRate = DefaultWeightObserveRate })
	simState.AppParams.GetOrGenerate(OpWeightAccrueFees, &wAccrueFees, simState.Rand, func(r *rand.Rand) { wAccrueFees = DefaultWeightAccrueFees })
	simState.AppParams.GetOrGenerate(OpWeightDonate, &wDonate, simState.Rand, func(r *rand.Rand) { wDonate = DefaultWeightDonate })

	return simulation.WeightedOperations{
		simulation.NewWeightedOperation(wJoin, SimulateJoin(k, v, book)),
		simulation.NewWeightedOperation(wExit, SimulateExit(k, book)),
		simulation.NewWeightedOperation(wInvest, SimulateInvest(k)),
		simulation.NewWeightedOperation(wObserveRate, SimulateObserveRate(k)),
		simulation.NewWeightedOperation(wAccrueFees, SimulateAccrueFees(v)),
		simulation.NewWeightedOperation(wDonate, SimulateDonate(k, v)),
	}
}

// SimulateJoin transfers a random amount to the strategy on behalf of a random
// account and joins with it, recording the credited shares in book.
func SimulateJoin(k *keeper.Keeper, v *Venue, book *Book) simtypes.Operation {
	return func(r *rand.Rand, _ *baseapp.BaseApp, ctx sdk.Context,
		accs []simtypes.Account, _ string,
	) (simtypes.OperationMsg, []simtypes.FutureOperation, error) {
		acc, _ := simtypes.RandomAcc(r, accs)
		amount, err := simtypes.RandPositiveInt(r, sdkmath.NewInt(MaxJoinAmount))
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, opNameJoin, err.Error()), nil, nil
		}

		if err := v.Mint(ctx, k.GetToken(), k.GetAddress(), amount); err != nil {
			return simtypes.NoOpMsg(types.ModuleName, opNameJoin, err.Error()), nil, err
		}
		res, err := k.Join(ctx, acc.Address, amount)
		if err != nil {
			// The deposit stays idle and is folded into the position by a later operation.
			return simtypes.NoOpMsg(types.ModuleName, opNameJoin, err.Error()), nil, nil
		}
		book.Credit(acc.Address, res.Shares)

		return okMsg(opNameJoin, res.Shares.String()), nil, nil
	}
}

// SimulateExit exits a random ratio of a random holder's shares.
func SimulateExit(k *keeper.Keeper, book *Book) simtypes.Operation {
	return func(r *rand.Rand, _ *baseapp.BaseApp, ctx sdk.Context,
		_ []simtypes.Account, _ string,
	) (simtypes.OperationMsg, []simtypes.FutureOperation, error) {
		holder, shares, ok := getRandomHolder(r, book)
		if !ok {
			return simtypes.NoOpMsg(types.ModuleName, opNameExit, commentNoHolder), nil, nil
		}
		ratio := getRandomExitRatio(r)

		res, err := k.Exit(ctx, holder, shares, ratio)
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, opNameExit, err.Error()), nil, nil
		}
		if err := book.Debit(holder, res.BurnedShares); err != nil {
			return simtypes.NoOpMsg(types.ModuleName, opNameExit, err.Error()), nil, err
		}

		return okMsg(opNameExit, res.ReleasedValue.String()), nil, nil
	}
}

// SimulateInvest folds any idle balance into the position.
func SimulateInvest(k *keeper.Keeper) simtypes.Operation {
	return func(_ *rand.Rand, _ *baseapp.BaseApp, ctx sdk.Context,
		_ []simtypes.Account, _ string,
	) (simtypes.OperationMsg, []simtypes.FutureOperation, error) {
		staked, err := k.Invest(ctx, k.GetToken())
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, opNameInvest, err.Error()), nil, nil
		}
		return okMsg(opNameInvest, staked.String()), nil, nil
	}
}

// SimulateObserveRate checkpoints the rate at the current block.
func SimulateObserveRate(k *keeper.Keeper) simtypes.Operation {
	return func(_ *rand.Rand, _ *baseapp.BaseApp, ctx sdk.Context,
		_ []simtypes.Account, _ string,
	) (simtypes.OperationMsg, []simtypes.FutureOperation, error) {
		changed, err := k.ObserveRate(ctx)
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, opNameObserve, err.Error()), nil, err
		}
		if !changed {
			return simtypes.NoOpMsg(types.ModuleName, opNameObserve, "rate unchanged"), nil, nil
		}
		return okMsg(opNameObserve, ""), nil, nil
	}
}

// SimulateAccrueFees grows the pool rate by a random fraction.
func SimulateAccrueFees(v *Venue) simtypes.Operation {
	return func(r *rand.Rand, _ *baseapp.BaseApp, ctx sdk.Context,
		_ []simtypes.Account, _ string,
	) (simtypes.OperationMsg, []simtypes.FutureOperation, error) {
		fraction := simtypes.RandomDecAmount(r, sdkmath.LegacyMustNewDecFromStr(MaxFeeAccrual))
		if err := v.AccrueFees(ctx, fraction); err != nil {
			return simtypes.NoOpMsg(types.ModuleName, opNameAccrue, err.Error()), nil, err
		}
		return okMsg(opNameAccrue, fraction.String()), nil, nil
	}
}

// SimulateDonate sends value to the strategy outside of a join, either as the
// underlying token or as receipt tokens.
func SimulateDonate(k *keeper.Keeper, v *Venue) simtypes.Operation {
	return func(r *rand.Rand, _ *baseapp.BaseApp, ctx sdk.Context,
		_ []simtypes.Account, _ string,
	) (simtypes.OperationMsg, []simtypes.FutureOperation, error) {
		amount := simtypes.RandomAmount(r, sdkmath.NewInt(MaxDonation))
		if amount.IsZero() {
			return simtypes.NoOpMsg(types.ModuleName, opNameDonate, "zero donation"), nil, nil
		}

		var err error
		if r.Intn(2) == 0 {
			err = v.Mint(ctx, k.GetToken(), k.GetAddress(), amount)
		} else {
			err = v.AirdropReceipt(ctx, amount)
		}
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, opNameDonate, err.Error()), nil, err
		}
		return okMsg(opNameDonate, amount.String()), nil, nil
	}
}

func okMsg(name, comment string) simtypes.OperationMsg {
	msg := simtypes.NoOpMsg(types.ModuleName, name, comment)
	msg.OK = true
	return msg
}
