package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/strategy/types"
)

// InitGenesis initializes the strategy state from genesis. A nil genesis
// starts an empty position with its rate snapshot anchored at the current block.
func (k Keeper) InitGenesis(ctx sdk.Context, genState *types.GenesisState) {
	if genState == nil {
		genState = types.DefaultGenesisState()
		genState.RateSnapshot = types.NewRateSnapshot(uint64(ctx.BlockHeight()))
	}

	if err := genState.Validate(); err != nil {
		panic(fmt.Errorf("invalid strategy genesis state: %w", err))
	}

	if err := k.SetPosition(ctx, genState.Position); err != nil {
		panic(fmt.Errorf("failed to store position: %w", err))
	}

	for _, cp := range genState.Checkpoints {
		if err := k.Checkpoints.Set(ctx, cp.LastBlock, cp); err != nil {
			panic(fmt.Errorf("failed to store checkpoint at block %d: %w", cp.LastBlock, err))
		}
	}
	if err := k.setRateSnapshot(ctx, genState.RateSnapshot); err != nil {
		panic(fmt.Errorf("failed to store rate snapshot: %w", err))
	}
}

// ExportGenesis exports the current state of the strategy.
func (k Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	pos, err := k.GetPosition(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to get position: %w", err))
	}
	snap, err := k.GetRateSnapshot(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to get rate snapshot: %w", err))
	}

	var checkpoints []types.RateSnapshot
	err = k.Checkpoints.Walk(ctx, nil, func(_ uint64, cp types.RateSnapshot) (stop bool, err error) {
		checkpoints = append(checkpoints, cp)
		return false, nil
	})
	if err != nil {
		panic(fmt.Errorf("failed to walk checkpoints: %w", err))
	}

	return &types.GenesisState{
		Position:     pos,
		RateSnapshot: snap,
		Checkpoints:  checkpoints,
	}
}
