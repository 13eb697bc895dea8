package simulation

import (
	"encoding/json"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/cosmos/cosmos-sdk/types/module"

	"github.com/provlabs/strategy/types"
	"github.com/provlabs/strategy/utils"
)

const (
	MaxNumCheckpoints    = 8
	MaxCheckpointSpacing = 50
	MaxRateStepBps       = 200 // per checkpoint, in basis points
	MaxGenesisShares     = 1_000_000
	ChanceOfEmptyGenesis = 4 // 1 in X
)

// RandomizedGenState generates a random GenesisState for a strategy: a
// position and a checkpoint history whose rate drifts upward with the
// occasional drop.
func RandomizedGenState(simState *module.SimulationState) {
	checkpoints := randomCheckpoints(simState)
	position := randomPosition(simState, checkpoints[len(checkpoints)-1].LastRate)

	genesis := types.GenesisState{
		Position:     position,
		RateSnapshot: checkpoints[len(checkpoints)-1],
		Checkpoints:  checkpoints,
	}
	if err := genesis.Validate(); err != nil {
		panic(fmt.Errorf("generated invalid strategy genesis: %w", err))
	}

	bz, err := json.MarshalIndent(&genesis, "", " ")
	if err != nil {
		panic(err)
	}
	fmt.Printf("Selected randomly generated strategy parameters: %s\n", bz)

	simState.GenState[types.ModuleName] = bz
}

func randomCheckpoints(simState *module.SimulationState) []types.RateSnapshot {
	r := simState.Rand
	n := r.Intn(MaxNumCheckpoints) + 1

	snap := types.NewRateSnapshot(uint64(r.Intn(MaxCheckpointSpacing)))
	snap.LastRate = utils.ONE
	checkpoints := []types.RateSnapshot{snap}

	for i := 1; i < n; i++ {
		elapsed := uint64(r.Intn(MaxCheckpointSpacing) + 1)
		snap = types.RateSnapshot{
			LastRate:    randomRateStep(simState, snap.LastRate),
			Accumulated: snap.Accumulated.Add(snap.LastRate.Mul(sdkmath.NewIntFromUint64(elapsed))),
			LastBlock:   snap.LastBlock + elapsed,
		}
		checkpoints = append(checkpoints, snap)
	}
	return checkpoints
}

// randomRateStep moves rate by at least one basis point, mostly upward.
func randomRateStep(simState *module.SimulationState, rate sdkmath.Int) sdkmath.Int {
	r := simState.Rand
	stepBps := int64(r.Intn(MaxRateStepBps) + 1)
	if r.Intn(5) == 0 {
		stepBps = -(stepBps + 1) / 2
	}
	return rate.Add(rate.MulRaw(stepBps).QuoRaw(10_000))
}

func randomPosition(simState *module.SimulationState, rate sdkmath.Int) types.Position {
	r := simState.Rand
	if r.Intn(ChanceOfEmptyGenesis) == 0 {
		return types.NewPosition()
	}
	shares := sdkmath.NewInt(r.Int63n(MaxGenesisShares) + 1)
	// Stake enough receipt for the shares to be worth about one unit each.
	staked := utils.DivDown(shares, rate)
	return types.Position{
		TotalShares:   shares,
		StakedBalance: staked,
	}
}
