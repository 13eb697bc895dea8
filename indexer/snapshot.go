package indexer

import (
	"time"

	"cosmossdk.io/math"
)

// Snapshot is one strategy's accounting state at a sweep block. Fields whose
// read failed hold zero.
type Snapshot struct {
	StrategyID string    `json:"strategy_id"`
	Block      uint64    `json:"block"`
	Time       time.Time `json:"time"`

	Shares     math.Int `json:"shares"`
	TotalValue math.Int `json:"total_value"`
	ShareValue math.Int `json:"share_value"`
	// FeeRate is the pool exchange rate.
	FeeRate math.Int `json:"fee_rate"`
	// LiquidityMiningRate is staked receipt per share.
	LiquidityMiningRate  math.Int `json:"liquidity_mining_rate"`
	Accumulated          math.Int `json:"accumulated"`
	ProjectedAccumulated math.Int `json:"projected_accumulated"`

	// Failed lists the reads that fell back to zero.
	Failed []string `json:"failed,omitempty"`
}

func emptySnapshot(id string, block uint64, t time.Time) Snapshot {
	return Snapshot{
		StrategyID:           id,
		Block:                block,
		Time:                 t.UTC(),
		Shares:               math.ZeroInt(),
		TotalValue:           math.ZeroInt(),
		ShareValue:           math.ZeroInt(),
		FeeRate:              math.ZeroInt(),
		LiquidityMiningRate:  math.ZeroInt(),
		Accumulated:          math.ZeroInt(),
		ProjectedAccumulated: math.ZeroInt(),
	}
}

// Degraded reports whether any read fell back to zero.
func (s Snapshot) Degraded() bool {
	return len(s.Failed) > 0
}
