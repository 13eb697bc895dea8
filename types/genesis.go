package types

import (
	"fmt"
)

// GenesisState is the exported state of a strategy.
type GenesisState struct {
	Position     Position     `json:"position"`
	RateSnapshot RateSnapshot `json:"rate_snapshot"`
	// Checkpoints is the rate checkpoint history ordered by block.
	Checkpoints []RateSnapshot `json:"checkpoints"`
}

// DefaultGenesisState returns the default genesis state
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Position:     NewPosition(),
		RateSnapshot: NewRateSnapshot(0),
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure.
func (gs GenesisState) Validate() error {
	if err := gs.Position.Validate(); err != nil {
		return fmt.Errorf("invalid position: %w", err)
	}
	if err := gs.RateSnapshot.Validate(); err != nil {
		return fmt.Errorf("invalid rate snapshot: %w", err)
	}
	for i, cp := range gs.Checkpoints {
		if err := cp.Validate(); err != nil {
			return fmt.Errorf("invalid checkpoint %d: %w", i, err)
		}
		if i > 0 && cp.LastBlock <= gs.Checkpoints[i-1].LastBlock {
			return fmt.Errorf("checkpoint %d: block %d is not after %d", i, cp.LastBlock, gs.Checkpoints[i-1].LastBlock)
		}
		if cp.LastBlock > gs.RateSnapshot.LastBlock {
			return fmt.Errorf("checkpoint %d: block %d is after snapshot block %d", i, cp.LastBlock, gs.RateSnapshot.LastBlock)
		}
	}
	return nil
}
