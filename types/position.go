package types

import (
	"fmt"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// PositionState is the high level lifecycle state of a position.
type PositionState string

const (
	PositionStateEmpty  PositionState = "EMPTY"
	PositionStateActive PositionState = "ACTIVE"
)

// Position is the persisted accounting state of a strategy.
type Position struct {
	// TotalShares is the number of shares outstanding across all depositors.
	TotalShares math.Int `json:"total_shares"`
	// StakedBalance is the amount of receipt token staked by the position.
	StakedBalance math.Int `json:"staked_balance"`
}

// NewPosition returns an empty position.
func NewPosition() Position {
	return Position{
		TotalShares:   math.ZeroInt(),
		StakedBalance: math.ZeroInt(),
	}
}

// State reports whether any shares are outstanding.
func (p Position) State() PositionState {
	if p.TotalShares.IsNil() || p.TotalShares.IsZero() {
		return PositionStateEmpty
	}
	return PositionStateActive
}

// Validate checks that both balances are set and non-negative.
func (p Position) Validate() error {
	if p.TotalShares.IsNil() || p.TotalShares.IsNegative() {
		return fmt.Errorf("invalid total shares: %v", p.TotalShares)
	}
	if p.StakedBalance.IsNil() || p.StakedBalance.IsNegative() {
		return fmt.Errorf("invalid staked balance: %v", p.StakedBalance)
	}
	return nil
}

// RateSnapshot is the last durable checkpoint of the rate accumulator.
type RateSnapshot struct {
	// LastRate is the rate observed at LastBlock.
	LastRate math.Int `json:"last_rate"`
	// Accumulated is the integral of the rate curve up to LastBlock.
	Accumulated math.Int `json:"accumulated"`
	// LastBlock is the block of the last checkpoint.
	LastBlock uint64 `json:"last_block"`
}

// NewRateSnapshot returns a zero-rate snapshot anchored at block.
func NewRateSnapshot(block uint64) RateSnapshot {
	return RateSnapshot{
		LastRate:    math.ZeroInt(),
		Accumulated: math.ZeroInt(),
		LastBlock:   block,
	}
}

// Validate checks that the snapshot amounts are set and non-negative.
func (s RateSnapshot) Validate() error {
	if s.LastRate.IsNil() || s.LastRate.IsNegative() {
		return fmt.Errorf("invalid last rate: %v", s.LastRate)
	}
	if s.Accumulated.IsNil() || s.Accumulated.IsNegative() {
		return fmt.Errorf("invalid accumulated rate: %v", s.Accumulated)
	}
	return nil
}

// JoinResult is returned by a successful join.
type JoinResult struct {
	// Shares credited to the depositor.
	Shares math.Int
	// Value is the value the deposit added to the position after the pool join.
	Value math.Int
	// TotalValue is the position value after the join.
	TotalValue math.Int
}

// ExitResult is returned by an exit. A zero result is returned for an empty position.
type ExitResult struct {
	// BurnedShares removed from the total supply.
	BurnedShares math.Int
	// ReleasedValue transferred to the owning vault.
	ReleasedValue math.Int
	// Divested is the amount of underlying realized from the pool, which can exceed ReleasedValue.
	Divested math.Int
}

// ZeroExitResult is the defined result of exiting a drained position.
func ZeroExitResult() ExitResult {
	return ExitResult{
		BurnedShares:  math.ZeroInt(),
		ReleasedValue: math.ZeroInt(),
		Divested:      math.ZeroInt(),
	}
}

// StrategyInfo is an aggregate read of a strategy's configuration and accounting state.
type StrategyInfo struct {
	ID          string
	Address     sdk.AccAddress
	Variant     Variant
	Token       string
	PoolID      string
	MetadataURI string
	State       PositionState
	TotalShares math.Int
	Staked      math.Int
	TotalValue  math.Int
	ShareValue  math.Int
	Rate        math.Int
	Snapshot    RateSnapshot
}
