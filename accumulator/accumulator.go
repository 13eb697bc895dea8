package accumulator

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/provlabs/strategy/types"
)

// Observe folds currentRate observed at currentBlock into snap.
//
// The rate is treated as a step function: between two checkpoints it is
// constant at snap.LastRate, so the integral up to currentBlock is
//
//	accumulated = snap.Accumulated + snap.LastRate * (currentBlock - snap.LastBlock)
//
// When currentRate equals snap.LastRate nothing needs to be persisted and
// changed is false; next is snap unchanged and accumulated is a projection.
// Otherwise next is a new checkpoint at currentBlock carrying currentRate.
func Observe(snap types.RateSnapshot, currentRate math.Int, currentBlock uint64) (next types.RateSnapshot, accumulated math.Int, changed bool, err error) {
	if currentRate.IsNil() || currentRate.IsNegative() {
		return snap, math.Int{}, false, errors.Wrapf(types.ErrInvalidInput, "rate %v must be non-negative", currentRate)
	}
	accumulated, err = Project(snap, currentBlock)
	if err != nil {
		return snap, math.Int{}, false, err
	}
	if currentRate.Equal(snap.LastRate) {
		return snap, accumulated, false, nil
	}

	next = types.RateSnapshot{
		LastRate:    currentRate,
		Accumulated: accumulated,
		LastBlock:   currentBlock,
	}
	return next, accumulated, true, nil
}

// Project returns the accumulated value at block without checkpointing.
func Project(snap types.RateSnapshot, block uint64) (math.Int, error) {
	if block < snap.LastBlock {
		return math.Int{}, errors.Wrapf(types.ErrInvalidInput, "block %d is before last checkpoint %d", block, snap.LastBlock)
	}
	elapsed := math.NewIntFromUint64(block - snap.LastBlock)
	return snap.Accumulated.Add(snap.LastRate.Mul(elapsed)), nil
}
