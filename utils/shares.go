package utils

import (
	"fmt"

	"cosmossdk.io/math"
)

// SharesForDeposit returns the number of shares minted for a deposit that
// added depositValue to a position.
//
// Formula (integer, floor):
//
//	if totalSharesBefore == 0:
//	    shares = depositValue
//	else:
//	    shares = floor( depositValue * totalSharesBefore / totalValueBefore )
//
// A position with outstanding shares and no value cannot price new shares and
// is rejected.
func SharesForDeposit(depositValue, totalValueBefore, totalSharesBefore math.Int) (math.Int, error) {
	if !depositValue.IsPositive() {
		return math.Int{}, fmt.Errorf("invalid input: deposit value must be positive, got %s", depositValue)
	}
	if totalValueBefore.IsNegative() || totalSharesBefore.IsNegative() {
		return math.Int{}, fmt.Errorf("invalid input: negative values not allowed")
	}
	if totalSharesBefore.IsZero() {
		return depositValue, nil
	}
	if totalValueBefore.IsZero() {
		return math.Int{}, fmt.Errorf("invalid input: position has %s shares but no value", totalSharesBefore)
	}
	return depositValue.Mul(totalSharesBefore).Quo(totalValueBefore), nil
}

// ValueForWithdrawal returns the value released and the shares burned when a
// holder of callerShares withdraws exitRatio of their holding.
//
// Formula (integer, floor):
//
//	burned   = floor( callerShares * exitRatio )
//	released = floor( burned * totalValueBefore / totalSharesBefore )
//
// A drained position (totalSharesBefore == 0) releases nothing.
func ValueForWithdrawal(exitRatio math.LegacyDec, totalValueBefore, totalSharesBefore, callerShares math.Int) (released, burned math.Int, err error) {
	if err := ValidateRatio(exitRatio); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if callerShares.IsNegative() || totalValueBefore.IsNegative() || totalSharesBefore.IsNegative() {
		return math.Int{}, math.Int{}, fmt.Errorf("invalid input: negative values not allowed")
	}
	if totalSharesBefore.IsZero() {
		return math.ZeroInt(), math.ZeroInt(), nil
	}
	if callerShares.GT(totalSharesBefore) {
		return math.Int{}, math.Int{}, fmt.Errorf("invalid input: caller shares %s exceed total shares %s", callerShares, totalSharesBefore)
	}

	burned = MulDown(callerShares, FixedPoint(exitRatio))
	released = burned.Mul(totalValueBefore).Quo(totalSharesBefore)
	return released, burned, nil
}

// ValidateRatio checks that ratio is in [0, 1].
func ValidateRatio(ratio math.LegacyDec) error {
	if ratio.IsNil() || ratio.IsNegative() || ratio.GT(math.LegacyOneDec()) {
		return fmt.Errorf("invalid input: exit ratio %v must be in [0, 1]", ratio)
	}
	return nil
}

// ShareValue returns the value of one share as an 18 decimal fixed point
// integer, or zero when no shares are outstanding.
func ShareValue(totalValue, totalShares math.Int) math.Int {
	if !totalShares.IsPositive() {
		return math.ZeroInt()
	}
	return DivDown(totalValue, totalShares)
}

// BootstrapShares applies the first depositor guards to the value of the
// first deposit into an empty position. It returns the shares credited to the
// depositor and the total shares minted.
//
//	minted   = depositValue
//	credited = depositValue - lockedShares
func BootstrapShares(depositValue, minInitial, lockedShares math.Int) (credited, minted math.Int, err error) {
	if depositValue.LT(minInitial) {
		return math.Int{}, math.Int{}, fmt.Errorf("invalid input: initial deposit %s is below minimum %s", depositValue, minInitial)
	}
	if depositValue.LTE(lockedShares) {
		return math.Int{}, math.Int{}, fmt.Errorf("invalid input: initial deposit %s does not exceed locked shares %s", depositValue, lockedShares)
	}
	return depositValue.Sub(lockedShares), depositValue, nil
}
