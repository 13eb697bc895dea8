package utils

import (
	"fmt"

	"cosmossdk.io/math"
)

// ONE is the 18 decimal fixed point unit used by exchange rates and ratios.
var ONE = math.NewIntWithDecimal(1, 18)

// MulDown returns floor(a * b / ONE) where b is an 18 decimal fixed point value.
func MulDown(a, b math.Int) math.Int {
	return a.Mul(b).Quo(ONE)
}

// DivDown returns floor(a * ONE / b). It panics when b is zero.
func DivDown(a, b math.Int) math.Int {
	return a.Mul(ONE).Quo(b)
}

// DivUp returns ceil(a * ONE / b). It panics when b is zero.
func DivUp(a, b math.Int) math.Int {
	n := a.Mul(ONE)
	q := n.Quo(b)
	if !n.Mod(b).IsZero() {
		q = q.AddRaw(1)
	}
	return q
}

// FixedPoint returns the exact 18 decimal integer representation of d.
func FixedPoint(d math.LegacyDec) math.Int {
	return math.NewIntFromBigInt(d.BigInt())
}

// ApplySlippage returns floor(amount * (1 - slippage)).
//
//	minOut = amount * (ONE - slippage) / ONE
//
// Slippage must be in [0, 1).
func ApplySlippage(amount math.Int, slippage math.LegacyDec) (math.Int, error) {
	if amount.IsNegative() {
		return math.Int{}, fmt.Errorf("invalid input: negative amount %s", amount)
	}
	if slippage.IsNegative() || slippage.GTE(math.LegacyOneDec()) {
		return math.Int{}, fmt.Errorf("invalid input: slippage %s must be in [0, 1)", slippage)
	}
	return MulDown(amount, ONE.Sub(FixedPoint(slippage))), nil
}

// ReceiptForValue converts an underlying amount into the receipt tokens it buys at rate, rounding down.
func ReceiptForValue(value, rate math.Int) (math.Int, error) {
	if !rate.IsPositive() {
		return math.Int{}, fmt.Errorf("invalid input: exchange rate must be positive, got %s", rate)
	}
	return DivDown(value, rate), nil
}

// ValueOfReceipt converts a receipt token amount into underlying at rate, rounding down.
func ValueOfReceipt(receipt, rate math.Int) math.Int {
	return MulDown(receipt, rate)
}
