package venue

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/strategy/types"
	"github.com/provlabs/strategy/utils"
)

// RateReader reads an 18 decimal rate from a pool or wrapper.
type RateReader interface {
	ReadRate(ctx context.Context) (math.Int, error)
}

// ReceiptReader reads holdings of a pool's receipt token.
type ReceiptReader interface {
	ReceiptBalance(ctx context.Context, holder sdk.AccAddress) (math.Int, error)
	ReceiptSupply(ctx context.Context) (math.Int, error)
}

// PoolValueReader reads the value of a pool's reserves in the underlying token.
type PoolValueReader interface {
	PoolValue(ctx context.Context) (math.Int, error)
}

// Readers holds the on-venue readers a value source can be assembled from.
// Which ones are required depends on the variant.
type Readers struct {
	Pool   RateReader
	Linear RateReader
	// Price reads the value of one receipt token directly. When set it takes
	// precedence over PoolValue for the weighted variant.
	Price     RateReader
	PoolValue PoolValueReader
	Receipt   ReceiptReader
}

// NewValueSource returns the value source for the variant named by cfg.
func NewValueSource(cfg types.StrategyConfig, r Readers) (types.ValueSource, error) {
	if r.Receipt == nil {
		return nil, fmt.Errorf("strategy %s: receipt reader is required", cfg.ID)
	}
	switch cfg.Variant {
	case types.VariantStable, "":
		if r.Pool == nil {
			return nil, fmt.Errorf("strategy %s: stable variant requires a pool rate reader", cfg.ID)
		}
		return &StableSource{Pool: r.Pool, Receipt: r.Receipt}, nil
	case types.VariantWeighted:
		if r.Price == nil && r.PoolValue == nil {
			return nil, fmt.Errorf("strategy %s: weighted variant requires a price or pool value reader", cfg.ID)
		}
		return &WeightedSource{Price: r.Price, Pool: r.PoolValue, Receipt: r.Receipt}, nil
	case types.VariantBoosted:
		if r.Pool == nil || r.Linear == nil {
			return nil, fmt.Errorf("strategy %s: boosted variant requires pool and linear rate readers", cfg.ID)
		}
		return &BoostedSource{Pool: r.Pool, Linear: r.Linear, Receipt: r.Receipt}, nil
	default:
		return nil, fmt.Errorf("strategy %s: unknown variant %q", cfg.ID, cfg.Variant)
	}
}

// StableSource prices the receipt token at the pool's own rate.
type StableSource struct {
	Pool    RateReader
	Receipt ReceiptReader
}

var _ types.ValueSource = (*StableSource)(nil)

// GetExchangeRate implements types.ValueSource.
func (s *StableSource) GetExchangeRate(ctx context.Context) (math.Int, error) {
	return s.Pool.ReadRate(ctx)
}

// GetReceiptTokenBalance implements types.ValueSource.
func (s *StableSource) GetReceiptTokenBalance(ctx context.Context, holder sdk.AccAddress) (math.Int, error) {
	return s.Receipt.ReceiptBalance(ctx, holder)
}

// WeightedSource prices the receipt token of a weighted pool. With a Price
// reader the rate is read directly; otherwise it is the token's share of the
// pool's value.
//
//	rate = poolValue * 1e18 / receiptSupply
//
// An empty pool prices the receipt token at 1:1.
type WeightedSource struct {
	Price   RateReader
	Pool    PoolValueReader
	Receipt ReceiptReader
}

var _ types.ValueSource = (*WeightedSource)(nil)

// GetExchangeRate implements types.ValueSource.
func (s *WeightedSource) GetExchangeRate(ctx context.Context) (math.Int, error) {
	if s.Price != nil {
		return s.Price.ReadRate(ctx)
	}
	supply, err := s.Receipt.ReceiptSupply(ctx)
	if err != nil {
		return math.Int{}, err
	}
	if !supply.IsPositive() {
		return utils.ONE, nil
	}
	value, err := s.Pool.PoolValue(ctx)
	if err != nil {
		return math.Int{}, err
	}
	return utils.DivDown(value, supply), nil
}

// GetReceiptTokenBalance implements types.ValueSource.
func (s *WeightedSource) GetReceiptTokenBalance(ctx context.Context, holder sdk.AccAddress) (math.Int, error) {
	return s.Receipt.ReceiptBalance(ctx, holder)
}

// BoostedSource prices the receipt token of a pool whose reserves are
// themselves wrapped in a linear pool.
//
//	rate = poolRate * linearRate / 1e18
type BoostedSource struct {
	Pool    RateReader
	Linear  RateReader
	Receipt ReceiptReader
}

var _ types.ValueSource = (*BoostedSource)(nil)

// GetExchangeRate implements types.ValueSource.
func (s *BoostedSource) GetExchangeRate(ctx context.Context) (math.Int, error) {
	poolRate, err := s.Pool.ReadRate(ctx)
	if err != nil {
		return math.Int{}, err
	}
	linearRate, err := s.Linear.ReadRate(ctx)
	if err != nil {
		return math.Int{}, err
	}
	return utils.MulDown(poolRate, linearRate), nil
}

// GetReceiptTokenBalance implements types.ValueSource.
func (s *BoostedSource) GetReceiptTokenBalance(ctx context.Context, holder sdk.AccAddress) (math.Int, error) {
	return s.Receipt.ReceiptBalance(ctx, holder)
}
