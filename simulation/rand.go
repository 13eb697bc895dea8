package simulation

import (
	"fmt"
	"math/rand"
	"slices"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"

	"github.com/provlabs/strategy/keeper"
	"github.com/provlabs/strategy/utils"
)

// Book records each depositor's shares the way the owning vault would. The
// strategy itself only tracks the total.
type Book struct {
	holders []sdk.AccAddress
	shares  map[string]sdkmath.Int
}

// NewBook returns an empty share book.
func NewBook() *Book {
	return &Book{shares: map[string]sdkmath.Int{}}
}

// Credit adds shares to holder.
func (b *Book) Credit(holder sdk.AccAddress, shares sdkmath.Int) {
	key := holder.String()
	current, ok := b.shares[key]
	if !ok {
		b.holders = append(b.holders, holder)
		current = sdkmath.ZeroInt()
	}
	b.shares[key] = current.Add(shares)
}

// Debit removes shares from holder.
func (b *Book) Debit(holder sdk.AccAddress, shares sdkmath.Int) error {
	current := b.SharesOf(holder)
	if current.LT(shares) {
		return fmt.Errorf("holder %s has %s shares, cannot debit %s", holder, current, shares)
	}
	b.shares[holder.String()] = current.Sub(shares)
	return nil
}

// SharesOf returns the shares recorded for holder.
func (b *Book) SharesOf(holder sdk.AccAddress) sdkmath.Int {
	if s, ok := b.shares[holder.String()]; ok {
		return s
	}
	return sdkmath.ZeroInt()
}

// Holders returns every depositor with a positive share balance.
func (b *Book) Holders() []sdk.AccAddress {
	return slices.Collect(utils.Filter(b.holders, func(addr sdk.AccAddress) bool {
		return b.SharesOf(addr).IsPositive()
	}))
}

// Total returns the sum of all recorded shares.
func (b *Book) Total() sdkmath.Int {
	total := sdkmath.ZeroInt()
	for s := range utils.Map(b.holders, b.SharesOf) {
		total = total.Add(s)
	}
	return total
}

// getRandomHolder selects a random depositor that holds shares.
func getRandomHolder(r *rand.Rand, book *Book) (sdk.AccAddress, sdkmath.Int, bool) {
	holders := book.Holders()
	if len(holders) == 0 {
		return nil, sdkmath.Int{}, false
	}
	holder := holders[r.Intn(len(holders))]
	return holder, book.SharesOf(holder), true
}

// getRandomExitRatio returns a ratio in [0, 1], exiting fully one time in four.
func getRandomExitRatio(r *rand.Rand) sdkmath.LegacyDec {
	if r.Intn(4) == 0 {
		return sdkmath.LegacyOneDec()
	}
	return simtypes.RandomDecAmount(r, sdkmath.LegacyOneDec())
}

// SharesInvariant checks that the shares recorded per depositor, plus any
// shares locked at bootstrap, add up to the strategy's total share supply.
func SharesInvariant(ctx sdk.Context, k *keeper.Keeper, book *Book) error {
	pos, err := k.GetPosition(ctx)
	if err != nil {
		return err
	}
	locked, err := k.GetConfig().LockedSharesInt()
	if err != nil {
		return err
	}
	expected := book.Total()
	if pos.TotalShares.IsPositive() {
		expected = expected.Add(locked)
	}
	if !expected.Equal(pos.TotalShares) {
		return fmt.Errorf("book records %s shares, strategy has %s", expected, pos.TotalShares)
	}
	return nil
}

// BackingInvariant checks that the receipt tokens staked at the venue match
// the staked balance recorded by the strategy.
func BackingInvariant(ctx sdk.Context, k *keeper.Keeper, v *Venue) error {
	pos, err := k.GetPosition(ctx)
	if err != nil {
		return err
	}
	staked, err := getOrZero(ctx, v.Staked)
	if err != nil {
		return err
	}
	if !staked.Equal(pos.StakedBalance) {
		return fmt.Errorf("venue holds %s staked receipt, strategy records %s", staked, pos.StakedBalance)
	}
	return nil
}
