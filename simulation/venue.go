package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/strategy/types"
	"github.com/provlabs/strategy/utils"
	"github.com/provlabs/strategy/venue"
)

// Operation names accepted by FailOn. They match the operation recorded in a
// types.VenueError returned by the keeper.
const (
	OpExchangeRate   = "exchange_rate"
	OpReceiptBalance = "receipt_balance"
	OpPoolJoin       = "pool_join"
	OpPoolExit       = "pool_exit"
	OpStake          = "stake"
	OpUnstake        = "unstake"
	OpBalanceOf      = "balance_of"
	OpTransfer       = "transfer"
	OpRewards        = "claimable_rewards"
)

var (
	venueBalancesPrefix = collections.NewPrefix(64)
	venueRatePrefix     = collections.NewPrefix(65)
	venueLoosePrefix    = collections.NewPrefix(66)
	venueStakedPrefix   = collections.NewPrefix(67)
	venueRewardsPrefix  = collections.NewPrefix(68)
)

// Venue is a single-pool, single-gauge venue whose ledger lives in the same
// store as the strategy, so a discarded cache context also discards every
// venue side effect. It implements every collaborator the keeper needs.
//
// The pool has unlimited liquidity: joins burn the underlying token and exits
// mint it, both at the current rate less the configured fees. Minimum amounts
// passed to joins and exits are not enforced here.
type Venue struct {
	token  string
	holder sdk.AccAddress

	Balances collections.Map[collections.Pair[string, sdk.AccAddress], math.Int]
	Rate     collections.Item[math.Int]
	Loose    collections.Item[math.Int]
	Staked   collections.Item[math.Int]
	Rewards  collections.Item[math.Int]

	mu       sync.RWMutex
	joinFee  math.LegacyDec
	exitFee  math.LegacyDec
	failures map[string]error
}

var (
	_ types.ValueSource     = (*Venue)(nil)
	_ types.PoolVenue       = (*Venue)(nil)
	_ types.StakingVenue    = (*Venue)(nil)
	_ types.TokenKeeper     = (*Venue)(nil)
	_ venue.RateReader      = (*Venue)(nil)
	_ venue.ReceiptReader   = (*Venue)(nil)
	_ venue.PoolValueReader = (*Venue)(nil)
)

// NewVenue returns a venue for token whose pool position is held by holder.
func NewVenue(storeService store.KVStoreService, token string, holder sdk.AccAddress) *Venue {
	builder := collections.NewSchemaBuilder(storeService)
	v := &Venue{
		token:    token,
		holder:   holder,
		Balances: collections.NewMap(builder, venueBalancesPrefix, "venue_balances", collections.PairKeyCodec(collections.StringKey, sdk.AccAddressKey), sdk.IntValue),
		Rate:     collections.NewItem(builder, venueRatePrefix, "venue_rate", sdk.IntValue),
		Loose:    collections.NewItem(builder, venueLoosePrefix, "venue_loose", sdk.IntValue),
		Staked:   collections.NewItem(builder, venueStakedPrefix, "venue_staked", sdk.IntValue),
		Rewards:  collections.NewItem(builder, venueRewardsPrefix, "venue_rewards", sdk.IntValue),
		joinFee:  math.LegacyZeroDec(),
		exitFee:  math.LegacyZeroDec(),
		failures: map[string]error{},
	}
	if _, err := builder.Build(); err != nil {
		panic(err)
	}
	return v
}

// SetJoinFee sets the fraction of every pool join kept by the pool.
func (v *Venue) SetJoinFee(fee math.LegacyDec) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.joinFee = fee
}

// SetExitFee sets the fraction of every pool exit kept by the pool.
func (v *Venue) SetExitFee(fee math.LegacyDec) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.exitFee = fee
}

// FailOn makes every call to op return err until cleared with a nil err.
func (v *Venue) FailOn(op string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err == nil {
		delete(v.failures, op)
		return
	}
	v.failures[op] = err
}

func (v *Venue) failure(op string) error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.failures[op]
}

func (v *Venue) fees() (join, exit math.LegacyDec) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.joinFee, v.exitFee
}

// SetRate sets the receipt token exchange rate.
func (v *Venue) SetRate(ctx context.Context, rate math.Int) error {
	return v.Rate.Set(ctx, rate)
}

// AccrueFees grows the exchange rate by fraction, as trading fees do.
func (v *Venue) AccrueFees(ctx context.Context, fraction math.LegacyDec) error {
	rate, err := v.rate(ctx)
	if err != nil {
		return err
	}
	grown := math.LegacyNewDecFromInt(rate).Mul(math.LegacyOneDec().Add(fraction)).TruncateInt()
	return v.Rate.Set(ctx, grown)
}

// Mint credits amount of token to addr, used for deposits and airdrops.
func (v *Venue) Mint(ctx context.Context, token string, addr sdk.AccAddress, amount math.Int) error {
	bal, err := v.balance(ctx, token, addr)
	if err != nil {
		return err
	}
	return v.Balances.Set(ctx, collections.Join(token, addr), bal.Add(amount))
}

// AirdropReceipt credits unstaked receipt tokens to the holder.
func (v *Venue) AirdropReceipt(ctx context.Context, amount math.Int) error {
	loose, err := getOrZero(ctx, v.Loose)
	if err != nil {
		return err
	}
	return v.Loose.Set(ctx, loose.Add(amount))
}

// AddRewards accrues claimable staking rewards.
func (v *Venue) AddRewards(ctx context.Context, amount math.Int) error {
	rewards, err := getOrZero(ctx, v.Rewards)
	if err != nil {
		return err
	}
	return v.Rewards.Set(ctx, rewards.Add(amount))
}

// GetExchangeRate implements types.ValueSource.
func (v *Venue) GetExchangeRate(ctx context.Context) (math.Int, error) {
	if err := v.failure(OpExchangeRate); err != nil {
		return math.Int{}, err
	}
	return v.rate(ctx)
}

// GetReceiptTokenBalance implements types.ValueSource.
func (v *Venue) GetReceiptTokenBalance(ctx context.Context, holder sdk.AccAddress) (math.Int, error) {
	if err := v.failure(OpReceiptBalance); err != nil {
		return math.Int{}, err
	}
	return v.ReceiptBalance(ctx, holder)
}

// ReadRate implements venue.RateReader.
func (v *Venue) ReadRate(ctx context.Context) (math.Int, error) {
	return v.GetExchangeRate(ctx)
}

// ReceiptBalance implements venue.ReceiptReader.
func (v *Venue) ReceiptBalance(ctx context.Context, holder sdk.AccAddress) (math.Int, error) {
	if !holder.Equals(v.holder) {
		return math.ZeroInt(), nil
	}
	return getOrZero(ctx, v.Loose)
}

// ReceiptSupply implements venue.ReceiptReader.
func (v *Venue) ReceiptSupply(ctx context.Context) (math.Int, error) {
	loose, err := getOrZero(ctx, v.Loose)
	if err != nil {
		return math.Int{}, err
	}
	staked, err := getOrZero(ctx, v.Staked)
	if err != nil {
		return math.Int{}, err
	}
	return loose.Add(staked), nil
}

// PoolValue implements venue.PoolValueReader.
func (v *Venue) PoolValue(ctx context.Context) (math.Int, error) {
	supply, err := v.ReceiptSupply(ctx)
	if err != nil {
		return math.Int{}, err
	}
	rate, err := v.rate(ctx)
	if err != nil {
		return math.Int{}, err
	}
	return utils.ValueOfReceipt(supply, rate), nil
}

// JoinSingleSided implements types.PoolVenue.
func (v *Venue) JoinSingleSided(ctx context.Context, token string, amount, _ math.Int) (math.Int, error) {
	if err := v.failure(OpPoolJoin); err != nil {
		return math.Int{}, err
	}
	if token != v.token {
		return math.Int{}, fmt.Errorf("pool does not accept %s", token)
	}
	if err := v.debit(ctx, token, v.holder, amount); err != nil {
		return math.Int{}, err
	}
	rate, err := v.rate(ctx)
	if err != nil {
		return math.Int{}, err
	}
	joinFee, _ := v.fees()
	net := math.LegacyNewDecFromInt(amount).Mul(math.LegacyOneDec().Sub(joinFee)).TruncateInt()
	receipt := utils.DivDown(net, rate)
	if err := v.AirdropReceipt(ctx, receipt); err != nil {
		return math.Int{}, err
	}
	return receipt, nil
}

// ExitToSingleToken implements types.PoolVenue.
func (v *Venue) ExitToSingleToken(ctx context.Context, receipt math.Int, token string, _ math.Int) (math.Int, error) {
	if err := v.failure(OpPoolExit); err != nil {
		return math.Int{}, err
	}
	if token != v.token {
		return math.Int{}, fmt.Errorf("pool does not pay out %s", token)
	}
	loose, err := getOrZero(ctx, v.Loose)
	if err != nil {
		return math.Int{}, err
	}
	if receipt.GT(loose) {
		return math.Int{}, fmt.Errorf("exit of %s receipt exceeds unstaked balance %s", receipt, loose)
	}
	rate, err := v.rate(ctx)
	if err != nil {
		return math.Int{}, err
	}
	_, exitFee := v.fees()
	gross := utils.ValueOfReceipt(receipt, rate)
	out := math.LegacyNewDecFromInt(gross).Mul(math.LegacyOneDec().Sub(exitFee)).TruncateInt()
	if err := v.Loose.Set(ctx, loose.Sub(receipt)); err != nil {
		return math.Int{}, err
	}
	if err := v.Mint(ctx, token, v.holder, out); err != nil {
		return math.Int{}, err
	}
	return out, nil
}

// Stake implements types.StakingVenue.
func (v *Venue) Stake(ctx context.Context, amount math.Int) error {
	if err := v.failure(OpStake); err != nil {
		return err
	}
	loose, err := getOrZero(ctx, v.Loose)
	if err != nil {
		return err
	}
	if amount.GT(loose) {
		return fmt.Errorf("stake of %s exceeds unstaked balance %s", amount, loose)
	}
	staked, err := getOrZero(ctx, v.Staked)
	if err != nil {
		return err
	}
	if err := v.Loose.Set(ctx, loose.Sub(amount)); err != nil {
		return err
	}
	return v.Staked.Set(ctx, staked.Add(amount))
}

// Unstake implements types.StakingVenue.
func (v *Venue) Unstake(ctx context.Context, amount math.Int) (math.Int, error) {
	if err := v.failure(OpUnstake); err != nil {
		return math.Int{}, err
	}
	staked, err := getOrZero(ctx, v.Staked)
	if err != nil {
		return math.Int{}, err
	}
	if amount.GT(staked) {
		return math.Int{}, fmt.Errorf("unstake of %s exceeds staked balance %s", amount, staked)
	}
	if err := v.Staked.Set(ctx, staked.Sub(amount)); err != nil {
		return math.Int{}, err
	}
	if err := v.AirdropReceipt(ctx, amount); err != nil {
		return math.Int{}, err
	}
	return amount, nil
}

// ClaimableRewards implements types.StakingVenue.
func (v *Venue) ClaimableRewards(ctx context.Context, holder sdk.AccAddress) (math.Int, error) {
	if err := v.failure(OpRewards); err != nil {
		return math.Int{}, err
	}
	if !holder.Equals(v.holder) {
		return math.ZeroInt(), nil
	}
	return getOrZero(ctx, v.Rewards)
}

// BalanceOf implements types.TokenKeeper.
func (v *Venue) BalanceOf(ctx context.Context, token string, holder sdk.AccAddress) (math.Int, error) {
	if err := v.failure(OpBalanceOf); err != nil {
		return math.Int{}, err
	}
	return v.balance(ctx, token, holder)
}

// Transfer implements types.TokenKeeper.
func (v *Venue) Transfer(ctx context.Context, token string, from, to sdk.AccAddress, amount math.Int) error {
	if err := v.failure(OpTransfer); err != nil {
		return err
	}
	if err := v.debit(ctx, token, from, amount); err != nil {
		return err
	}
	return v.Mint(ctx, token, to, amount)
}

func (v *Venue) rate(ctx context.Context) (math.Int, error) {
	rate, err := v.Rate.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return utils.ONE, nil
	}
	return rate, err
}

func (v *Venue) balance(ctx context.Context, token string, addr sdk.AccAddress) (math.Int, error) {
	bal, err := v.Balances.Get(ctx, collections.Join(token, addr))
	if errors.Is(err, collections.ErrNotFound) {
		return math.ZeroInt(), nil
	}
	return bal, err
}

func (v *Venue) debit(ctx context.Context, token string, addr sdk.AccAddress, amount math.Int) error {
	bal, err := v.balance(ctx, token, addr)
	if err != nil {
		return err
	}
	if bal.LT(amount) {
		return fmt.Errorf("insufficient %s balance: %s < %s", token, bal, amount)
	}
	return v.Balances.Set(ctx, collections.Join(token, addr), bal.Sub(amount))
}

func getOrZero(ctx context.Context, item collections.Item[math.Int]) (math.Int, error) {
	v, err := item.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return math.ZeroInt(), nil
	}
	return v, err
}
