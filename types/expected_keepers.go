package types

import (
	context "context"

	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ValueSource reports the value of the staked receipt token. Implementations
// must not mutate any state.
type ValueSource interface {
	// GetExchangeRate returns the receipt-token-to-underlying rate as an 18-decimal fixed point integer.
	GetExchangeRate(ctx context.Context) (math.Int, error)
	// GetReceiptTokenBalance returns the unstaked receipt tokens held by holder.
	GetReceiptTokenBalance(ctx context.Context, holder sdk.AccAddress) (math.Int, error)
}

// PoolVenue converts the underlying token into the pool's receipt token and back.
type PoolVenue interface {
	JoinSingleSided(ctx context.Context, token string, amount, minReceipt math.Int) (math.Int, error)
	ExitToSingleToken(ctx context.Context, receipt math.Int, token string, minOut math.Int) (math.Int, error)
}

// StakingVenue stakes receipt tokens on behalf of the position.
type StakingVenue interface {
	Stake(ctx context.Context, amount math.Int) error
	Unstake(ctx context.Context, amount math.Int) (math.Int, error)
	ClaimableRewards(ctx context.Context, holder sdk.AccAddress) (math.Int, error)
}

// TokenKeeper defines the token balance and transfer functionality needed by the strategy.
type TokenKeeper interface {
	BalanceOf(ctx context.Context, token string, holder sdk.AccAddress) (math.Int, error)
	Transfer(ctx context.Context, token string, from, to sdk.AccAddress, amount math.Int) error
}
