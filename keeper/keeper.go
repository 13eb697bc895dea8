package keeper

import (
	"fmt"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/strategy/types"
)

// Keeper holds the accounting state of a single strategy and the external
// venues its position is staked into.
type Keeper struct {
	schema  collections.Schema
	config  types.StrategyConfig
	address sdk.AccAddress
	vault   sdk.AccAddress

	slippage          math.LegacyDec
	minInitialDeposit math.Int
	lockedShares      math.Int

	ValueSource  types.ValueSource
	PoolVenue    types.PoolVenue
	StakingVenue types.StakingVenue
	TokenKeeper  types.TokenKeeper

	Position     collections.Item[types.Position]
	RateSnapshot collections.Item[types.RateSnapshot]
	Checkpoints  collections.Map[uint64, types.RateSnapshot]
}

// NewKeeper returns a keeper for the strategy described by cfg. vault is the
// owning vault that receives released value on exit.
func NewKeeper(
	storeService store.KVStoreService,
	cfg types.StrategyConfig,
	vault sdk.AccAddress,
	valueSource types.ValueSource,
	poolVenue types.PoolVenue,
	stakingVenue types.StakingVenue,
	tokenKeeper types.TokenKeeper,
) *Keeper {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("invalid strategy config: %s", err))
	}
	if err := sdk.VerifyAddressFormat(vault); err != nil {
		panic(fmt.Sprintf("invalid vault address %s: %s", vault, err))
	}

	// Validate already parsed these.
	slippage, _ := cfg.SlippageDec()
	minInitial, _ := cfg.MinInitialDepositInt()
	locked, _ := cfg.LockedSharesInt()

	builder := collections.NewSchemaBuilder(storeService)

	keeper := &Keeper{
		config:            cfg,
		address:           types.GetStrategyAddress(cfg.ID),
		vault:             vault,
		slippage:          slippage,
		minInitialDeposit: minInitial,
		lockedShares:      locked,
		ValueSource:       valueSource,
		PoolVenue:         poolVenue,
		StakingVenue:      stakingVenue,
		TokenKeeper:       tokenKeeper,
		Position:          collections.NewItem(builder, types.PositionKeyPrefix, types.PositionName, types.PositionValue),
		RateSnapshot:      collections.NewItem(builder, types.RateSnapshotKeyPrefix, types.RateSnapshotName, types.RateSnapshotValue),
		Checkpoints:       collections.NewMap(builder, types.CheckpointsKeyPrefix, types.CheckpointsName, collections.Uint64Key, types.RateSnapshotValue),
	}

	schema, err := builder.Build()
	if err != nil {
		panic(err)
	}

	keeper.schema = schema
	return keeper
}

// GetAddress returns the account that holds the strategy's idle balance.
func (k Keeper) GetAddress() sdk.AccAddress {
	return k.address
}

// GetVault returns the owning vault.
func (k Keeper) GetVault() sdk.AccAddress {
	return k.vault
}

// GetConfig returns the immutable strategy config.
func (k Keeper) GetConfig() types.StrategyConfig {
	return k.config
}

// getLogger returns a logger with strategy module context.
func (k Keeper) getLogger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName, "strategy", k.config.ID)
}
