package mocks

import (
	"fmt"
	"testing"
	"time"

	"cosmossdk.io/core/header"
	storetypes "cosmossdk.io/store/types"

	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/strategy/keeper"
	"github.com/provlabs/strategy/simulation"
	"github.com/provlabs/strategy/types"
	"github.com/provlabs/strategy/venue"
)

// VaultAddress is the owning vault used by keepers built with NewStrategyKeeper.
var VaultAddress = sdk.AccAddress("vault_______________")

// NewStrategyKeeper returns a keeper for cfg backed by an in-memory store and
// a simulation venue sharing that store. The position is initialized from
// default genesis at block height 1.
func NewStrategyKeeper(
	t testing.TB,
	cfg types.StrategyConfig,
) (sdk.Context, *keeper.Keeper, *simulation.Venue) {
	key := storetypes.NewKVStoreKey(types.StoreKey)
	tkey := storetypes.NewTransientStoreKey(fmt.Sprintf("transient_%s", types.ModuleName))
	wrapper := testutil.DefaultContextWithDB(t, key, tkey)
	storeService := runtime.NewKVStoreService(key)

	v := simulation.NewVenue(storeService, cfg.Token, types.GetStrategyAddress(cfg.ID))
	source, err := venue.NewValueSource(cfg, venue.Readers{
		Pool:      v,
		Linear:    v,
		PoolValue: v,
		Receipt:   v,
	})
	if err != nil {
		t.Fatalf("failed to build value source: %v", err)
	}

	k := keeper.NewKeeper(storeService, cfg, VaultAddress, source, v, v, v)

	ctx := wrapper.Ctx.
		WithHeaderInfo(header.Info{Time: time.Now().UTC(), Height: 1}).
		WithBlockHeight(1)
	k.InitGenesis(ctx, nil)
	return ctx, k, v
}
