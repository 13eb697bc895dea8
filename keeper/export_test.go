package keeper

import (
	"context"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TestAccessor_investAmount exposes this keeper's investAmount function for unit tests.
func (k *Keeper) TestAccessor_investAmount(t *testing.T, ctx context.Context, amount math.Int) (math.Int, error) {
	t.Helper()
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return k.investAmount(sdkCtx, amount)
}

// TestAccessor_divest exposes this keeper's divest function for unit tests.
func (k *Keeper) TestAccessor_divest(t *testing.T, ctx context.Context, target math.Int) (math.Int, error) {
	t.Helper()
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return k.divest(sdkCtx, target)
}
