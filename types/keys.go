package types

import (
	fmt "fmt"

	"cosmossdk.io/collections"
	"github.com/cometbft/cometbft/crypto"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "strategy"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

var (
	// PositionKeyPrefix is the prefix to retrieve the Position
	PositionKeyPrefix = collections.NewPrefix(0)
	// PositionName is a human-readable name for the position item.
	PositionName = "position"
	// RateSnapshotKeyPrefix is the prefix to retrieve the latest RateSnapshot
	RateSnapshotKeyPrefix = collections.NewPrefix(1)
	// RateSnapshotName is a human-readable name for the rate snapshot item.
	RateSnapshotName = "rate_snapshot"
	// CheckpointsKeyPrefix is the prefix to retrieve historical rate checkpoints keyed by block.
	CheckpointsKeyPrefix = collections.NewPrefix(2)
	// CheckpointsName is a human-readable name for the checkpoints map.
	CheckpointsName = "checkpoints"
)

// GetStrategyAddress returns the account address that holds the position for the given strategy id.
func GetStrategyAddress(strategyID string) sdk.AccAddress {
	return sdk.AccAddress(crypto.AddressHash([]byte(fmt.Sprintf("%s/%s", ModuleName, strategyID))))
}
