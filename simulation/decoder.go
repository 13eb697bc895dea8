package simulation

import (
	"bytes"
	"fmt"

	collcodec "cosmossdk.io/collections/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/kv"

	"github.com/provlabs/strategy/types"
)

// NewDecodeStore returns a decoder that renders two strategy store entries
// with the same key for simulation diffs.
func NewDecodeStore() func(kvA, kvB kv.Pair) string {
	return func(kvA, kvB kv.Pair) string {
		switch {
		case hasPrefix(kvA.Key, types.PositionKeyPrefix.Bytes()):
			return decodePair(types.PositionValue, "Position", kvA, kvB)
		case hasPrefix(kvA.Key, types.RateSnapshotKeyPrefix.Bytes()):
			return decodePair(types.RateSnapshotValue, "RateSnapshot", kvA, kvB)
		case hasPrefix(kvA.Key, types.CheckpointsKeyPrefix.Bytes()):
			return decodePair(types.RateSnapshotValue, "Checkpoint", kvA, kvB)
		case hasPrefix(kvA.Key, venueBalancesPrefix.Bytes()),
			hasPrefix(kvA.Key, venueRatePrefix.Bytes()),
			hasPrefix(kvA.Key, venueLoosePrefix.Bytes()),
			hasPrefix(kvA.Key, venueStakedPrefix.Bytes()),
			hasPrefix(kvA.Key, venueRewardsPrefix.Bytes()):
			return decodePair(sdk.IntValue, "Venue", kvA, kvB)
		default:
			return fmt.Sprintf("%X\n%X", kvA.Value, kvB.Value)
		}
	}
}

func hasPrefix(key, prefix []byte) bool {
	return bytes.HasPrefix(key, prefix)
}

func decodePair[T any](codec collcodec.ValueCodec[T], name string, kvA, kvB kv.Pair) string {
	a, errA := codec.Decode(kvA.Value)
	b, errB := codec.Decode(kvB.Value)
	if errA != nil || errB != nil {
		return fmt.Sprintf("%s A: %X\n%s B: %X", name, kvA.Value, name, kvB.Value)
	}
	return fmt.Sprintf("%s A: %s\n%s B: %s", name, codec.Stringify(a), name, codec.Stringify(b))
}
