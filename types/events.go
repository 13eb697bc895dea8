package types

import (
	"strconv"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	EventTypeJoin           = "strategy_join"
	EventTypeExit           = "strategy_exit"
	EventTypeInvest         = "strategy_invest"
	EventTypeDivest         = "strategy_divest"
	EventTypeRateCheckpoint = "strategy_rate_checkpoint"

	AttributeKeyStrategy    = "strategy"
	AttributeKeyAmount      = "amount"
	AttributeKeyValue       = "value"
	AttributeKeyShares      = "shares"
	AttributeKeyTotalShares = "total_shares"
	AttributeKeyRatio       = "ratio"
	AttributeKeyReceipt     = "receipt"
	AttributeKeyRate        = "rate"
	AttributeKeyAccumulated = "accumulated"
	AttributeKeyBlock       = "block"
)

// NewEventJoin creates a new join event.
func NewEventJoin(strategyID string, amount, value, shares, totalShares sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeJoin,
		sdk.NewAttribute(AttributeKeyStrategy, strategyID),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(AttributeKeyValue, value.String()),
		sdk.NewAttribute(AttributeKeyShares, shares.String()),
		sdk.NewAttribute(AttributeKeyTotalShares, totalShares.String()),
	)
}

// NewEventExit creates a new exit event.
func NewEventExit(strategyID string, ratio sdkmath.LegacyDec, burned, released, totalShares sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeExit,
		sdk.NewAttribute(AttributeKeyStrategy, strategyID),
		sdk.NewAttribute(AttributeKeyRatio, ratio.String()),
		sdk.NewAttribute(AttributeKeyShares, burned.String()),
		sdk.NewAttribute(AttributeKeyValue, released.String()),
		sdk.NewAttribute(AttributeKeyTotalShares, totalShares.String()),
	)
}

// NewEventInvest creates a new invest event.
func NewEventInvest(strategyID string, amount, receipt sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeInvest,
		sdk.NewAttribute(AttributeKeyStrategy, strategyID),
		sdk.NewAttribute(AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(AttributeKeyReceipt, receipt.String()),
	)
}

// NewEventDivest creates a new divest event.
func NewEventDivest(strategyID string, receipt, amountOut sdkmath.Int) sdk.Event {
	return sdk.NewEvent(EventTypeDivest,
		sdk.NewAttribute(AttributeKeyStrategy, strategyID),
		sdk.NewAttribute(AttributeKeyReceipt, receipt.String()),
		sdk.NewAttribute(AttributeKeyAmount, amountOut.String()),
	)
}

// NewEventRateCheckpoint creates a new rate checkpoint event.
func NewEventRateCheckpoint(strategyID string, snapshot RateSnapshot) sdk.Event {
	return sdk.NewEvent(EventTypeRateCheckpoint,
		sdk.NewAttribute(AttributeKeyStrategy, strategyID),
		sdk.NewAttribute(AttributeKeyRate, snapshot.LastRate.String()),
		sdk.NewAttribute(AttributeKeyAccumulated, snapshot.Accumulated.String()),
		sdk.NewAttribute(AttributeKeyBlock, strconv.FormatUint(snapshot.LastBlock, 10)),
	)
}
