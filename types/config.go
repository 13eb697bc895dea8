package types

import (
	"fmt"
	"os"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"gopkg.in/yaml.v3"
)

// Variant identifies the pool flavor a strategy is staked into.
type Variant string

const (
	VariantStable   Variant = "stable"
	VariantWeighted Variant = "weighted"
	VariantBoosted  Variant = "boosted"
)

// DefaultSlippage is used when a config does not specify one.
const DefaultSlippage = "0.01"

// StrategyConfig is the immutable configuration of a single strategy instance.
// It is passed to the keeper at construction and never changes afterwards.
type StrategyConfig struct {
	ID          string  `yaml:"id"`
	Variant     Variant `yaml:"variant"`
	Token       string  `yaml:"token"`
	PoolID      string  `yaml:"pool_id"`
	PoolAddress string  `yaml:"pool_address"`
	// LinearPoolAddress is only used by the boosted variant.
	LinearPoolAddress string `yaml:"linear_pool_address"`
	// PriceAddress is the contract exposing getBptPerTokenPrice(). Only used by
	// the weighted variant on EVM venues.
	PriceAddress string `yaml:"price_address"`
	MetadataURI       string `yaml:"metadata_uri"`
	// Slippage is an 18 decimal fraction in [0, 1) bounding single-sided pool joins and exits.
	Slippage string `yaml:"slippage"`
	// MinInitialDeposit is the smallest deposit value accepted while the position is empty.
	MinInitialDeposit string `yaml:"min_initial_deposit"`
	// LockedShares are minted on the first deposit but never credited to the depositor.
	LockedShares string `yaml:"locked_shares"`
	// AutoInvest folds the idle balance into the position at the end of every block.
	AutoInvest bool `yaml:"auto_invest"`
}

// DefaultConfig returns a stable-variant config for the given id and token.
func DefaultConfig(id, token string) StrategyConfig {
	return StrategyConfig{
		ID:                id,
		Variant:           VariantStable,
		Token:             token,
		Slippage:          DefaultSlippage,
		MinInitialDeposit: "0",
		LockedShares:      "0",
	}
}

// LoadConfig reads a YAML strategy config from path and validates it.
func LoadConfig(path string) (StrategyConfig, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return StrategyConfig{}, fmt.Errorf("failed to read strategy config: %w", err)
	}
	return ParseConfig(bz)
}

// ParseConfig decodes a YAML strategy config and validates it.
func ParseConfig(bz []byte) (StrategyConfig, error) {
	var cfg StrategyConfig
	if err := yaml.Unmarshal(bz, &cfg); err != nil {
		return StrategyConfig{}, fmt.Errorf("failed to parse strategy config: %w", err)
	}
	if cfg.Variant == "" {
		cfg.Variant = VariantStable
	}
	if cfg.Slippage == "" {
		cfg.Slippage = DefaultSlippage
	}
	if err := cfg.Validate(); err != nil {
		return StrategyConfig{}, err
	}
	return cfg, nil
}

// Validate performs basic validation on the config fields.
func (c StrategyConfig) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("strategy id cannot be empty")
	}
	if err := sdk.ValidateDenom(c.Token); err != nil {
		return fmt.Errorf("invalid token denom: %w", err)
	}
	switch c.Variant {
	case VariantStable, VariantWeighted:
	case VariantBoosted:
		if c.LinearPoolAddress == "" {
			return fmt.Errorf("boosted strategy %s requires a linear pool address", c.ID)
		}
	default:
		return fmt.Errorf("unknown strategy variant %q", c.Variant)
	}
	if _, err := c.SlippageDec(); err != nil {
		return err
	}
	if _, err := c.MinInitialDepositInt(); err != nil {
		return err
	}
	if _, err := c.LockedSharesInt(); err != nil {
		return err
	}
	return nil
}

// SlippageDec returns the parsed slippage.
func (c StrategyConfig) SlippageDec() (math.LegacyDec, error) {
	if c.Slippage == "" {
		return math.LegacyZeroDec(), nil
	}
	s, err := math.LegacyNewDecFromStr(c.Slippage)
	if err != nil {
		return math.LegacyDec{}, fmt.Errorf("invalid slippage %q: %w", c.Slippage, err)
	}
	if s.IsNegative() || s.GTE(math.LegacyOneDec()) {
		return math.LegacyDec{}, fmt.Errorf("slippage %s must be in [0, 1)", s)
	}
	return s, nil
}

// MinInitialDepositInt returns the parsed minimum bootstrap deposit.
func (c StrategyConfig) MinInitialDepositInt() (math.Int, error) {
	return parseNonNegativeInt("min initial deposit", c.MinInitialDeposit)
}

// LockedSharesInt returns the parsed number of shares locked at bootstrap.
func (c StrategyConfig) LockedSharesInt() (math.Int, error) {
	return parseNonNegativeInt("locked shares", c.LockedShares)
}

func parseNonNegativeInt(name, value string) (math.Int, error) {
	if value == "" {
		return math.ZeroInt(), nil
	}
	v, ok := math.NewIntFromString(value)
	if !ok {
		return math.Int{}, fmt.Errorf("invalid %s %q", name, value)
	}
	if v.IsNegative() {
		return math.Int{}, fmt.Errorf("%s cannot be negative: %s", name, v)
	}
	return v, nil
}
