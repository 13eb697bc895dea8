package evm

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/strategy/types"
	"github.com/provlabs/strategy/venue"
)

const readerABIJSON = `[
	{"type":"function","name":"getRate","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getBptPerTokenPrice","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

var readerABI = mustParseABI(readerABIJSON)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// ContractCaller executes read-only contract calls. *ethclient.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Dial connects to an EVM JSON-RPC endpoint.
func Dial(ctx context.Context, url string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return client, nil
}

// Contract reads pool and token state from a single contract with eth_call.
type Contract struct {
	caller  ContractCaller
	address common.Address
}

var (
	_ venue.RateReader    = (*Contract)(nil)
	_ venue.ReceiptReader = (*Contract)(nil)
	_ venue.RateReader    = BptPrice{}
)

// NewContract returns a reader for the contract at address.
func NewContract(caller ContractCaller, address common.Address) *Contract {
	return &Contract{caller: caller, address: address}
}

// Address returns the contract address.
func (c *Contract) Address() common.Address {
	return c.address
}

// ReadRate calls getRate().
func (c *Contract) ReadRate(ctx context.Context) (math.Int, error) {
	return c.callUint(ctx, "getRate")
}

// BptPrice reads the underlying token value of one weighted pool token from
// the strategy contract at Contract.
type BptPrice struct {
	*Contract
}

// ReadRate calls getBptPerTokenPrice().
func (p BptPrice) ReadRate(ctx context.Context) (math.Int, error) {
	return p.callUint(ctx, "getBptPerTokenPrice")
}

// ReceiptBalance calls balanceOf(holder). The holder's 20 address bytes are used as the EVM address.
func (c *Contract) ReceiptBalance(ctx context.Context, holder sdk.AccAddress) (math.Int, error) {
	return c.callUint(ctx, "balanceOf", common.BytesToAddress(holder))
}

// ReceiptSupply calls totalSupply().
func (c *Contract) ReceiptSupply(ctx context.Context) (math.Int, error) {
	return c.callUint(ctx, "totalSupply")
}

func (c *Contract) callUint(ctx context.Context, method string, args ...interface{}) (math.Int, error) {
	data, err := readerABI.Pack(method, args...)
	if err != nil {
		return math.Int{}, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	out, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &c.address, Data: data}, nil)
	if err != nil {
		return math.Int{}, fmt.Errorf("%s on %s: %w", method, c.address.Hex(), err)
	}
	vals, err := readerABI.Unpack(method, out)
	if err != nil {
		return math.Int{}, fmt.Errorf("failed to unpack %s from %s: %w", method, c.address.Hex(), err)
	}
	if len(vals) != 1 {
		return math.Int{}, fmt.Errorf("%s on %s returned %d values", method, c.address.Hex(), len(vals))
	}
	v, ok := vals[0].(*big.Int)
	if !ok {
		return math.Int{}, fmt.Errorf("%s on %s returned %T", method, c.address.Hex(), vals[0])
	}
	return math.NewIntFromBigInt(v), nil
}

// NewReaders assembles the readers for cfg from its contract addresses. The
// pool contract is also the receipt token. Weighted pools are priced by the
// price contract rather than from pool reserves.
func NewReaders(caller ContractCaller, cfg types.StrategyConfig) (venue.Readers, error) {
	if !common.IsHexAddress(cfg.PoolAddress) {
		return venue.Readers{}, fmt.Errorf("strategy %s: invalid pool address %q", cfg.ID, cfg.PoolAddress)
	}
	pool := NewContract(caller, common.HexToAddress(cfg.PoolAddress))
	readers := venue.Readers{
		Pool:    pool,
		Receipt: pool,
	}
	switch cfg.Variant {
	case types.VariantBoosted:
		if !common.IsHexAddress(cfg.LinearPoolAddress) {
			return venue.Readers{}, fmt.Errorf("strategy %s: invalid linear pool address %q", cfg.ID, cfg.LinearPoolAddress)
		}
		readers.Linear = NewContract(caller, common.HexToAddress(cfg.LinearPoolAddress))
	case types.VariantWeighted:
		if !common.IsHexAddress(cfg.PriceAddress) {
			return venue.Readers{}, fmt.Errorf("strategy %s: invalid price address %q", cfg.ID, cfg.PriceAddress)
		}
		readers.Price = BptPrice{NewContract(caller, common.HexToAddress(cfg.PriceAddress))}
	}
	return readers, nil
}
