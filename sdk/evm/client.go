package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/time/rate"

	"github.com/govkit/govsync/sdk"
	sdkerrors "github.com/govkit/govsync/sdk/errors"
)

const (
	// DefaultReceiptPollInterval is how often WaitForReceipt asks for a receipt.
	DefaultReceiptPollInterval = time.Second
	// transferGas is the intrinsic gas of a plain value transfer.
	transferGas = 21_000
	// cancelGasBumpPercent is the gas price margin of a replacement.
	cancelGasBumpPercent = 10
)

// ChainBackend is the subset of *ethclient.Client used by Client.
type ChainBackend interface {
	BlockNumber(ctx context.Context) (uint64, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]gethtypes.Log, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *gethtypes.Transaction) error
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*gethtypes.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)
}

var (
	_ sdk.AccessPort = (*Client)(nil)
	_ sdk.Canceller  = (*Client)(nil)
)

// Client implements sdk.AccessPort over a go-ethereum backend. Without a
// transactor it is read only.
type Client struct {
	backend      ChainBackend
	auth         *bind.TransactOpts
	limiter      *rate.Limiter
	pollInterval time.Duration
}

type ClientOption func(*Client)

// WithTransactor sets the signing account used to simulate and send writes.
func WithTransactor(auth *bind.TransactOpts) ClientOption {
	return func(c *Client) {
		c.auth = auth
	}
}

// WithRateLimit bounds the request rate to the node. A non-positive rps
// disables limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

func WithReceiptPollInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

func NewClient(backend ChainBackend, opts ...ClientOption) *Client {
	c := &Client{
		backend:      backend,
		pollInterval: DefaultReceiptPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Account() (common.Address, bool) {
	if c.auth == nil {
		return common.Address{}, false
	}

	return c.auth.From, true
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}

	return c.limiter.Wait(ctx)
}

func (c *Client) ReadContract(ctx context.Context, call sdk.ContractCall) ([]any, error) {
	data, err := call.ABI.Pack(call.Method, call.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", call.Method, err)
	}
	if err = c.wait(ctx); err != nil {
		return nil, err
	}

	msg := ethereum.CallMsg{To: &call.Address, Data: data}
	if from, ok := c.Account(); ok {
		msg.From = from
	}

	out, err := c.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, err
	}

	return call.ABI.Unpack(call.Method, out)
}

func (c *Client) GetLogs(ctx context.Context, query ethereum.FilterQuery) ([]gethtypes.Log, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	return c.backend.FilterLogs(ctx, query)
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}

	return c.backend.BlockNumber(ctx)
}

func (c *Client) GetBytecode(ctx context.Context, address common.Address) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	return c.backend.CodeAt(ctx, address, nil)
}

// SimulateContract dry runs the call from the signing account and estimates
// its gas. Revert errors are returned as produced by the node.
func (c *Client) SimulateContract(ctx context.Context, call sdk.ContractCall) (*sdk.PreparedRequest, error) {
	from, ok := c.Account()
	if !ok {
		return nil, sdkerrors.NewConnectivityError(call.Method, sdkerrors.ErrNotConnected)
	}

	data, err := call.ABI.Pack(call.Method, call.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", call.Method, err)
	}

	msg := ethereum.CallMsg{
		From:  from,
		To:    &call.Address,
		Value: call.Value,
		Data:  data,
	}

	if err = c.wait(ctx); err != nil {
		return nil, err
	}
	out, err := c.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, err
	}

	var result []any
	if method, found := call.ABI.Methods[call.Method]; found && len(method.Outputs) > 0 {
		if result, err = method.Outputs.Unpack(out); err != nil {
			return nil, fmt.Errorf("failed to unpack %s result: %w", call.Method, err)
		}
	}

	if err = c.wait(ctx); err != nil {
		return nil, err
	}
	gas, err := c.backend.EstimateGas(ctx, msg)
	if err != nil {
		return nil, err
	}

	return &sdk.PreparedRequest{
		Call:   call,
		From:   from,
		Data:   data,
		Gas:    gas,
		Result: result,
	}, nil
}

// SendTransaction signs and submits a prepared request as a legacy
// transaction at the pending nonce.
func (c *Client) SendTransaction(ctx context.Context, req *sdk.PreparedRequest) (common.Hash, error) {
	if c.auth == nil {
		return common.Hash{}, sdkerrors.NewConnectivityError(req.Call.Method, sdkerrors.ErrNotConnected)
	}

	nonce, err := c.nonce(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	gasPrice, err := c.gasPrice(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	gas := req.Gas
	if c.auth.GasLimit > 0 {
		gas = c.auth.GasLimit
	}
	value := req.Call.Value
	if value == nil {
		value = new(big.Int)
	}

	to := req.Call.Address
	tx := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    value,
		Data:     req.Data,
	})

	return c.signAndSend(ctx, tx)
}

// CancelTransaction replaces a pending transaction with a zero value
// transfer to self at the same nonce and a gas price raised by 10%. The
// replacement races the original; the original may still be mined.
func (c *Client) CancelTransaction(ctx context.Context, hash common.Hash) (common.Hash, error) {
	if c.auth == nil {
		return common.Hash{}, sdkerrors.NewConnectivityError("cancelTransaction", sdkerrors.ErrNotConnected)
	}

	if err := c.wait(ctx); err != nil {
		return common.Hash{}, err
	}
	tx, pending, err := c.backend.TransactionByHash(ctx, hash)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to load transaction %s: %w", hash.Hex(), err)
	}
	if !pending {
		return common.Hash{}, fmt.Errorf("transaction %s is no longer pending", hash.Hex())
	}

	to := c.auth.From
	replacement := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    tx.Nonce(),
		GasPrice: BumpGasPrice(tx.GasPrice()),
		Gas:      transferGas,
		To:       &to,
		Value:    new(big.Int),
	})

	return c.signAndSend(ctx, replacement)
}

// WaitForReceipt polls for the receipt of hash until it is mined or ctx is
// done.
func (c *Client) WaitForReceipt(ctx context.Context, hash common.Hash) (*gethtypes.Receipt, error) {
	lggr := sdk.LoggerFrom(ctx)

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}

		if errors.Is(err, ethereum.NotFound) {
			lggr.Debugf("transaction %s not yet mined", hash.Hex())
		} else {
			lggr.Debugf("receipt retrieval for %s failed: %v", hash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) signAndSend(ctx context.Context, tx *gethtypes.Transaction) (common.Hash, error) {
	signed, err := c.auth.Signer(c.auth.From, tx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err = c.wait(ctx); err != nil {
		return common.Hash{}, err
	}
	if err = c.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, err
	}

	return signed.Hash(), nil
}

func (c *Client) nonce(ctx context.Context) (uint64, error) {
	if c.auth.Nonce != nil {
		return c.auth.Nonce.Uint64(), nil
	}
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	nonce, err := c.backend.PendingNonceAt(ctx, c.auth.From)
	if err != nil {
		return 0, fmt.Errorf("failed to get pending nonce: %w", err)
	}

	return nonce, nil
}

func (c *Client) gasPrice(ctx context.Context) (*big.Int, error) {
	if c.auth.GasPrice != nil {
		return c.auth.GasPrice, nil
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	price, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas price: %w", err)
	}

	return price, nil
}

// BumpGasPrice raises price by 10%, rounding up.
func BumpGasPrice(price *big.Int) *big.Int {
	bumped := new(big.Int).Mul(price, big.NewInt(100+cancelGasBumpPercent))
	bumped.Add(bumped, big.NewInt(99)) //nolint:mnd
	bumped.Quo(bumped, big.NewInt(100)) //nolint:mnd

	return bumped
}
