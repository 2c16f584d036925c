package chaintest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/govkit/govsync/sdk"
	sdkerrors "github.com/govkit/govsync/sdk/errors"
)

// ErrOutOfBounds is returned by reads with no programmed handler, the way a
// node reports a revert on a missing array slot.
var ErrOutOfBounds = errors.New("execution reverted")

// ReadFunc answers a contract read with the method's return values.
type ReadFunc func(args []any) ([]any, error)

var _ sdk.AccessPort = (*FakePort)(nil)

// FakePort is an in-memory sdk.AccessPort. Arguments and return values are
// passed through the call's ABI so that they decode exactly like a node
// response.
type FakePort struct {
	mu sync.Mutex

	account  *common.Address
	reads    map[string]ReadFunc
	simErrs  map[string]error
	sendErrs map[string]error
	failMine map[string]bool
	bytecode map[common.Address][]byte

	logs     []gethtypes.Log
	latest   uint64
	maxRange uint64

	sent      []sdk.PreparedRequest
	receipts  map[common.Hash]*gethtypes.Receipt
	readCalls []string
	simCalls  []string
}

func NewFakePort() *FakePort {
	return &FakePort{
		reads:    map[string]ReadFunc{},
		simErrs:  map[string]error{},
		sendErrs: map[string]error{},
		failMine: map[string]bool{},
		bytecode: map[common.Address][]byte{},
		receipts: map[common.Hash]*gethtypes.Receipt{},
	}
}

// SetAccount connects a signing account.
func (f *FakePort) SetAccount(addr common.Address) *FakePort {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.account = &addr

	return f
}

// OnRead programs the answer to reads of method, on any address.
func (f *FakePort) OnRead(method string, fn ReadFunc) *FakePort {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads[method] = fn

	return f
}

// OnSimulate makes simulations of method fail with err.
func (f *FakePort) OnSimulate(method string, err error) *FakePort {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.simErrs[method] = err

	return f
}

// OnSend makes submissions of method fail with err.
func (f *FakePort) OnSend(method string, err error) *FakePort {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sendErrs[method] = err

	return f
}

// RevertOnMine makes transactions of method mine with a failed status.
func (f *FakePort) RevertOnMine(method string) *FakePort {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failMine[method] = true

	return f
}

func (f *FakePort) SetBytecode(addr common.Address, code []byte) *FakePort {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.bytecode[addr] = code

	return f
}

// AddLogs appends logs to the chain and advances the latest block.
func (f *FakePort) AddLogs(logs ...gethtypes.Log) *FakePort {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, l := range logs {
		f.logs = append(f.logs, l)
		f.latest = max(f.latest, l.BlockNumber)
	}

	return f
}

// SetLatest sets the latest block number.
func (f *FakePort) SetLatest(n uint64) *FakePort {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.latest = n

	return f
}

// LimitRange makes log queries wider than n blocks fail like a rate limited
// provider.
func (f *FakePort) LimitRange(n uint64) *FakePort {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.maxRange = n

	return f
}

// Sent returns the submitted requests in order.
func (f *FakePort) Sent() []sdk.PreparedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.sent)
}

// SentMethods returns the method names of the submitted requests.
func (f *FakePort) SentMethods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.sent))
	for _, r := range f.sent {
		out = append(out, r.Call.Method)
	}

	return out
}

// Simulated returns the method names passed to SimulateContract.
func (f *FakePort) Simulated() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.simCalls)
}

// Reads returns the method names passed to ReadContract.
func (f *FakePort) Reads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.readCalls)
}

func (f *FakePort) Account() (common.Address, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.account == nil {
		return common.Address{}, false
	}

	return *f.account, true
}

func (f *FakePort) ReadContract(ctx context.Context, call sdk.ContractCall) ([]any, error) {
	f.mu.Lock()
	f.readCalls = append(f.readCalls, call.Method)
	fn, ok := f.reads[call.Method]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := call.ABI.Pack(call.Method, call.Args...); err != nil {
		return nil, fmt.Errorf("fake port: %w", err)
	}
	if !ok {
		return nil, ErrOutOfBounds
	}

	values, err := fn(call.Args)
	if err != nil {
		return nil, err
	}

	return roundTrip(call, values)
}

func (f *FakePort) GetLogs(ctx context.Context, query ethereum.FilterQuery) ([]gethtypes.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	from := uint64(0)
	if query.FromBlock != nil {
		from = query.FromBlock.Uint64()
	}
	to := f.latest
	if query.ToBlock != nil {
		to = query.ToBlock.Uint64()
	}
	if f.maxRange > 0 && to >= from && to-from+1 > f.maxRange {
		return nil, &sdkerrors.RateLimitError{FromBlock: from, ToBlock: to, Err: errors.New("block range too large")}
	}

	var out []gethtypes.Log
	for _, l := range f.logs {
		if l.BlockNumber < from || l.BlockNumber > to {
			continue
		}
		if len(query.Addresses) > 0 && !slices.Contains(query.Addresses, l.Address) {
			continue
		}
		if len(query.Topics) > 0 && len(query.Topics[0]) > 0 {
			if len(l.Topics) == 0 || !slices.Contains(query.Topics[0], l.Topics[0]) {
				continue
			}
		}
		out = append(out, l)
	}

	return out, nil
}

func (f *FakePort) BlockNumber(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.latest, ctx.Err()
}

func (f *FakePort) SimulateContract(ctx context.Context, call sdk.ContractCall) (*sdk.PreparedRequest, error) {
	f.mu.Lock()
	f.simCalls = append(f.simCalls, call.Method)
	account := f.account
	simErr := f.simErrs[call.Method]
	fn, hasResult := f.reads[call.Method]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if account == nil {
		return nil, sdkerrors.NewConnectivityError(call.Method, sdkerrors.ErrNotConnected)
	}

	data, err := call.ABI.Pack(call.Method, call.Args...)
	if err != nil {
		return nil, fmt.Errorf("fake port: %w", err)
	}
	if simErr != nil {
		return nil, simErr
	}

	req := &sdk.PreparedRequest{Call: call, From: *account, Data: data, Gas: 100_000}
	if hasResult {
		values, err := fn(call.Args)
		if err != nil {
			return nil, err
		}
		if req.Result, err = roundTrip(call, values); err != nil {
			return nil, err
		}
	}

	return req, nil
}

func (f *FakePort) SendTransaction(ctx context.Context, req *sdk.PreparedRequest) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return common.Hash{}, err
	}
	if err := f.sendErrs[req.Call.Method]; err != nil {
		return common.Hash{}, err
	}

	hash := crypto.Keccak256Hash([]byte(fmt.Sprintf("%s/%d", req.Call.Method, len(f.sent))), req.Data)
	f.sent = append(f.sent, *req)

	status := gethtypes.ReceiptStatusSuccessful
	if f.failMine[req.Call.Method] {
		status = gethtypes.ReceiptStatusFailed
	}
	f.receipts[hash] = &gethtypes.Receipt{
		Status:      status,
		TxHash:      hash,
		BlockNumber: new(big.Int).SetUint64(f.latest + 1),
	}

	return hash, nil
}

func (f *FakePort) WaitForReceipt(ctx context.Context, hash common.Hash) (*gethtypes.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	receipt, ok := f.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}

	return receipt, nil
}

func (f *FakePort) GetBytecode(ctx context.Context, address common.Address) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.bytecode[address], ctx.Err()
}

func roundTrip(call sdk.ContractCall, values []any) ([]any, error) {
	method, ok := call.ABI.Methods[call.Method]
	if !ok {
		return nil, fmt.Errorf("fake port: method %s not in ABI", call.Method)
	}
	packed, err := method.Outputs.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("fake port: pack %s result: %w", call.Method, err)
	}

	return method.Outputs.Unpack(packed)
}
