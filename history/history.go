// Package history projects bridge and nonce events of the token contract
// into snapshot records.
package history

import (
	"cmp"
	"context"
	"fmt"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/govkit/govsync/logfetch"
	"github.com/govkit/govsync/membership"
	"github.com/govkit/govsync/sdk"
	"github.com/govkit/govsync/types"
)

const (
	component = "history"

	EventBridgeOp = "BridgeOp"
	EventNonce    = "NonceUsed"
)

// Reader projects the bridge and nonce events of a token contract.
type Reader struct {
	fetcher     *logfetch.Fetcher
	address     common.Address
	contractABI *abi.ABI
	chainID     uint64
	fromBlock   uint64
}

// Option configures a Reader.
type Option func(*Reader)

// WithFromBlock sets the first block scanned for events.
func WithFromBlock(n uint64) Option {
	return func(r *Reader) {
		r.fromBlock = n
	}
}

// New returns a Reader for the contract at address on chainID.
func New(fetcher *logfetch.Fetcher, address common.Address, contractABI *abi.ABI, chainID uint64, opts ...Option) *Reader {
	r := &Reader{
		fetcher:     fetcher,
		address:     address,
		contractABI: contractABI,
		chainID:     chainID,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// BridgeOperations returns every BridgeOp event up to toBlock, oldest first.
func (r *Reader) BridgeOperations(ctx context.Context, toBlock *uint64) ([]types.BridgeOperationRecord, error) {
	event, logs, err := r.fetch(ctx, EventBridgeOp, toBlock)
	if err != nil {
		return nil, err
	}

	return BridgeOperations(ctx, r.chainID, event, logs), nil
}

// Nonces returns every NonceUsed event up to toBlock, oldest first.
func (r *Reader) Nonces(ctx context.Context, toBlock *uint64) ([]types.NonceRecord, error) {
	event, logs, err := r.fetch(ctx, EventNonce, toBlock)
	if err != nil {
		return nil, err
	}

	return Nonces(ctx, r.chainID, event, logs), nil
}

func (r *Reader) fetch(ctx context.Context, name string, toBlock *uint64) (abi.Event, []gethtypes.Log, error) {
	event, ok := r.contractABI.Events[name]
	if !ok {
		return abi.Event{}, nil, fmt.Errorf("event %s not in ABI", name)
	}
	logs, err := r.fetcher.FetchLogs(ctx, r.address, event, r.fromBlock, toBlock)
	if err != nil {
		return abi.Event{}, nil, err
	}

	return event, logs, nil
}

// BridgeOperations decodes BridgeOp logs. Logs that do not decode are logged
// and skipped.
func BridgeOperations(ctx context.Context, chainID uint64, event abi.Event, logs []gethtypes.Log) []types.BridgeOperationRecord {
	out := make([]types.BridgeOperationRecord, 0, len(logs))
	for _, log := range logs {
		fields, err := membership.DecodeLog(event, log)
		if err != nil {
			sdk.SkipUnit(ctx, component, unit(event, log), err)
			continue
		}

		rec := types.BridgeOperationRecord{
			EventKey: key(chainID, log),
			TxHash:   log.TxHash,
			Amount:   new(big.Int),
			Nonce:    new(big.Int),
		}
		rec.Operator, _ = fields["operator"].(common.Address)
		rec.User, _ = fields["user"].(common.Address)
		rec.Operation, _ = fields["operation"].(uint8)
		if v, ok := fields["amount"].(*big.Int); ok {
			rec.Amount = v
		}
		if v, ok := fields["nonce"].(*big.Int); ok {
			rec.Nonce = v
		}
		out = append(out, rec)
	}
	sortByKey(out, func(r types.BridgeOperationRecord) types.EventKey { return r.EventKey })

	return out
}

// Nonces decodes NonceUsed logs. Logs that do not decode are logged and
// skipped.
func Nonces(ctx context.Context, chainID uint64, event abi.Event, logs []gethtypes.Log) []types.NonceRecord {
	out := make([]types.NonceRecord, 0, len(logs))
	for _, log := range logs {
		fields, err := membership.DecodeLog(event, log)
		if err != nil {
			sdk.SkipUnit(ctx, component, unit(event, log), err)
			continue
		}

		rec := types.NonceRecord{
			EventKey: key(chainID, log),
			TxHash:   log.TxHash,
			Nonce:    new(big.Int),
		}
		rec.Operator, _ = fields["operator"].(common.Address)
		if v, ok := fields["nonce"].(*big.Int); ok {
			rec.Nonce = v
		}
		out = append(out, rec)
	}
	sortByKey(out, func(r types.NonceRecord) types.EventKey { return r.EventKey })

	return out
}

func key(chainID uint64, log gethtypes.Log) types.EventKey {
	return types.EventKey{ChainID: chainID, BlockNumber: log.BlockNumber, LogIndex: log.Index}
}

func unit(event abi.Event, log gethtypes.Log) string {
	return fmt.Sprintf("%s log %d/%d", event.Name, log.BlockNumber, log.Index)
}

func sortByKey[T any](records []T, keyOf func(T) types.EventKey) {
	slices.SortStableFunc(records, func(a, b T) int {
		ka, kb := keyOf(a), keyOf(b)
		if c := cmp.Compare(ka.BlockNumber, kb.BlockNumber); c != 0 {
			return c
		}

		return cmp.Compare(ka.LogIndex, kb.LogIndex)
	})
}
