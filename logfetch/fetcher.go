// Package logfetch retrieves contract event logs over block ranges that
// providers may refuse to serve in a single query.
package logfetch

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/govkit/govsync/internal/metrics"
	"github.com/govkit/govsync/sdk"
	sdkerrors "github.com/govkit/govsync/sdk/errors"
)

const (
	// DefaultChunkSize is the number of blocks covered by one chunk,
	// inclusive of both ends.
	DefaultChunkSize uint64 = 9
	// DefaultChunkDelay is the pause between consecutive chunk queries.
	DefaultChunkDelay = 100 * time.Millisecond
)

// Fetcher retrieves event logs, falling back to small block windows when the
// provider rejects a wide range.
type Fetcher struct {
	port       sdk.LogReader
	chunkSize  uint64
	chunkDelay time.Duration
	metrics    *metrics.Metrics
}

// Option configures a Fetcher.
type Option func(*Fetcher)

func WithChunkSize(size uint64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.chunkSize = size
		}
	}
}

func WithChunkDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		if d >= 0 {
			f.chunkDelay = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// New returns a fetcher over port.
func New(port sdk.LogReader, opts ...Option) *Fetcher {
	f := &Fetcher{
		port:       port,
		chunkSize:  DefaultChunkSize,
		chunkDelay: DefaultChunkDelay,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// FetchLogs returns the logs of event emitted by address from fromBlock up to
// toBlock, or up to the latest block when toBlock is nil.
//
// The full range is attempted first. If the provider rejects it as too large
// the range is walked in ascending chunks. A failed chunk is logged and
// skipped, so the result may be incomplete; callers that need completeness
// must compare against an independent source.
func (f *Fetcher) FetchLogs(
	ctx context.Context, address common.Address, event abi.Event, fromBlock uint64, toBlock *uint64,
) ([]gethtypes.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		Addresses: []common.Address{address},
		Topics:    [][]common.Hash{{event.ID}},
	}
	if toBlock != nil {
		query.ToBlock = new(big.Int).SetUint64(*toBlock)
	}

	logs, err := f.port.GetLogs(ctx, query)
	if err == nil {
		return logs, nil
	}
	if !sdkerrors.IsBlockRangeError(err) {
		return nil, fmt.Errorf("failed to fetch %s logs: %w", event.Name, err)
	}

	f.metrics.RangeFallback()

	end, err := f.resolveEnd(ctx, toBlock)
	if err != nil {
		return nil, err
	}

	return f.fetchChunked(ctx, query, fromBlock, end, event.Name)
}

func (f *Fetcher) resolveEnd(ctx context.Context, toBlock *uint64) (uint64, error) {
	if toBlock != nil {
		return *toBlock, nil
	}

	latest, err := f.port.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve latest block: %w", err)
	}

	return latest, nil
}

func (f *Fetcher) fetchChunked(
	ctx context.Context, base ethereum.FilterQuery, fromBlock, toBlock uint64, eventName string,
) ([]gethtypes.Log, error) {
	var logs []gethtypes.Log
	for start := fromBlock; start <= toBlock; {
		end := min(start+f.chunkSize-1, toBlock)

		query := base
		query.FromBlock = new(big.Int).SetUint64(start)
		query.ToBlock = new(big.Int).SetUint64(end)

		chunk, err := f.port.GetLogs(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.metrics.LogChunk(false)
			sdk.SkipUnit(ctx, "logfetch", fmt.Sprintf("%s logs for blocks %d-%d", eventName, start, end), err)
		} else {
			f.metrics.LogChunk(true)
			logs = append(logs, chunk...)
		}

		if end == toBlock {
			break
		}
		start = end + 1

		if err := sleep(ctx, f.chunkDelay); err != nil {
			return nil, err
		}
	}

	return logs, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
