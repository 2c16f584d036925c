// Package vesting reads the cap table of the vesting and mining contracts.
//
// Cap identifiers are enumerated with the collection walker. Wallet
// membership of a cap comes from getWalletsInCap, so a wallet whose detail
// row cannot be read is kept as a zero-valued placeholder.
package vesting

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/govkit/govsync/internal/metrics"
	"github.com/govkit/govsync/internal/utils/safecast"
	"github.com/govkit/govsync/sdk"
	"github.com/govkit/govsync/types"
	"github.com/govkit/govsync/walker"
)

const component = "vesting"

const (
	methodCapIDs     = "vestingCapIds"
	methodCaps       = "vestingCaps"
	methodCapWallets = "getWalletsInCap"
	methodWallets    = "vestingWallets"
	methodTGE        = "isTGEInitiated"
	methodTGETime    = "tgeTimestamp"
)

// Reader reads the cap table and TGE status of a vesting or mining contract.
type Reader struct {
	reader      sdk.ContractReader
	address     common.Address
	contractABI *abi.ABI
	maxCaps     uint64
	metrics     *metrics.Metrics
}

// Option configures a Reader.
type Option func(*Reader)

// WithMaxCaps bounds the number of cap identifiers probed.
func WithMaxCaps(n uint64) Option {
	return func(r *Reader) {
		r.maxCaps = n
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Reader) {
		r.metrics = m
	}
}

// New returns a Reader for the contract at address.
func New(reader sdk.ContractReader, address common.Address, contractABI *abi.ABI, opts ...Option) *Reader {
	r := &Reader{
		reader:      reader,
		address:     address,
		contractABI: contractABI,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// CapIDs enumerates vestingCapIds until the first failed read.
func (r *Reader) CapIDs(ctx context.Context) ([]*big.Int, error) {
	var opts []walker.Option
	if r.maxCaps > 0 {
		opts = append(opts, walker.WithLimit(r.maxCaps))
	}

	ids, _ := walker.Walk(ctx, func(ctx context.Context, index uint64) (*big.Int, error) {
		out, err := r.call(ctx, methodCapIDs, new(big.Int).SetUint64(index))
		if err != nil {
			return nil, err
		}
		id, ok := first[*big.Int](out)
		if !ok {
			return nil, fmt.Errorf("unexpected %s result %v", methodCapIDs, out)
		}

		return id, nil
	}, opts...)

	// The walk hides the error that ended it; only cancellation is fatal.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// Caps returns the cap table with the wallets of every cap. A cap whose
// record cannot be read is skipped; a cap whose wallet list cannot be read is
// returned without wallets.
func (r *Reader) Caps(ctx context.Context) ([]types.VestingCap, error) {
	ids, err := r.CapIDs(ctx)
	if err != nil {
		return nil, err
	}

	caps := make([]types.VestingCap, 0, len(ids))
	for _, id := range ids {
		c, err := r.Cap(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.skip(ctx, "cap "+id.String(), err)

			continue
		}

		wallets, err := r.CapWallets(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.skip(ctx, "wallets of cap "+id.String(), err)
		}
		c.Wallets = wallets
		caps = append(caps, c)
	}

	return caps, nil
}

// Cap reads a single cap record.
func (r *Reader) Cap(ctx context.Context, id *big.Int) (types.VestingCap, error) {
	out, err := r.call(ctx, methodCaps, id)
	if err != nil {
		return types.VestingCap{}, err
	}
	fields, err := r.named(methodCaps, out)
	if err != nil {
		return types.VestingCap{}, err
	}

	return types.VestingCap{
		CapID:              id,
		Name:               bytes32String(fields["name"]),
		TotalAllocation:    bigField(fields, "totalAllocation"),
		Cliff:              bigField(fields, "cliff"),
		VestingTerm:        bigField(fields, "vestingTerm"),
		VestingPlan:        bigField(fields, "vestingPlan"),
		InitialRelease:     bigField(fields, "initialRelease"),
		StartDate:          bigField(fields, "startDate"),
		AllocatedToWallets: bigField(fields, "allocatedToWallets"),
		MaxRewardsPerMonth: optionalBig(fields, "maxRewardsPerMonth"),
		Ratio:              optionalBig(fields, "ratio"),
		Wallets:            []types.VestingWalletInfo{},
	}, nil
}

// CapWallets returns one record per wallet of the cap, in the order reported
// by getWalletsInCap.
func (r *Reader) CapWallets(ctx context.Context, capID *big.Int) ([]types.VestingWalletInfo, error) {
	out, err := r.call(ctx, methodCapWallets, capID)
	if err != nil {
		return []types.VestingWalletInfo{}, err
	}
	wallets, ok := first[[]common.Address](out)
	if !ok {
		return []types.VestingWalletInfo{}, fmt.Errorf("unexpected %s result %v", methodCapWallets, out)
	}

	infos, _ := walker.MapTolerant(ctx, wallets,
		func(ctx context.Context, wallet common.Address) (types.VestingWalletInfo, error) {
			return r.Wallet(ctx, wallet, capID)
		},
		func(wallet common.Address, err error) types.VestingWalletInfo {
			r.skip(ctx, fmt.Sprintf("wallet %s in cap %s", wallet.Hex(), capID), err)

			return types.PlaceholderWallet(capID, wallet)
		},
	)

	return infos, nil
}

// Wallet reads the allocation of wallet in capID.
func (r *Reader) Wallet(ctx context.Context, wallet common.Address, capID *big.Int) (types.VestingWalletInfo, error) {
	out, err := r.call(ctx, methodWallets, wallet, capID)
	if err != nil {
		return types.VestingWalletInfo{}, err
	}
	fields, err := r.named(methodWallets, out)
	if err != nil {
		return types.VestingWalletInfo{}, err
	}

	info := types.VestingWalletInfo{
		CapID:                 capID,
		Address:               wallet,
		Name:                  bytes32String(fields["name"]),
		Amount:                bigField(fields, "amount"),
		Claimed:               bigField(fields, "claimed"),
		MonthlyClaimedRewards: optionalBig(fields, "monthlyClaimedRewards"),
		LastClaimMonth:        optionalBig(fields, "lastClaimMonth"),
	}
	if id, ok := fields["capId"].(*big.Int); ok && id.Sign() != 0 {
		info.CapID = id
	}

	return info, nil
}

// TGE reports whether the token generation event has been initiated.
func (r *Reader) TGE(ctx context.Context) (*types.TGEStatus, error) {
	out, err := r.call(ctx, methodTGE)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", methodTGE, err)
	}
	initiated, ok := first[bool](out)
	if !ok {
		return nil, fmt.Errorf("unexpected %s result %v", methodTGE, out)
	}

	status := &types.TGEStatus{Initiated: initiated}
	if !initiated {
		return status, nil
	}

	out, err = r.call(ctx, methodTGETime)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", methodTGETime, err)
	}
	ts, ok := first[*big.Int](out)
	if !ok {
		return nil, fmt.Errorf("unexpected %s result %v", methodTGETime, out)
	}
	if status.Timestamp, err = safecast.BigToUint64(ts); err != nil {
		return nil, fmt.Errorf("%s: %w", methodTGETime, err)
	}

	return status, nil
}

func (r *Reader) skip(ctx context.Context, unit string, err error) {
	r.metrics.PartialRead(component)
	sdk.SkipUnit(ctx, component, unit, err)
}

func (r *Reader) call(ctx context.Context, method string, args ...any) ([]any, error) {
	return r.reader.ReadContract(ctx, sdk.ContractCall{
		Address: r.address,
		ABI:     r.contractABI,
		Method:  method,
		Args:    args,
	})
}

// named keys the positional results of method by output name, so that the
// vesting and mining layouts share one decoder.
func (r *Reader) named(method string, out []any) (map[string]any, error) {
	m, ok := r.contractABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("method %s not in ABI", method)
	}
	if len(out) != len(m.Outputs) {
		return nil, fmt.Errorf("%s returned %d values, want %d", method, len(out), len(m.Outputs))
	}

	fields := make(map[string]any, len(out))
	for i, arg := range m.Outputs {
		fields[arg.Name] = out[i]
	}

	return fields, nil
}

func first[T any](out []any) (T, bool) {
	var zero T
	if len(out) == 0 {
		return zero, false
	}
	v, ok := out[0].(T)

	return v, ok
}

func bigField(fields map[string]any, name string) *big.Int {
	if v, ok := fields[name].(*big.Int); ok && v != nil {
		return v
	}

	return new(big.Int)
}

func optionalBig(fields map[string]any, name string) *big.Int {
	if v, ok := fields[name].(*big.Int); ok {
		return v
	}

	return nil
}

func bytes32String(v any) string {
	switch b := v.(type) {
	case [32]byte:
		return string(bytes.TrimRight(b[:], "\x00"))
	case string:
		return b
	default:
		return ""
	}
}

// EncodeName packs a cap name into the bytes32 stored on-chain.
func EncodeName(name string) ([32]byte, error) {
	var out [32]byte
	if len(name) > len(out) {
		return out, fmt.Errorf("name %q longer than 32 bytes", name)
	}
	copy(out[:], name)

	return out, nil
}
