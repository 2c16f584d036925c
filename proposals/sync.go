// Package proposals reads the proposal registry of a governance contract and
// evaluates the executability of each proposal.
package proposals

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/govkit/govsync/internal/metrics"
	"github.com/govkit/govsync/internal/utils/safecast"
	"github.com/govkit/govsync/sdk"
	"github.com/govkit/govsync/types"
	"github.com/govkit/govsync/walker"
)

const (
	component = "proposals"

	// proposalFields is the arity of the proposals(bytes32) tuple.
	proposalFields = 10
)

// Syncer reads the proposal registry of a governance contract.
type Syncer struct {
	reader      sdk.ContractReader
	address     common.Address
	contractABI *abi.ABI
	metrics     *metrics.Metrics
}

// Option configures a Syncer.
type Option func(*Syncer)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Syncer) {
		s.metrics = m
	}
}

// New returns a Syncer for the contract at address.
func New(reader sdk.ContractReader, address common.Address, contractABI *abi.ABI, opts ...Option) *Syncer {
	s := &Syncer{
		reader:      reader,
		address:     address,
		contractABI: contractABI,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Sync returns every readable proposal in registry order. An index whose
// identifier or tuple cannot be read or decoded is logged and skipped.
//
// The registry length comes from proposalCount. Contracts without that
// accessor are enumerated by probing proposalRegistry until the first
// failed read.
func (s *Syncer) Sync(ctx context.Context) ([]types.Proposal, error) {
	ids, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.Proposal, 0, len(ids))
	for i, id := range ids {
		if id == nil {
			continue
		}
		p, err := s.Read(ctx, *id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.skip(ctx, fmt.Sprintf("proposal %d (%s)", i, id.Hex()), err)

			continue
		}
		out = append(out, p)
	}

	return out, nil
}

// registry returns the registry identifiers. Entries whose slot could not be
// read are nil.
func (s *Syncer) registry(ctx context.Context) ([]*common.Hash, error) {
	count, countErr := s.count(ctx)
	if countErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		sdk.LoggerFrom(ctx).Debugf("proposalCount unavailable, probing registry: %v", countErr)

		found, _ := walker.Walk(ctx, func(ctx context.Context, index uint64) (*common.Hash, error) {
			id, err := s.registryID(ctx, index)
			if err != nil {
				return nil, err
			}

			return &id, nil
		})
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return found, nil
	}

	ids := make([]*common.Hash, 0, count)
	for i := range count {
		id, err := s.registryID(ctx, i)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.skip(ctx, fmt.Sprintf("registry index %d", i), err)
			ids = append(ids, nil)

			continue
		}
		ids = append(ids, &id)
	}

	return ids, nil
}

func (s *Syncer) skip(ctx context.Context, unit string, err error) {
	s.metrics.PartialRead(component)
	sdk.SkipUnit(ctx, component, unit, err)
}

func (s *Syncer) count(ctx context.Context) (uint64, error) {
	out, err := s.call(ctx, "proposalCount")
	if err != nil {
		return 0, err
	}
	n, err := bigAt(out, 0)
	if err != nil {
		return 0, err
	}

	return safecast.BigToUint64(n)
}

func (s *Syncer) registryID(ctx context.Context, index uint64) (common.Hash, error) {
	out, err := s.call(ctx, "proposalRegistry", new(big.Int).SetUint64(index))
	if err != nil {
		return common.Hash{}, err
	}
	if len(out) != 1 {
		return common.Hash{}, fmt.Errorf("proposalRegistry returned %d values, want 1", len(out))
	}
	id, ok := out[0].([32]byte)
	if !ok {
		return common.Hash{}, fmt.Errorf("unexpected proposal id type %T", out[0])
	}

	return id, nil
}

// Read returns a single proposal by identifier.
func (s *Syncer) Read(ctx context.Context, id common.Hash) (types.Proposal, error) {
	out, err := s.call(ctx, "proposals", [32]byte(id))
	if err != nil {
		return types.Proposal{}, err
	}

	return Decode(id, out)
}

func (s *Syncer) call(ctx context.Context, method string, args ...any) ([]any, error) {
	return s.reader.ReadContract(ctx, sdk.ContractCall{
		Address: s.address,
		ABI:     s.contractABI,
		Method:  method,
		Args:    args,
	})
}

// Decode maps the positional proposals(bytes32) tuple onto a Proposal. An
// all-zero tuple, which the contract returns for unknown identifiers, is an
// error.
func Decode(id common.Hash, out []any) (types.Proposal, error) {
	if len(out) != proposalFields {
		return types.Proposal{}, fmt.Errorf("proposal tuple has %d fields, want %d", len(out), proposalFields)
	}

	var (
		p   = types.Proposal{ProposalID: id}
		ok  bool
		err error
	)

	kind, ok := out[0].(uint8)
	if !ok {
		return types.Proposal{}, fmt.Errorf("field proposalType: unexpected type %T", out[0])
	}
	p.ProposalType = types.ProposalType(kind)

	if p.Target, ok = out[1].(common.Address); !ok {
		return types.Proposal{}, fmt.Errorf("field target: unexpected type %T", out[1])
	}
	if p.NumericID, err = bigAt(out, 2); err != nil {
		return types.Proposal{}, fmt.Errorf("field id: %w", err)
	}
	role, ok := out[3].([32]byte)
	if !ok {
		return types.Proposal{}, fmt.Errorf("field role: unexpected type %T", out[3])
	}
	p.Role = role
	if p.TokenAddress, ok = out[4].(common.Address); !ok {
		return types.Proposal{}, fmt.Errorf("field tokenAddress: unexpected type %T", out[4])
	}
	if p.Amount, err = bigAt(out, 5); err != nil {
		return types.Proposal{}, fmt.Errorf("field amount: %w", err)
	}
	executed, ok := out[6].(bool)
	if !ok {
		return types.Proposal{}, fmt.Errorf("field executed: unexpected type %T", out[6])
	}
	if executed {
		p.Status = types.ProposalStatusExecuted
	}

	approvals, err := bigAt(out, 7)
	if err != nil {
		return types.Proposal{}, fmt.Errorf("field approvals: %w", err)
	}
	if p.Approvals, err = safecast.BigToUint64(approvals); err != nil {
		return types.Proposal{}, fmt.Errorf("field approvals: %w", err)
	}
	if p.ExpiryTime, err = unixAt(out, 8); err != nil {
		return types.Proposal{}, fmt.Errorf("field expiryTime: %w", err)
	}
	if p.ExecutionTime, err = unixAt(out, 9); err != nil {
		return types.Proposal{}, fmt.Errorf("field executionTime: %w", err)
	}

	if kind == 0 && p.ExpiryTime.Unix() == 0 {
		return types.Proposal{}, fmt.Errorf("proposal %s does not exist", id.Hex())
	}

	return p, nil
}

func bigAt(out []any, i int) (*big.Int, error) {
	if i >= len(out) {
		return nil, fmt.Errorf("missing value %d", i)
	}
	v, ok := out[i].(*big.Int)
	if !ok || v == nil {
		return nil, fmt.Errorf("unexpected type %T", out[i])
	}

	return v, nil
}

func unixAt(out []any, i int) (time.Time, error) {
	v, err := bigAt(out, i)
	if err != nil {
		return time.Time{}, err
	}
	sec, err := safecast.BigToInt64(v)
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(sec, 0).UTC(), nil
}
