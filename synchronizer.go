// Package govsync reconstructs the governance state of one contract from
// contract reads and event logs, and publishes it as an immutable snapshot.
package govsync

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"

	"github.com/govkit/govsync/dispatch"
	"github.com/govkit/govsync/history"
	"github.com/govkit/govsync/internal/metrics"
	"github.com/govkit/govsync/logfetch"
	"github.com/govkit/govsync/membership"
	"github.com/govkit/govsync/proposals"
	"github.com/govkit/govsync/rolecfg"
	"github.com/govkit/govsync/roles"
	"github.com/govkit/govsync/sdk"
	"github.com/govkit/govsync/types"
	"github.com/govkit/govsync/vesting"
)

const component = "govsync"

// Event names of the reconstructed sets.
const (
	eventWhitelist = "WhitelistOp"
	eventBlacklist = "BlacklistOp"
	eventSubstrate = "SubstrateAddressOp"
)

// TargetConfig locates the governance contract of a target.
type TargetConfig struct {
	Target  types.Target
	Address common.Address
	ABI     *abi.ABI
	// FromBlock is the first block scanned for events.
	FromBlock uint64
	// ApproverRole is the role whose quorum decides executability. It
	// defaults to ADMIN_ROLE.
	ApproverRole common.Hash
}

// DefaultResyncTimeout bounds the wait for a receipt and the pass that follow
// a dispatched write.
const DefaultResyncTimeout = 5 * time.Minute

// Synchronizer runs synchronization passes for one target and publishes
// their snapshots.
type Synchronizer struct {
	port    sdk.AccessPort
	chainID uint64
	target  TargetConfig
	metrics *metrics.Metrics
	now     func() time.Time

	resyncTimeout time.Duration

	fetcher   *logfetch.Fetcher
	roleCache *rolecfg.Cache
	proposals *proposals.Syncer
	vesting   *vesting.Reader
	history   *history.Reader

	// mu serializes passes. gen is bumped by every Refresh call before it
	// waits for mu, so a pass can tell it has been superseded.
	mu       sync.Mutex
	gen      atomic.Uint64
	snapshot atomic.Pointer[types.Snapshot]

	// Resyncs started after dispatched writes. life is cancelled by Close.
	bgMu     sync.Mutex
	bg       sync.WaitGroup
	life     context.Context
	shutdown context.CancelFunc
}

// Option configures a Synchronizer.
type Option func(*options)

type options struct {
	metrics       *metrics.Metrics
	fetchOpts     []logfetch.Option
	maxCaps       uint64
	now           func() time.Time
	resyncTimeout time.Duration
}

// WithMetrics records pass and component metrics into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithLogFetchOptions configures the chunked log fetcher.
func WithLogFetchOptions(opts ...logfetch.Option) Option {
	return func(o *options) {
		o.fetchOpts = append(o.fetchOpts, opts...)
	}
}

// WithMaxCaps bounds the vesting cap enumeration.
func WithMaxCaps(n uint64) Option {
	return func(o *options) {
		o.maxCaps = n
	}
}

// WithResyncTimeout bounds the resync that follows a dispatched write.
func WithResyncTimeout(d time.Duration) Option {
	return func(o *options) {
		o.resyncTimeout = d
	}
}

// WithClock replaces time.Now for snapshot timestamps and evaluation.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New wires the component readers of target.
func New(port sdk.AccessPort, chainID uint64, target TargetConfig, opts ...Option) (*Synchronizer, error) {
	if target.ABI == nil {
		return nil, fmt.Errorf("target %s has no ABI", target.Target)
	}
	if target.ApproverRole == (common.Hash{}) {
		admin, err := roles.Hash(roles.AdminRole)
		if err != nil {
			return nil, err
		}
		target.ApproverRole = admin
	}

	o := options{now: time.Now, resyncTimeout: DefaultResyncTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	fetcher := logfetch.New(port, append([]logfetch.Option{logfetch.WithMetrics(o.metrics)}, o.fetchOpts...)...)
	vestingOpts := []vesting.Option{vesting.WithMetrics(o.metrics)}
	if o.maxCaps > 0 {
		vestingOpts = append(vestingOpts, vesting.WithMaxCaps(o.maxCaps))
	}

	life, shutdown := context.WithCancel(context.Background())

	return &Synchronizer{
		port:          port,
		chainID:       chainID,
		target:        target,
		metrics:       o.metrics,
		now:           o.now,
		resyncTimeout: o.resyncTimeout,
		life:          life,
		shutdown:      shutdown,
		fetcher:       fetcher,
		roleCache: rolecfg.New(port, fetcher, target.Address, target.ABI,
			rolecfg.WithFromBlock(target.FromBlock), rolecfg.WithMetrics(o.metrics)),
		proposals: proposals.New(port, target.Address, target.ABI, proposals.WithMetrics(o.metrics)),
		vesting:   vesting.New(port, target.Address, target.ABI, vestingOpts...),
		history: history.New(fetcher, target.Address, target.ABI, chainID,
			history.WithFromBlock(target.FromBlock)),
	}, nil
}

// Snapshot returns the last published snapshot, or nil before the first
// successful pass. The value must not be modified.
func (s *Synchronizer) Snapshot() *types.Snapshot {
	return s.snapshot.Load()
}

// RoleConfigs is the role configuration cache refreshed by every pass.
func (s *Synchronizer) RoleConfigs() *rolecfg.Cache {
	return s.roleCache
}

// Views evaluates the proposals of the last snapshot at now.
func (s *Synchronizer) Views(now time.Time) []types.ProposalView {
	snap := s.Snapshot()
	if snap == nil {
		return nil
	}

	return proposals.Evaluate(snap.Proposals, now, s.roleCache, s.target.ApproverRole)
}

// Refresh runs a synchronization pass and publishes its snapshot. Passes
// never interleave; a pass that finishes after a newer Refresh call was made
// discards its result and returns ErrSuperseded.
func (s *Synchronizer) Refresh(ctx context.Context) (*types.Snapshot, error) {
	return s.refresh(ctx, false)
}

// refresh runs a pass. With keepRoleConfigs the role configuration section
// reuses the cache instead of rebuilding it.
func (s *Synchronizer) refresh(ctx context.Context, keepRoleConfigs bool) (*types.Snapshot, error) {
	gen := s.gen.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen.Load() != gen {
		return nil, ErrSuperseded
	}

	start := s.now()
	passID := uuid.NewString()
	lggr := sdk.LoggerFrom(ctx)
	lggr.Infof("sync %s pass %s started", s.target.Target, passID)

	snap, err := s.pass(ctx, passID, keepRoleConfigs)
	s.metrics.SyncPass(string(s.target.Target), s.now().Sub(start), err == nil)
	if err != nil {
		lggr.Errorf("sync %s pass %s failed: %v", s.target.Target, passID, err)

		return nil, newSyncError(s.target.Target, passID, err)
	}

	if s.gen.Load() != gen {
		lggr.Infof("sync %s pass %s superseded", s.target.Target, passID)

		return nil, ErrSuperseded
	}
	s.snapshot.Store(snap)
	lggr.Infof("sync %s pass %s done at block %d: %d proposals, %d partial failures",
		s.target.Target, passID, snap.BlockNumber, len(snap.Proposals), snap.PartialFailures)

	return snap, nil
}

func (s *Synchronizer) pass(ctx context.Context, passID string, keepRoleConfigs bool) (*types.Snapshot, error) {
	tally := &sdk.PartialReads{}
	ctx = sdk.WithPartialReads(ctx, tally)

	block, err := s.port.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read block number: %w", err)
	}

	snap := &types.Snapshot{
		PassID:      passID,
		Target:      s.target.Target,
		Address:     s.target.Address,
		BlockNumber: block,
		SyncedAt:    s.now().UTC(),
		Proposals:   []types.Proposal{},
		RoleConfigs: map[common.Hash]types.RoleConfig{},
	}

	// A failing section is recorded and left empty; only cancellation
	// aborts the pass.
	section := func(name string, fn func() error) error {
		if err := fn(); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.metrics.PartialRead(component)
			sdk.SkipUnit(ctx, component, name, err)
		}

		return nil
	}

	sections := []struct {
		name    string
		enabled bool
		fn      func() error
	}{
		{"role configurations", true, func() error {
			if keepRoleConfigs {
				snap.RoleConfigs = s.roleCache.Configs()

				return nil
			}
			configs, err := s.roleCache.RefreshAt(ctx, block)
			if err == nil {
				snap.RoleConfigs = configs
			}

			return err
		}},
		{"proposals", true, func() error {
			ps, err := s.proposals.Sync(ctx)
			if err == nil {
				snap.Proposals = ps
			}

			return err
		}},
		{"vesting caps", s.target.Target.HasVestingCaps(), func() error {
			caps, err := s.vesting.Caps(ctx)
			if err == nil {
				snap.VestingCapTable = caps
			}

			return err
		}},
		{"tge status", s.target.Target.HasVestingCaps(), func() error {
			tge, err := s.vesting.TGE(ctx)
			if err == nil {
				snap.TGEStatus = tge
			}

			return err
		}},
		{"whitelist", s.target.Target.HasAddressSets(), func() error {
			set, err := s.addressSet(ctx, eventWhitelist, block)
			if err == nil {
				snap.WhitelistedAddresses = set
			}

			return err
		}},
		{"blacklist", s.target.Target.HasAddressSets(), func() error {
			set, err := s.addressSet(ctx, eventBlacklist, block)
			if err == nil {
				snap.BlacklistedAddresses = set
			}

			return err
		}},
		{"substrate mappings", s.target.Target.HasSubstrateMappings(), func() error {
			mappings, err := s.substrateMappings(ctx, block)
			if err == nil {
				snap.SubstrateMappings = mappings
			}

			return err
		}},
		{"bridge operations", s.target.Target.HasBridgeHistory(), func() error {
			ops, err := s.history.BridgeOperations(ctx, &block)
			if err == nil {
				snap.BridgeOpEvents = ops
			}

			return err
		}},
		{"nonces", s.target.Target.HasBridgeHistory(), func() error {
			nonces, err := s.history.Nonces(ctx, &block)
			if err == nil {
				snap.NonceEvents = nonces
			}

			return err
		}},
	}

	for _, sec := range sections {
		if !sec.enabled {
			continue
		}
		if err := section(sec.name, sec.fn); err != nil {
			return nil, err
		}
	}
	snap.PartialFailures = tally.Len()

	return snap, nil
}

func (s *Synchronizer) addressSet(ctx context.Context, name string, toBlock uint64) ([]types.AddressSetEntry, error) {
	event, ok := s.target.ABI.Events[name]
	if !ok {
		return nil, fmt.Errorf("event %s not in ABI", name)
	}
	logs, err := s.fetcher.FetchLogs(ctx, s.target.Address, event, s.target.FromBlock, &toBlock)
	if err != nil {
		return nil, err
	}
	events, err := membership.AddressOpEvents(event, logs)
	if err != nil {
		return nil, err
	}

	return membership.AddressSet(membership.Reconstruct(events)), nil
}

func (s *Synchronizer) substrateMappings(ctx context.Context, toBlock uint64) ([]types.SubstrateMapping, error) {
	event, ok := s.target.ABI.Events[eventSubstrate]
	if !ok {
		return nil, fmt.Errorf("event %s not in ABI", eventSubstrate)
	}
	logs, err := s.fetcher.FetchLogs(ctx, s.target.Address, event, s.target.FromBlock, &toBlock)
	if err != nil {
		return nil, err
	}
	events, err := membership.SubstrateOpEvents(event, logs)
	if err != nil {
		return nil, err
	}

	return membership.SubstrateMappings(membership.Reconstruct(events)), nil
}

// Dispatcher returns a dispatcher for the target whose role configuration
// writes refresh this synchronizer's cache. Every successful submission
// starts a background pass that runs once the transaction is mined; actions
// return without waiting for it.
func (s *Synchronizer) Dispatcher(opts ...dispatch.Option) *dispatch.Dispatcher {
	base := []dispatch.Option{
		dispatch.WithRoleConfigs(s.roleCache),
		dispatch.WithMetrics(s.metrics),
		dispatch.WithAfterWrite(s.afterWrite),
	}

	return dispatch.New(s.port, s.target.Target, s.target.Address, s.target.ABI, append(base, opts...)...)
}

func (s *Synchronizer) afterWrite(ctx context.Context, ev dispatch.WriteEvent) {
	s.bgMu.Lock()
	defer s.bgMu.Unlock()

	if s.life.Err() != nil {
		sdk.LoggerFrom(ctx).Debugf("synchronizer closed, no resync after %s", ev.Result.Action)
		return
	}

	// Detached from the caller; bounded by resyncTimeout and cancelled by Close.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.resyncTimeout)
	stop := context.AfterFunc(s.life, cancel)

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		defer stop()
		defer cancel()

		s.resync(rctx, ev)
	}()
}

func (s *Synchronizer) resync(ctx context.Context, ev dispatch.WriteEvent) {
	lggr := sdk.LoggerFrom(ctx)
	res := ev.Result

	receipt := ev.Receipt
	if receipt == nil {
		var err error
		receipt, err = s.port.WaitForReceipt(ctx, res.Hash)
		if err != nil {
			lggr.Warnf("%s %s: receipt unavailable, skipping resync: %v", res.Action, res.Hash.Hex(), err)
			return
		}
	}
	if receipt.Status == gethtypes.ReceiptStatusFailed {
		lggr.Warnf("%s %s reverted on chain", res.Action, res.Hash.Hex())
	}

	if _, err := s.refresh(ctx, ev.RoleConfigsRefreshed); err != nil {
		lggr.Warnf("resync after %s failed: %v", res.Action, err)
	}
}

// Close cancels the resyncs started by dispatched writes and waits for them
// to return. Later writes no longer trigger a resync.
func (s *Synchronizer) Close() {
	s.bgMu.Lock()
	s.shutdown()
	s.bgMu.Unlock()

	s.bg.Wait()
}

// Watch refreshes every interval until ctx is done. Failed passes are logged
// and retried on the next tick.
func (s *Synchronizer) Watch(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
			sdk.LoggerFrom(ctx).Warnf("refresh failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
