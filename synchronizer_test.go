package govsync_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govkit/govsync"
	"github.com/govkit/govsync/internal/metrics"
	"github.com/govkit/govsync/internal/testutils/chaintest"
	"github.com/govkit/govsync/logfetch"
	"github.com/govkit/govsync/roles"
	"github.com/govkit/govsync/sdk"
	"github.com/govkit/govsync/sdk/evm/bindings"
	"github.com/govkit/govsync/types"
)

var (
	alice = common.HexToAddress("0xa11ce")
	bob   = common.HexToAddress("0xb0b")
)

var fixedNow = time.Unix(1_700_000_000, 0)

func targetABI(t *testing.T, target types.Target) *abi.ABI {
	t.Helper()

	parsed, err := bindings.ABIFor(target)
	require.NoError(t, err)

	return parsed
}

func mustRole(t *testing.T, name string) common.Hash {
	t.Helper()

	h, err := roles.Hash(name)
	require.NoError(t, err)

	return h
}

// tokenPort programs a token contract with two proposals, one of which
// cannot be read, an admin quorum of 3 and a whitelist history.
func tokenPort(t *testing.T, parsed *abi.ABI) *chaintest.FakePort {
	t.Helper()

	admin := mustRole(t, roles.AdminRole)
	ids := [][32]byte{{0x01}, {0x02}}
	whitelist := parsed.Events["WhitelistOp"]
	quorum := parsed.Events["QuorumUpdated"]
	bridge := parsed.Events["BridgeOp"]
	opTopics := func(target common.Address) []common.Hash {
		return []common.Hash{chaintest.AddressTopic(target), chaintest.AddressTopic(chaintest.Operator)}
	}

	return chaintest.NewFakePort().
		LimitRange(9).
		AddLogs(
			chaintest.MustEventLog(chaintest.ContractAddress, quorum, 2, 0, []common.Hash{admin}, uint16(3)),
			chaintest.MustEventLog(chaintest.ContractAddress, whitelist, 5, 0, opTopics(alice), big.NewInt(0), uint8(1)),
			chaintest.MustEventLog(chaintest.ContractAddress, whitelist, 6, 0, opTopics(bob), big.NewInt(0), uint8(1)),
			chaintest.MustEventLog(chaintest.ContractAddress, whitelist, 21, 3, opTopics(bob), big.NewInt(0), uint8(2)),
			chaintest.MustEventLog(chaintest.ContractAddress, bridge, 22, 0,
				[]common.Hash{chaintest.AddressTopic(chaintest.Operator), chaintest.AddressTopic(alice)},
				big.NewInt(10), uint8(1), big.NewInt(1)),
		).
		OnRead("roleConfigs", func([]any) ([]any, error) {
			return []any{big.NewInt(1_000), uint16(3)}, nil
		}).
		OnRead("proposalCount", func([]any) ([]any, error) {
			return []any{big.NewInt(2)}, nil
		}).
		OnRead("proposalRegistry", func(args []any) ([]any, error) {
			return []any{ids[args[0].(*big.Int).Int64()]}, nil
		}).
		OnRead("proposals", func(args []any) ([]any, error) {
			if args[0].([32]byte) == ids[1] {
				return nil, errors.New("could not decode result")
			}

			return []any{
				uint8(types.ProposalTypeMint), alice, big.NewInt(0), [32]byte{}, common.Address{},
				big.NewInt(5), false, big.NewInt(3), big.NewInt(fixedNow.Unix() + 3600), big.NewInt(fixedNow.Unix() - 60),
			}, nil
		})
}

func newSynchronizer(t *testing.T, port sdk.AccessPort, target types.Target, opts ...govsync.Option) *govsync.Synchronizer {
	t.Helper()

	opts = append([]govsync.Option{
		govsync.WithLogFetchOptions(logfetch.WithChunkDelay(0)),
		govsync.WithClock(func() time.Time { return fixedNow }),
	}, opts...)

	s, err := govsync.New(port, chaintest.ChainID, govsync.TargetConfig{
		Target:  target,
		Address: chaintest.ContractAddress,
		ABI:     targetABI(t, target),
	}, opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return s
}

func TestSynchronizer_Refresh(t *testing.T) {
	t.Parallel()

	parsed := targetABI(t, types.TargetToken)
	reg := prometheus.NewRegistry()
	s := newSynchronizer(t, tokenPort(t, parsed), types.TargetToken, govsync.WithMetrics(metrics.New(reg)))

	assert.Nil(t, s.Snapshot())

	snap, err := s.Refresh(t.Context())
	require.NoError(t, err)
	require.Same(t, snap, s.Snapshot())

	assert.NotEmpty(t, snap.PassID)
	assert.Equal(t, uint64(22), snap.BlockNumber)
	assert.Equal(t, fixedNow.UTC(), snap.SyncedAt)

	require.Len(t, snap.Proposals, 1)
	assert.Equal(t, common.Hash{0x01}, snap.Proposals[0].ProposalID)
	assert.Equal(t, 1, snap.PartialFailures)

	require.Contains(t, snap.RoleConfigs, mustRole(t, roles.AdminRole))

	require.Len(t, snap.WhitelistedAddresses, 1)
	assert.Equal(t, alice, snap.WhitelistedAddresses[0].Address)
	assert.Empty(t, snap.BlacklistedAddresses)

	require.Len(t, snap.BridgeOpEvents, 1)
	assert.Equal(t, alice, snap.BridgeOpEvents[0].User)
	assert.Nil(t, snap.VestingCapTable)

	views := s.Views(fixedNow)
	require.Len(t, views, 1)
	assert.True(t, views[0].Executable)
	assert.False(t, views[0].QuorumFallback)
	assert.Equal(t, uint64(3), views[0].Quorum)

	count, err := testutil.GatherAndCount(reg, "govsync_sync_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSynchronizer_Refresh_Vesting(t *testing.T) {
	t.Parallel()

	port := chaintest.NewFakePort().
		OnRead("vestingCapIds", func(args []any) ([]any, error) {
			if args[0].(*big.Int).Sign() > 0 {
				return nil, chaintest.ErrOutOfBounds
			}

			return []any{big.NewInt(1)}, nil
		}).
		OnRead("vestingCaps", func([]any) ([]any, error) {
			return []any{
				[32]byte{'S', 'e', 'e', 'd'}, big.NewInt(100), big.NewInt(0), big.NewInt(12), big.NewInt(1),
				big.NewInt(0), big.NewInt(0), big.NewInt(0),
			}, nil
		}).
		OnRead("getWalletsInCap", func([]any) ([]any, error) {
			return []any{[]common.Address{}}, nil
		}).
		OnRead("isTGEInitiated", func([]any) ([]any, error) {
			return []any{false}, nil
		})

	snap, err := newSynchronizer(t, port, types.TargetVesting).Refresh(t.Context())
	require.NoError(t, err)

	require.Len(t, snap.VestingCapTable, 1)
	assert.Equal(t, "Seed", snap.VestingCapTable[0].Name)
	require.NotNil(t, snap.TGEStatus)
	assert.False(t, snap.TGEStatus.Initiated)
	assert.Empty(t, snap.Proposals)
	assert.Nil(t, snap.WhitelistedAddresses)

	// Missing proposalCount and registry leave an empty, complete list.
	assert.Zero(t, snap.PartialFailures)
}

func TestSynchronizer_Refresh_Cancelled(t *testing.T) {
	t.Parallel()

	s := newSynchronizer(t, tokenPort(t, targetABI(t, types.TargetToken)), types.TargetToken)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := s.Refresh(ctx)
	require.ErrorIs(t, err, context.Canceled)

	var syncErr *govsync.SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Nil(t, s.Snapshot())
}

func TestSynchronizer_Refresh_Superseded(t *testing.T) {
	t.Parallel()

	parsed := targetABI(t, types.TargetToken)
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	port := tokenPort(t, parsed).
		OnRead("proposalCount", func([]any) ([]any, error) {
			first := false
			once.Do(func() { first = true })
			if first {
				close(entered)
				<-release
			}

			return []any{big.NewInt(0)}, nil
		})
	s := newSynchronizer(t, port, types.TargetToken)

	var wg sync.WaitGroup
	var firstErr, secondErr error
	var second *types.Snapshot

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = s.Refresh(t.Context())
	}()
	<-entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		second, secondErr = s.Refresh(t.Context())
	}()
	require.Eventually(t, func() bool { return s.Generation() == 2 }, time.Second, time.Millisecond)

	close(release)
	wg.Wait()

	require.ErrorIs(t, firstErr, govsync.ErrSuperseded)
	require.NoError(t, secondErr)
	assert.Same(t, second, s.Snapshot())
}

func TestSynchronizer_Dispatcher_ResyncsAfterWrite(t *testing.T) {
	t.Parallel()

	parsed := targetABI(t, types.TargetToken)
	port := tokenPort(t, parsed).SetAccount(chaintest.Operator)
	s := newSynchronizer(t, port, types.TargetToken)

	_, err := s.Dispatcher().ApproveProposal(t.Context(), common.Hash{0x01})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return s.Snapshot() != nil }, 5*time.Second, time.Millisecond)
	assert.Len(t, s.Snapshot().Proposals, 1)
}

// unminedPort never returns a receipt before the context ends.
type unminedPort struct {
	*chaintest.FakePort
}

func (unminedPort) WaitForReceipt(ctx context.Context, _ common.Hash) (*gethtypes.Receipt, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestSynchronizer_Dispatcher_DoesNotWaitForMining(t *testing.T) {
	t.Parallel()

	parsed := targetABI(t, types.TargetToken)
	port := unminedPort{tokenPort(t, parsed).SetAccount(chaintest.Operator)}
	s := newSynchronizer(t, port, types.TargetToken, govsync.WithResyncTimeout(time.Hour))

	type result struct {
		res types.TransactionResult
		err error
	}
	done := make(chan result, 1)
	go func() {
		res, err := s.Dispatcher().ApproveProposal(context.Background(), common.Hash{0x01})
		done <- result{res, err}
	}()

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.NotEqual(t, common.Hash{}, r.res.Hash)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "approveProposal waited for the transaction to be mined")
	}

	// Close cancels the pending resync instead of waiting an hour for it.
	closed := make(chan struct{})
	go func() {
		s.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "Close did not cancel the pending resync")
	}
	assert.Nil(t, s.Snapshot())

	// Writes after Close no longer start a resync.
	_, err := s.Dispatcher().ExecuteProposal(t.Context(), common.Hash{0x01})
	require.NoError(t, err)
	s.Close()
	assert.Nil(t, s.Snapshot())
}

func TestSynchronizer_Dispatcher_RoleWriteReusesRefreshedCache(t *testing.T) {
	t.Parallel()

	parsed := targetABI(t, types.TargetToken)
	port := tokenPort(t, parsed).SetAccount(chaintest.Operator)
	s := newSynchronizer(t, port, types.TargetToken)

	_, err := s.Dispatcher().SetRoleQuorum(t.Context(), roles.AdminRole, 3)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return s.Snapshot() != nil }, 5*time.Second, time.Millisecond)

	// The cache was refreshed once by the write; the resync reuses it.
	var roleReads int
	for _, m := range port.Reads() {
		if m == "roleConfigs" {
			roleReads++
		}
	}
	assert.Equal(t, 1, roleReads)
	assert.Equal(t, uint16(3), s.Snapshot().RoleConfigs[mustRole(t, roles.AdminRole)].Quorum)
}

func TestSynchronizer_Refresh_PinsRoleDiscoveryToPassBlock(t *testing.T) {
	t.Parallel()

	parsed := targetABI(t, types.TargetToken)
	operator := mustRole(t, roles.ContractOperatorRole)
	late := chaintest.MustEventLog(chaintest.ContractAddress, parsed.Events["QuorumUpdated"], 40, 0,
		[]common.Hash{operator}, uint16(2))

	port := tokenPort(t, parsed)
	s := newSynchronizer(t, blockLaggingPort{FakePort: port, block: 22, late: late}, types.TargetToken)

	snap, err := s.Refresh(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint64(22), snap.BlockNumber)
	assert.Contains(t, snap.RoleConfigs, mustRole(t, roles.AdminRole))
	assert.NotContains(t, snap.RoleConfigs, operator)
}

// blockLaggingPort reports block as the head while a later log is already
// indexed, as when a new block lands during a pass.
type blockLaggingPort struct {
	*chaintest.FakePort
	block uint64
	late  gethtypes.Log
}

func (p blockLaggingPort) BlockNumber(context.Context) (uint64, error) {
	p.FakePort.AddLogs(p.late)
	return p.block, nil
}

func TestNew_RequiresABI(t *testing.T) {
	t.Parallel()

	_, err := govsync.New(chaintest.NewFakePort(), chaintest.ChainID, govsync.TargetConfig{Target: types.TargetToken})
	require.Error(t, err)
}
