package rolecfg_test

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govkit/govsync/internal/testutils/chaintest"
	"github.com/govkit/govsync/logfetch"
	"github.com/govkit/govsync/rolecfg"
	"github.com/govkit/govsync/roles"
	"github.com/govkit/govsync/sdk"
	sdkerrors "github.com/govkit/govsync/sdk/errors"
	"github.com/govkit/govsync/sdk/evm/bindings"
	"github.com/govkit/govsync/types"
)

func mustRole(t *testing.T, name string) common.Hash {
	t.Helper()

	h, err := roles.Hash(name)
	require.NoError(t, err)

	return h
}

func governanceABI(t *testing.T) *abi.ABI {
	t.Helper()

	parsed, err := bindings.ABIFor(types.TargetToken)
	require.NoError(t, err)

	return parsed
}

func TestCache_Refresh(t *testing.T) {
	t.Parallel()

	parsed := governanceABI(t)
	admin := mustRole(t, roles.AdminRole)
	operator := mustRole(t, roles.ContractOperatorRole)
	bridge := mustRole(t, roles.BridgeOperatorRole)

	limitEv := parsed.Events["TransactionLimitUpdated"]
	quorumEv := parsed.Events["QuorumUpdated"]

	// The admin role is updated twice; only the current on-chain values
	// are used.
	port := chaintest.NewFakePort().
		LimitRange(9).
		AddLogs(
			chaintest.MustEventLog(chaintest.ContractAddress, limitEv, 3, 0, []common.Hash{admin}, big.NewInt(1)),
			chaintest.MustEventLog(chaintest.ContractAddress, quorumEv, 12, 0, []common.Hash{admin}, uint16(1)),
			chaintest.MustEventLog(chaintest.ContractAddress, quorumEv, 25, 1, []common.Hash{operator}, uint16(2)),
			chaintest.MustEventLog(chaintest.ContractAddress, limitEv, 40, 0, []common.Hash{admin}, big.NewInt(7)),
			chaintest.MustEventLog(chaintest.ContractAddress, quorumEv, 41, 0, []common.Hash{bridge}, uint16(4)),
		).
		OnRead("roleConfigs", func(args []any) ([]any, error) {
			switch common.Hash(args[0].([32]byte)) {
			case admin:
				return []any{big.NewInt(1_000), uint16(3)}, nil
			case operator:
				return []any{big.NewInt(500), uint16(2)}, nil
			default:
				return nil, errors.New("execution reverted")
			}
		})

	tally := &sdk.PartialReads{}
	ctx := sdk.WithPartialReads(t.Context(), tally)

	cache := rolecfg.New(port, logfetch.New(port, logfetch.WithChunkDelay(0)), chaintest.ContractAddress, parsed)
	got, err := cache.Refresh(ctx)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, types.RoleConfig{
		Role:             admin,
		Name:             roles.AdminRole,
		TransactionLimit: big.NewInt(1_000),
		Quorum:           3,
	}, got[admin])
	assert.Equal(t, uint16(2), got[operator].Quorum)
	assert.NotContains(t, got, bridge)
	assert.Equal(t, 1, tally.Len())

	q, ok := cache.Quorum(admin)
	assert.True(t, ok)
	assert.Equal(t, uint64(3), q)

	_, ok = cache.Quorum(bridge)
	assert.False(t, ok)

	// The returned map is a copy.
	delete(got, admin)
	_, ok = cache.Get(admin)
	assert.True(t, ok)
}

func TestCache_RefreshRebuildsFromScratch(t *testing.T) {
	t.Parallel()

	parsed := governanceABI(t)
	admin := mustRole(t, roles.AdminRole)
	quorumEv := parsed.Events["QuorumUpdated"]

	readable := true
	port := chaintest.NewFakePort().
		AddLogs(chaintest.MustEventLog(chaintest.ContractAddress, quorumEv, 1, 0, []common.Hash{admin}, uint16(2))).
		OnRead("roleConfigs", func([]any) ([]any, error) {
			if !readable {
				return nil, errors.New("execution reverted")
			}

			return []any{big.NewInt(10), uint16(2)}, nil
		})

	cache := rolecfg.New(port, logfetch.New(port), chaintest.ContractAddress, parsed)

	_, err := cache.Refresh(t.Context())
	require.NoError(t, err)
	require.Len(t, cache.Configs(), 1)

	readable = false
	_, err = cache.Refresh(t.Context())
	require.NoError(t, err)
	assert.Empty(t, cache.Configs())
}

func TestCache_RefreshAtIgnoresLaterEvents(t *testing.T) {
	t.Parallel()

	parsed := governanceABI(t)
	admin := mustRole(t, roles.AdminRole)
	operator := mustRole(t, roles.ContractOperatorRole)
	quorumEv := parsed.Events["QuorumUpdated"]

	port := chaintest.NewFakePort().
		AddLogs(
			chaintest.MustEventLog(chaintest.ContractAddress, quorumEv, 5, 0, []common.Hash{admin}, uint16(2)),
			chaintest.MustEventLog(chaintest.ContractAddress, quorumEv, 30, 0, []common.Hash{operator}, uint16(3)),
		).
		OnRead("roleConfigs", func([]any) ([]any, error) {
			return []any{big.NewInt(10), uint16(2)}, nil
		})

	cache := rolecfg.New(port, logfetch.New(port), chaintest.ContractAddress, parsed)

	got, err := cache.RefreshAt(t.Context(), 20)
	require.NoError(t, err)
	assert.Contains(t, got, admin)
	assert.NotContains(t, got, operator)

	got, err = cache.Refresh(t.Context())
	require.NoError(t, err)
	assert.Contains(t, got, operator)
}

func TestCache_RefreshMissingEvent(t *testing.T) {
	t.Parallel()

	parsed, err := abi.JSON(strings.NewReader(`[]`))
	require.NoError(t, err)

	port := chaintest.NewFakePort()
	cache := rolecfg.New(port, logfetch.New(port), chaintest.ContractAddress, &parsed)

	_, err = cache.Refresh(t.Context())
	require.ErrorContains(t, err, "TransactionLimitUpdated")
}

func TestValidateQuorum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give    uint64
		want    uint16
		wantErr bool
	}{
		{give: 0, wantErr: true},
		{give: 1, want: 1},
		{give: 2, want: 2},
		{give: 65535, want: 65535},
		{give: 65536, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(big.NewInt(0).SetUint64(tt.give).String(), func(t *testing.T) {
			t.Parallel()

			got, err := rolecfg.ValidateQuorum(tt.give)
			if tt.wantErr {
				require.ErrorIs(t, err, sdkerrors.ErrInvalidQuorum)

				var verr *sdkerrors.ValidationError
				require.ErrorAs(t, err, &verr)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateLimit(t *testing.T) {
	t.Parallel()

	require.NoError(t, rolecfg.ValidateLimit(big.NewInt(0)))
	require.NoError(t, rolecfg.ValidateLimit(big.NewInt(1_000_000)))
	require.ErrorIs(t, rolecfg.ValidateLimit(nil), sdkerrors.ErrInvalidLimit)
	require.ErrorIs(t, rolecfg.ValidateLimit(big.NewInt(-1)), sdkerrors.ErrInvalidLimit)
}
