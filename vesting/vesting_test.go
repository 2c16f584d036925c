package vesting_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govkit/govsync/internal/testutils/chaintest"
	"github.com/govkit/govsync/sdk"
	"github.com/govkit/govsync/sdk/evm/bindings"
	"github.com/govkit/govsync/types"
	"github.com/govkit/govsync/vesting"
)

func targetABI(t *testing.T, target types.Target) *abi.ABI {
	t.Helper()

	parsed, err := bindings.ABIFor(target)
	require.NoError(t, err)

	return parsed
}

func mustName(t *testing.T, s string) [32]byte {
	t.Helper()

	b, err := vesting.EncodeName(s)
	require.NoError(t, err)

	return b
}

func capIDs(ids ...int64) chaintest.ReadFunc {
	return func(args []any) ([]any, error) {
		i := args[0].(*big.Int).Int64()
		if i >= int64(len(ids)) {
			return nil, chaintest.ErrOutOfBounds
		}

		return []any{big.NewInt(ids[i])}, nil
	}
}

func TestReader_Caps(t *testing.T) {
	t.Parallel()

	wallets := []common.Address{
		common.HexToAddress("0x01"),
		common.HexToAddress("0x02"),
		common.HexToAddress("0x03"),
		common.HexToAddress("0x04"),
		common.HexToAddress("0x05"),
	}
	missing := wallets[2]

	port := chaintest.NewFakePort().
		OnRead("vestingCapIds", capIDs(10, 20)).
		OnRead("vestingCaps", func(args []any) ([]any, error) {
			id := args[0].(*big.Int).Int64()

			return []any{
				mustName(t, "Team"),
				big.NewInt(id * 100), big.NewInt(90), big.NewInt(12), big.NewInt(1),
				big.NewInt(5), big.NewInt(1_700_000_000), big.NewInt(300),
			}, nil
		}).
		OnRead("getWalletsInCap", func(args []any) ([]any, error) {
			if args[0].(*big.Int).Int64() == 20 {
				return nil, errors.New("connection reset")
			}

			return []any{wallets}, nil
		}).
		OnRead("vestingWallets", func(args []any) ([]any, error) {
			if args[0].(common.Address) == missing {
				return nil, errors.New("execution reverted")
			}

			return []any{args[1], mustName(t, "Alice"), big.NewInt(40), big.NewInt(4)}, nil
		})

	tally := &sdk.PartialReads{}
	ctx := sdk.WithPartialReads(t.Context(), tally)

	caps, err := vesting.New(port, chaintest.ContractAddress, targetABI(t, types.TargetVesting)).Caps(ctx)
	require.NoError(t, err)
	require.Len(t, caps, 2)

	team := caps[0]
	assert.Equal(t, "Team", team.Name)
	assert.Equal(t, big.NewInt(1_000), team.TotalAllocation)
	assert.Nil(t, team.Ratio)

	// Four real rows and one placeholder, in getWalletsInCap order.
	require.Len(t, team.Wallets, 5)
	for i, w := range team.Wallets {
		assert.Equal(t, wallets[i], w.Address)
		assert.Equal(t, wallets[i] == missing, w.Placeholder)
	}
	assert.Equal(t, "Alice", team.Wallets[0].Name)
	assert.Equal(t, int64(0), team.Wallets[2].Amount.Int64())

	assert.Empty(t, caps[1].Wallets)
	assert.Equal(t, 2, tally.Len())
}

func TestReader_Caps_Mining(t *testing.T) {
	t.Parallel()

	wallet := common.HexToAddress("0xabc")
	port := chaintest.NewFakePort().
		OnRead("vestingCapIds", capIDs(1)).
		OnRead("vestingCaps", func([]any) ([]any, error) {
			return []any{
				mustName(t, "Miners"),
				big.NewInt(1), big.NewInt(2), big.NewInt(3), big.NewInt(4),
				big.NewInt(5), big.NewInt(6), big.NewInt(7), big.NewInt(8), big.NewInt(9),
			}, nil
		}).
		OnRead("getWalletsInCap", func([]any) ([]any, error) {
			return []any{[]common.Address{wallet}}, nil
		}).
		OnRead("vestingWallets", func(args []any) ([]any, error) {
			return []any{args[1], mustName(t, "rig"), big.NewInt(10), big.NewInt(1), big.NewInt(2), big.NewInt(3)}, nil
		})

	caps, err := vesting.New(port, chaintest.ContractAddress, targetABI(t, types.TargetMining)).Caps(t.Context())
	require.NoError(t, err)
	require.Len(t, caps, 1)

	want := []types.VestingWalletInfo{{
		CapID:                 big.NewInt(1),
		Address:               wallet,
		Name:                  "rig",
		Amount:                big.NewInt(10),
		Claimed:               big.NewInt(1),
		MonthlyClaimedRewards: big.NewInt(2),
		LastClaimMonth:        big.NewInt(3),
	}}
	if diff := cmp.Diff(want, caps[0].Wallets, cmp.Comparer(func(a, b *big.Int) bool {
		if a == nil || b == nil {
			return a == b
		}

		return a.Cmp(b) == 0
	})); diff != "" {
		t.Errorf("wallets mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, big.NewInt(8), caps[0].MaxRewardsPerMonth)
	assert.Equal(t, big.NewInt(9), caps[0].Ratio)
}

func TestReader_CapIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ids  []int64
		opts []vesting.Option
		want int
	}{
		{name: "empty", want: 0},
		{name: "three", ids: []int64{1, 2, 3}, want: 3},
		{name: "limited", ids: []int64{1, 2, 3}, opts: []vesting.Option{vesting.WithMaxCaps(2)}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			port := chaintest.NewFakePort().OnRead("vestingCapIds", capIDs(tt.ids...))
			got, err := vesting.New(port, chaintest.ContractAddress, targetABI(t, types.TargetVesting), tt.opts...).CapIDs(t.Context())
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestReader_TGE(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		initiated bool
		want      *types.TGEStatus
	}{
		{name: "not initiated", want: &types.TGEStatus{}},
		{name: "initiated", initiated: true, want: &types.TGEStatus{Initiated: true, Timestamp: 1_700_000_000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			port := chaintest.NewFakePort().
				OnRead("isTGEInitiated", func([]any) ([]any, error) { return []any{tt.initiated}, nil }).
				OnRead("tgeTimestamp", func([]any) ([]any, error) { return []any{big.NewInt(1_700_000_000)}, nil })

			got, err := vesting.New(port, chaintest.ContractAddress, targetABI(t, types.TargetVesting)).TGE(t.Context())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeName(t *testing.T) {
	t.Parallel()

	_, err := vesting.EncodeName("a name that is definitely longer than thirty-two bytes")
	require.Error(t, err)

	b, err := vesting.EncodeName("Seed")
	require.NoError(t, err)
	assert.Equal(t, byte('S'), b[0])
	assert.Equal(t, byte(0), b[4])
}
