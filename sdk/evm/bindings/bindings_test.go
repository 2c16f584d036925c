package bindings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govkit/govsync/sdk/evm/bindings"
	"github.com/govkit/govsync/types"
)

func TestABIFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target      types.Target
		wantMethods []string
		wantEvents  []string
	}{
		{
			target:      types.TargetToken,
			wantMethods: []string{"proposals", "createProposal", "roleConfigs"},
			wantEvents:  []string{"WhitelistOp", "BlacklistOp", "BridgeOp", "NonceUsed", "QuorumUpdated"},
		},
		{
			target:      types.TargetVesting,
			wantMethods: []string{"vestingCapIds", "vestingCaps", "getWalletsInCap", "vestingWallets", "tgeTimestamp"},
		},
		{
			target:      types.TargetMining,
			wantMethods: []string{"vestingCaps", "mapSubstrateAddress", "unmapSubstrateAddress"},
			wantEvents:  []string{"SubstrateAddressOp"},
		},
		{
			target:      types.TargetStoragePool,
			wantMethods: []string{"transferBackToStorage", "distributeFromPool"},
		},
		{
			target:      types.TargetAirdrop,
			wantMethods: []string{"proposalCount", "proposalRegistry", "emergencyAction", "upgradeToAndCall"},
			wantEvents:  []string{"TransactionLimitUpdated"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			t.Parallel()

			parsed, err := bindings.ABIFor(tt.target)
			require.NoError(t, err)

			for _, m := range tt.wantMethods {
				assert.Contains(t, parsed.Methods, m)
			}
			for _, e := range tt.wantEvents {
				assert.Contains(t, parsed.Events, e)
			}
			assert.Contains(t, parsed.Errors, "AmountMustBePositive")
		})
	}
}

func TestABIFor_MiningCapHasMiningFields(t *testing.T) {
	t.Parallel()

	parsed, err := bindings.ABIFor(types.TargetMining)
	require.NoError(t, err)
	assert.Len(t, parsed.Methods["vestingCaps"].Outputs, 10)
	assert.Len(t, parsed.Methods["addVestingCap"].Inputs, 9)

	parsed, err = bindings.ABIFor(types.TargetVesting)
	require.NoError(t, err)
	assert.Len(t, parsed.Methods["vestingCaps"].Outputs, 8)
}

func TestWithOverride(t *testing.T) {
	t.Parallel()

	override := `[
		{"type":"function","name":"proposalCount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint64"}]},
		{"type":"function","name":"claim","stateMutability":"nonpayable","inputs":[],"outputs":[]}
	]`

	parsed, err := bindings.WithOverride([]byte(override))
	require.NoError(t, err)
	assert.Contains(t, parsed.Methods, "claim")
	assert.Equal(t, "uint64", parsed.Methods["proposalCount"].Outputs[0].Type.String())
	assert.Contains(t, parsed.Methods, "approveProposal")

	_, err = bindings.WithOverride([]byte(`{"not":"an array"}`))
	require.Error(t, err)
}
