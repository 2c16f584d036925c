package govsync_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govkit/govsync/cmd/govsync"
)

func TestBuildRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	cmd := govsync.BuildRootCmd()

	for _, name := range []string{
		"sync", "watch", "propose", "approve", "execute", "cleanup",
		"set-quorum", "set-limit", "role-proposal", "vesting", "emergency",
		"upgrade", "pool", "substrate", "cancel-tx",
	} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

// Each case fails while parsing arguments, before any node is dialed.
func TestBuildRootCmd_RejectsBadArguments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown emergency operation",
			args:    []string{"emergency", "halt"},
			wantErr: `invalid argument "halt"`,
		},
		{
			name:    "unknown proposal type",
			args:    []string{"propose", "--type", "burn"},
			wantErr: `unknown proposal type "burn"`,
		},
		{
			name:    "malformed proposal id",
			args:    []string{"approve", "0x1234"},
			wantErr: "proposalId",
		},
		{
			name:    "malformed amount",
			args:    []string{"set-limit", "--limit", "lots"},
			wantErr: "limit",
		},
		{
			name:    "malformed wallet",
			args:    []string{"vesting", "add-wallet", "--cap-id", "1", "--wallet", "nope", "--amount", "5"},
			wantErr: "wallet",
		},
		{
			name:    "missing required flag",
			args:    []string{"role-proposal", "--role", "ADMIN_ROLE"},
			wantErr: `required flag(s) "account" not set`,
		},
		{
			name:    "substrate account too short",
			args:    []string{"substrate", "map", "0x00000000000000000000000000000000000000aa", "0xabcd"},
			wantErr: "substrateAddress",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := govsync.BuildRootCmd()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(tt.args)

			err := cmd.ExecuteContext(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
