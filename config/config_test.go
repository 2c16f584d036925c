package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govkit/govsync/config"
	"github.com/govkit/govsync/roles"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

const validYAML = `
rpcUrl: "http://127.0.0.1:8545"
chainId: 1337
logChunkSize: 50
chunkDelay: 250ms
targets:
  - name: token
    address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
    fromBlock: 100
    approverRole: CONTRACT_OPERATOR_ROLE
  - name: vesting
    address: "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
`

// Tests in this file set environment variables and do not run in parallel.

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "govsync.yaml", validYAML)

	cfg, err := config.Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8545", cfg.RPCURL)
	assert.Equal(t, uint64(1337), cfg.ChainID)
	assert.Equal(t, uint64(50), cfg.LogChunkSize)
	assert.Equal(t, 250*time.Millisecond, cfg.ChunkDelay)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
	require.Len(t, cfg.Targets, 2)

	token, err := cfg.Target("token")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"), token.ContractAddress())
	assert.Equal(t, uint64(100), token.FromBlock)

	role, err := token.Role()
	require.NoError(t, err)
	want, err := roles.Hash(roles.ContractOperatorRole)
	require.NoError(t, err)
	assert.Equal(t, want, role)

	_, err = cfg.Target("mining")
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "govsync.yaml", validYAML)
	envFile := writeFile(t, ".env", "PRIVATE_KEY=ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80\n")

	// godotenv writes to the process environment directly.
	t.Cleanup(func() { _ = os.Unsetenv("PRIVATE_KEY") })
	t.Setenv("GOVSYNC_CHAIN_ID", "31337")
	t.Setenv("GOVSYNC_LOG_LEVEL", "debug")
	t.Setenv("GOVSYNC_RATE_LIMIT", "2.5")

	cfg, err := config.Load(path, envFile)
	require.NoError(t, err)

	assert.Equal(t, uint64(31337), cfg.ChainID)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.InDelta(t, 2.5, cfg.RateLimit, 0.0001)
	assert.Equal(t, "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", cfg.PrivateKey)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing rpc url",
			yaml:    "chainId: 1\n",
			wantErr: "RPCURL",
		},
		{
			name: "bad address",
			yaml: `rpcUrl: "http://localhost:8545"
chainId: 1
targets:
  - name: token
    address: "0x1234"
`,
			wantErr: "Address",
		},
		{
			name: "unknown target",
			yaml: `rpcUrl: "http://localhost:8545"
chainId: 1
targets:
  - name: treasury
    address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
`,
			wantErr: "govsync_target",
		},
		{
			name: "unknown role",
			yaml: `rpcUrl: "http://localhost:8545"
chainId: 1
targets:
  - name: token
    address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
    approverRole: OWNER
`,
			wantErr: "govsync_role",
		},
		{
			name: "duplicate target",
			yaml: `rpcUrl: "http://localhost:8545"
chainId: 1
targets:
  - name: token
    address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
  - name: token
    address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
`,
			wantErr: "configured twice",
		},
		{
			name:    "unknown field",
			yaml:    "rpcUrl: \"http://localhost:8545\"\nchainId: 1\nrpcTimeout: 5s\n",
			wantErr: "rpcTimeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "govsync.yaml", tt.yaml)

			_, err := config.Load(path, filepath.Join(t.TempDir(), "missing.env"))
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
