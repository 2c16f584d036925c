package evm_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govkit/govsync/internal/testutils/evmsim"
	"github.com/govkit/govsync/sdk"
)

func TestClient_SimulatedChain_SimulateSendAndWait(t *testing.T) {
	t.Parallel()

	chain := evmsim.NewSimulatedChain(t, 2)
	client := chain.NewClient(t, chain.Signers[0])
	recipient := chain.Signers[1].Address(t)

	req, err := client.SimulateContract(t.Context(), sdk.ContractCall{
		Address: recipient,
		ABI:     governanceABI(t),
		Method:  "approveProposal",
		Args:    []any{[32]byte{1}},
	})
	require.NoError(t, err)
	assert.Positive(t, req.Gas)
	assert.Empty(t, req.Result)

	hash, err := client.SendTransaction(t.Context(), req)
	require.NoError(t, err)
	chain.Backend.Commit()

	receipt, err := client.WaitForReceipt(t.Context(), hash)
	require.NoError(t, err)
	assert.Equal(t, gethtypes.ReceiptStatusSuccessful, receipt.Status)

	latest, err := client.BlockNumber(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), latest)
}

func TestClient_SimulatedChain_CancelReplacesPending(t *testing.T) {
	t.Parallel()

	chain := evmsim.NewSimulatedChain(t, 2)
	client := chain.NewClient(t, chain.Signers[0])
	recipient := chain.Signers[1].Address(t)

	hash, err := client.SendTransaction(t.Context(), &sdk.PreparedRequest{
		Call: sdk.ContractCall{Address: recipient, Method: "transfer", Value: big.NewInt(1)},
		Gas:  21_000,
	})
	require.NoError(t, err)

	replacement, err := client.CancelTransaction(t.Context(), hash)
	require.NoError(t, err)
	require.NotEqual(t, hash, replacement)
	chain.Backend.Commit()

	receipt, err := client.WaitForReceipt(t.Context(), replacement)
	require.NoError(t, err)
	assert.Equal(t, gethtypes.ReceiptStatusSuccessful, receipt.Status)

	_, err = chain.Backend.Client().TransactionReceipt(t.Context(), hash)
	require.ErrorIs(t, err, ethereum.NotFound)

	_, err = client.CancelTransaction(t.Context(), replacement)
	require.ErrorContains(t, err, "no longer pending")
}
