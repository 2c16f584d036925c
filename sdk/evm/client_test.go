package evm_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/govkit/govsync/sdk"
	sdkerrors "github.com/govkit/govsync/sdk/errors"
	"github.com/govkit/govsync/sdk/evm"
	"github.com/govkit/govsync/sdk/evm/bindings"
	evm_mocks "github.com/govkit/govsync/sdk/evm/mocks"
)

var contractAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

func governanceABI(t *testing.T) *abi.ABI {
	t.Helper()

	parsed, err := bindings.GovernanceMetaData.GetAbi()
	require.NoError(t, err)

	return parsed
}

func transactor(t *testing.T) *bind.TransactOpts {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	auth, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(1337))
	require.NoError(t, err)

	return auth
}

func TestClient_ReadContract(t *testing.T) {
	t.Parallel()

	parsed := governanceABI(t)
	backend := evm_mocks.NewChainBackend(t)

	packed, err := parsed.Methods["proposalCount"].Outputs.Pack(big.NewInt(4))
	require.NoError(t, err)

	backend.EXPECT().CallContract(mock.Anything, mock.MatchedBy(func(msg ethereum.CallMsg) bool {
		return *msg.To == contractAddr && msg.From == (common.Address{})
	}), (*big.Int)(nil)).Return(packed, nil)

	client := evm.NewClient(backend)
	got, err := client.ReadContract(t.Context(), sdk.ContractCall{
		Address: contractAddr,
		ABI:     parsed,
		Method:  "proposalCount",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, big.NewInt(4), got[0])
}

func TestClient_SimulateContract(t *testing.T) {
	t.Parallel()

	parsed := governanceABI(t)
	proposalID := common.HexToHash("0x01")
	packed, err := parsed.Methods["createProposal"].Outputs.Pack([32]byte(proposalID))
	require.NoError(t, err)

	call := sdk.ContractCall{
		Address: contractAddr,
		ABI:     parsed,
		Method:  "createProposal",
		Args: []any{
			uint8(7), big.NewInt(0), common.HexToAddress("0x01"), [32]byte{}, big.NewInt(10), common.Address{},
		},
	}

	tests := []struct {
		name      string
		auth      bool
		mockSetup func(m *evm_mocks.ChainBackend)
		wantErr   error
		wantGas   uint64
	}{
		{
			name:    "not connected",
			auth:    false,
			wantErr: sdkerrors.ErrNotConnected,
		},
		{
			name: "success",
			auth: true,
			mockSetup: func(m *evm_mocks.ChainBackend) {
				m.EXPECT().CallContract(mock.Anything, mock.Anything, (*big.Int)(nil)).Return(packed, nil)
				m.EXPECT().EstimateGas(mock.Anything, mock.Anything).Return(uint64(90_000), nil)
			},
			wantGas: 90_000,
		},
		{
			name: "revert skips gas estimation",
			auth: true,
			mockSetup: func(m *evm_mocks.ChainBackend) {
				m.EXPECT().CallContract(mock.Anything, mock.Anything, (*big.Int)(nil)).
					Return(nil, errors.New("execution reverted: AmountMustBePositive()"))
			},
			wantErr: errors.New("execution reverted: AmountMustBePositive()"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			backend := evm_mocks.NewChainBackend(t)
			if tt.mockSetup != nil {
				tt.mockSetup(backend)
			}

			var opts []evm.ClientOption
			if tt.auth {
				opts = append(opts, evm.WithTransactor(transactor(t)))
			}
			client := evm.NewClient(backend, opts...)

			req, err := client.SimulateContract(t.Context(), call)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, sdkerrors.ErrNotConnected) {
					require.ErrorIs(t, err, sdkerrors.ErrNotConnected)
				} else {
					require.EqualError(t, err, tt.wantErr.Error())
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantGas, req.Gas)
			require.Len(t, req.Result, 1)
			assert.Equal(t, [32]byte(proposalID), req.Result[0])
			assert.NotEmpty(t, req.Data)
		})
	}
}

func TestClient_SendTransaction(t *testing.T) {
	t.Parallel()

	parsed := governanceABI(t)
	auth := transactor(t)
	backend := evm_mocks.NewChainBackend(t)

	data, err := parsed.Pack("approveProposal", [32]byte{1})
	require.NoError(t, err)

	var sent *gethtypes.Transaction
	backend.EXPECT().PendingNonceAt(mock.Anything, auth.From).Return(uint64(7), nil)
	backend.EXPECT().SuggestGasPrice(mock.Anything).Return(big.NewInt(1_000_000_000), nil)
	backend.EXPECT().SendTransaction(mock.Anything, mock.Anything).
		Run(func(_ context.Context, tx *gethtypes.Transaction) { sent = tx }).
		Return(nil)

	client := evm.NewClient(backend, evm.WithTransactor(auth))
	hash, err := client.SendTransaction(t.Context(), &sdk.PreparedRequest{
		Call: sdk.ContractCall{Address: contractAddr, ABI: parsed, Method: "approveProposal"},
		From: auth.From,
		Data: data,
		Gas:  60_000,
	})
	require.NoError(t, err)
	require.NotNil(t, sent)

	assert.Equal(t, sent.Hash(), hash)
	assert.Equal(t, uint64(7), sent.Nonce())
	assert.Equal(t, uint64(60_000), sent.Gas())
	assert.Equal(t, contractAddr, *sent.To())
	assert.Equal(t, data, sent.Data())
}

func TestClient_CancelTransaction(t *testing.T) {
	t.Parallel()

	original := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    3,
		GasPrice: big.NewInt(100),
		Gas:      60_000,
		To:       &contractAddr,
		Value:    new(big.Int),
	})

	tests := []struct {
		name    string
		pending bool
		wantErr string
	}{
		{name: "pending", pending: true},
		{name: "already mined", pending: false, wantErr: "no longer pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			auth := transactor(t)
			backend := evm_mocks.NewChainBackend(t)
			backend.EXPECT().TransactionByHash(mock.Anything, original.Hash()).Return(original, tt.pending, nil)

			var sent *gethtypes.Transaction
			if tt.pending {
				backend.EXPECT().SendTransaction(mock.Anything, mock.Anything).
					Run(func(_ context.Context, tx *gethtypes.Transaction) { sent = tx }).
					Return(nil)
			}

			client := evm.NewClient(backend, evm.WithTransactor(auth))
			hash, err := client.CancelTransaction(t.Context(), original.Hash())
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, sent.Hash(), hash)
			assert.Equal(t, uint64(3), sent.Nonce())
			assert.Equal(t, int64(110), sent.GasPrice().Int64())
			assert.Equal(t, uint64(21_000), sent.Gas())
			assert.Equal(t, auth.From, *sent.To())
			assert.Zero(t, sent.Value().Sign())
		})
	}
}

func TestClient_WaitForReceipt(t *testing.T) {
	t.Parallel()

	hash := common.HexToHash("0xabc")
	receipt := &gethtypes.Receipt{Status: gethtypes.ReceiptStatusSuccessful, TxHash: hash}

	backend := evm_mocks.NewChainBackend(t)
	backend.EXPECT().TransactionReceipt(mock.Anything, hash).Return(nil, ethereum.NotFound).Once()
	backend.EXPECT().TransactionReceipt(mock.Anything, hash).Return(nil, errors.New("upstream timeout")).Once()
	backend.EXPECT().TransactionReceipt(mock.Anything, hash).Return(receipt, nil).Once()

	client := evm.NewClient(backend, evm.WithReceiptPollInterval(time.Millisecond))
	got, err := client.WaitForReceipt(t.Context(), hash)
	require.NoError(t, err)
	assert.Equal(t, receipt, got)
}

func TestClient_WaitForReceiptCancelled(t *testing.T) {
	t.Parallel()

	hash := common.HexToHash("0xabc")
	backend := evm_mocks.NewChainBackend(t)
	backend.EXPECT().TransactionReceipt(mock.Anything, hash).Return(nil, ethereum.NotFound).Maybe()

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	client := evm.NewClient(backend, evm.WithReceiptPollInterval(5*time.Millisecond))
	_, err := client.WaitForReceipt(ctx, hash)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	t.Parallel()

	backend := evm_mocks.NewChainBackend(t)
	client := evm.NewClient(backend, evm.WithRateLimit(1, 1))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := client.BlockNumber(ctx)
	require.Error(t, err)
	backend.AssertNotCalled(t, "BlockNumber", mock.Anything)
}

func TestClient_Account(t *testing.T) {
	t.Parallel()

	_, ok := evm.NewClient(nil).Account()
	assert.False(t, ok)

	auth := transactor(t)
	from, ok := evm.NewClient(nil, evm.WithTransactor(auth)).Account()
	assert.True(t, ok)
	assert.Equal(t, auth.From, from)
}

func TestBumpGasPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int64
		want int64
	}{
		{in: 0, want: 0},
		{in: 1, want: 2},
		{in: 15, want: 17},
		{in: 100, want: 110},
		{in: 1_000_000_000, want: 1_100_000_000},
	}

	for _, tt := range tests {
		t.Run(big.NewInt(tt.in).String(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, evm.BumpGasPrice(big.NewInt(tt.in)).Int64())
		})
	}
}
