package sdk

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// ContractCall identifies one ABI method invocation against a contract.
type ContractCall struct {
	Address common.Address
	ABI     *abi.ABI
	Method  string
	Args    []any
	Value   *big.Int
}

// PreparedRequest is a write that passed simulation and can be submitted.
type PreparedRequest struct {
	Call ContractCall
	From common.Address
	Data []byte
	Gas  uint64
	// Result holds the decoded return values of the dry run.
	Result []any
}

// LogReader is the historical event half of the AccessPort.
type LogReader interface {
	GetLogs(ctx context.Context, query ethereum.FilterQuery) ([]gethtypes.Log, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// ContractReader reads contract state.
type ContractReader interface {
	ReadContract(ctx context.Context, call ContractCall) ([]any, error)
}

// AccessPort is the capability to read, simulate and submit against a chain.
// Errors returned by implementations are opaque and are classified by the
// callers.
type AccessPort interface {
	ContractReader
	LogReader

	// Account returns the connected signing account, if any.
	Account() (common.Address, bool)
	SimulateContract(ctx context.Context, call ContractCall) (*PreparedRequest, error)
	SendTransaction(ctx context.Context, req *PreparedRequest) (common.Hash, error)
	WaitForReceipt(ctx context.Context, hash common.Hash) (*gethtypes.Receipt, error)
	GetBytecode(ctx context.Context, address common.Address) ([]byte, error)
}

// Canceller is implemented by ports that can replace a pending transaction.
type Canceller interface {
	CancelTransaction(ctx context.Context, hash common.Hash) (common.Hash, error)
}
