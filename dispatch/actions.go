package dispatch

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/govkit/govsync/sdk"
	sdkerrors "github.com/govkit/govsync/sdk/errors"
	"github.com/govkit/govsync/types"
	"github.com/govkit/govsync/vesting"
)

const (
	methodAddVestingCap     = "addVestingCap"
	methodTransferToStorage = "transferBackToStorage"
	methodDistribute        = "distributeFromPool"
	methodEmergency         = "emergencyAction"
	methodMapSubstrate      = "mapSubstrateAddress"
	methodUnmapSubstrate    = "unmapSubstrateAddress"

	// miningCapInputs is the arity of the mining variant of addVestingCap.
	miningCapInputs = 9
)

// EmergencyOp is the operation passed to emergencyAction.
type EmergencyOp uint8

const (
	EmergencyPause   EmergencyOp = 1
	EmergencyUnpause EmergencyOp = 2
)

func (o EmergencyOp) String() string {
	switch o {
	case EmergencyPause:
		return "pause"
	case EmergencyUnpause:
		return "unpause"
	default:
		return "unknown"
	}
}

// VestingCapRequest are the arguments of addVestingCap. MaxRewardsPerMonth
// and Ratio are required by the mining contract and ignored otherwise.
type VestingCapRequest struct {
	CapID              *big.Int `validate:"required"`
	Name               string   `validate:"required,max=32"`
	TotalAllocation    *big.Int `validate:"required"`
	Cliff              *big.Int
	VestingTerm        *big.Int
	VestingPlan        *big.Int
	InitialRelease     *big.Int
	MaxRewardsPerMonth *big.Int
	Ratio              *big.Int
}

var vestingCapKinds = map[string]error{
	"TotalAllocation": sdkerrors.ErrInvalidAmount,
}

// AddVestingCap creates a cap on the vesting or mining contract.
func (d *Dispatcher) AddVestingCap(ctx context.Context, req VestingCapRequest) (types.TransactionResult, error) {
	if err := d.supports(methodAddVestingCap); err != nil {
		return d.reject(methodAddVestingCap, err)
	}
	if err := d.checkStruct(req, vestingCapKinds); err != nil {
		return d.reject(methodAddVestingCap, err)
	}
	name, err := vesting.EncodeName(req.Name)
	if err != nil {
		return d.reject(methodAddVestingCap, sdkerrors.NewValidationError("name", req.Name, err))
	}

	args := []any{
		req.CapID,
		name,
		req.TotalAllocation,
		orZero(req.Cliff),
		orZero(req.VestingTerm),
		orZero(req.VestingPlan),
		orZero(req.InitialRelease),
	}
	if len(d.contractABI.Methods[methodAddVestingCap].Inputs) == miningCapInputs {
		if req.MaxRewardsPerMonth == nil || req.Ratio == nil {
			return d.reject(methodAddVestingCap,
				sdkerrors.NewValidationError("maxRewardsPerMonth/ratio", nil, sdkerrors.ErrInvalidArgument))
		}
		args = append(args, req.MaxRewardsPerMonth, req.Ratio)
	}

	return d.submit(ctx, methodAddVestingCap, methodAddVestingCap, args...)
}

// AddVestingWallet proposes allocating amount of capID to wallet through an
// AddDistributionWallets proposal.
func (d *Dispatcher) AddVestingWallet(
	ctx context.Context, capID *big.Int, wallet common.Address, amount *big.Int,
) (types.TransactionResult, error) {
	const action = "addVestingWallet"

	if capID == nil {
		return d.reject(action, sdkerrors.NewValidationError("capId", capID, sdkerrors.ErrInvalidArgument))
	}
	if wallet == (common.Address{}) {
		return d.reject(action, sdkerrors.NewValidationError("wallet", wallet, sdkerrors.ErrInvalidAddress))
	}
	if amount == nil || amount.Sign() < 0 {
		return d.reject(action, sdkerrors.NewValidationError("amount", amount, sdkerrors.ErrInvalidAmount))
	}

	return d.submit(ctx, action, methodCreateProposal,
		uint8(types.ProposalTypeAddDistributionWallets), capID, wallet, [32]byte{}, amount, common.Address{},
	)
}

// TransferBackToStorage returns amount from the pool to the storage contract.
func (d *Dispatcher) TransferBackToStorage(ctx context.Context, amount *big.Int) (types.TransactionResult, error) {
	if amount == nil || amount.Sign() < 0 {
		return d.reject(methodTransferToStorage, sdkerrors.NewValidationError("amount", amount, sdkerrors.ErrInvalidAmount))
	}

	return d.submit(ctx, methodTransferToStorage, methodTransferToStorage, amount)
}

// DistributeFromPool pays amount out of the pool to recipient.
func (d *Dispatcher) DistributeFromPool(ctx context.Context, recipient common.Address, amount *big.Int) (types.TransactionResult, error) {
	if recipient == (common.Address{}) {
		return d.reject(methodDistribute, sdkerrors.NewValidationError("recipient", recipient, sdkerrors.ErrInvalidAddress))
	}
	if amount == nil || amount.Sign() < 0 {
		return d.reject(methodDistribute, sdkerrors.NewValidationError("amount", amount, sdkerrors.ErrInvalidAmount))
	}

	return d.submit(ctx, methodDistribute, methodDistribute, recipient, amount)
}

// EmergencyAction pauses or unpauses the contract.
func (d *Dispatcher) EmergencyAction(ctx context.Context, op EmergencyOp) (types.TransactionResult, error) {
	if err := d.checkVar("operation", uint8(op), "oneof=1 2", sdkerrors.ErrInvalidEmergencyOp); err != nil {
		return d.reject(methodEmergency, err)
	}

	return d.submit(ctx, methodEmergency, methodEmergency, uint8(op))
}

// MapSubstrateAddress links wallet to a substrate account on the mining
// contract.
func (d *Dispatcher) MapSubstrateAddress(
	ctx context.Context, wallet common.Address, substrate common.Hash,
) (types.TransactionResult, error) {
	if wallet == (common.Address{}) {
		return d.reject(methodMapSubstrate, sdkerrors.NewValidationError("wallet", wallet, sdkerrors.ErrInvalidAddress))
	}
	if substrate == (common.Hash{}) {
		return d.reject(methodMapSubstrate, sdkerrors.NewValidationError("substrateAddress", substrate, sdkerrors.ErrInvalidAddress))
	}

	return d.submit(ctx, methodMapSubstrate, methodMapSubstrate, wallet, [32]byte(substrate))
}

// UnmapSubstrateAddress removes the substrate mapping of wallet.
func (d *Dispatcher) UnmapSubstrateAddress(ctx context.Context, wallet common.Address) (types.TransactionResult, error) {
	if wallet == (common.Address{}) {
		return d.reject(methodUnmapSubstrate, sdkerrors.NewValidationError("wallet", wallet, sdkerrors.ErrInvalidAddress))
	}

	return d.submit(ctx, methodUnmapSubstrate, methodUnmapSubstrate, wallet)
}

// ErrCancelUnsupported is returned when the access port cannot replace
// pending transactions.
var ErrCancelUnsupported = errors.New("access port does not support transaction cancellation")

// CancelTransaction replaces the pending transaction hash with a zero value
// self transfer at the same nonce and a higher gas price. The replacement
// only wins if it is mined first.
func (d *Dispatcher) CancelTransaction(ctx context.Context, hash common.Hash) (types.TransactionResult, error) {
	const action = "cancelTransaction"

	canceller, ok := d.port.(sdk.Canceller)
	if !ok {
		return d.reject(action, ErrCancelUnsupported)
	}
	if _, ok := d.port.Account(); !ok {
		return d.reject(action, sdkerrors.NewConnectivityError(action, sdkerrors.ErrNotConnected))
	}

	replacement, err := canceller.CancelTransaction(ctx, hash)
	if err != nil {
		d.metrics.Dispatched(action, resultFailed)

		return types.TransactionResult{}, &sdkerrors.SubmissionError{Method: action, Hash: hash, Err: err}
	}
	d.metrics.Dispatched(action, resultSubmitted)
	sdk.LoggerFrom(ctx).Infof("replacement %s submitted for %s", replacement.Hex(), hash.Hex())

	return types.TransactionResult{Hash: replacement, Action: action}, nil
}
