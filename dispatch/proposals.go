package dispatch

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/govkit/govsync/roles"
	sdkerrors "github.com/govkit/govsync/sdk/errors"
	"github.com/govkit/govsync/types"
)

const (
	methodCreateProposal  = "createProposal"
	methodApproveProposal = "approveProposal"
	methodExecuteProposal = "executeProposal"
	methodCleanupExpired  = "cleanupExpiredProposals"
)

// ProposalRequest are the arguments of createProposal. The meaning of ID,
// Target, Role, Amount and TokenAddress depends on Type; unused fields are
// sent as zero.
type ProposalRequest struct {
	Type         types.ProposalType `validate:"min=1,max=7"`
	ID           *big.Int
	Target       common.Address
	Role         common.Hash
	Amount       *big.Int
	TokenAddress common.Address
}

var proposalKinds = map[string]error{
	"Type": sdkerrors.ErrInvalidProposalType,
}

// CreateProposal submits a new proposal. Result of the returned transaction
// holds the proposal id computed by the dry run.
func (d *Dispatcher) CreateProposal(ctx context.Context, req ProposalRequest) (types.TransactionResult, error) {
	if err := d.checkStruct(req, proposalKinds); err != nil {
		return d.reject(methodCreateProposal, err)
	}
	if err := nonNegative("amount", req.Amount); err != nil {
		return d.reject(methodCreateProposal, err)
	}
	if err := nonNegative("id", req.ID); err != nil {
		return d.reject(methodCreateProposal, err)
	}

	return d.submit(ctx, methodCreateProposal, methodCreateProposal,
		uint8(req.Type),
		orZero(req.ID),
		req.Target,
		[32]byte(req.Role),
		orZero(req.Amount),
		req.TokenAddress,
	)
}

// CreateRoleProposal proposes granting or revoking roleName for target.
func (d *Dispatcher) CreateRoleProposal(
	ctx context.Context, kind types.ProposalType, target common.Address, roleName string,
) (types.TransactionResult, error) {
	const action = "createRoleProposal"

	if !kind.IsRoleProposal() {
		return d.reject(action, sdkerrors.NewValidationError("proposalType", kind, sdkerrors.ErrInvalidProposalType))
	}
	if target == (common.Address{}) {
		return d.reject(action, sdkerrors.NewValidationError("target", target, sdkerrors.ErrInvalidAddress))
	}
	role, err := roles.Hash(roleName)
	if err != nil {
		return d.reject(action, err)
	}

	return d.submit(ctx, action, methodCreateProposal,
		uint8(kind), new(big.Int), target, [32]byte(role), new(big.Int), common.Address{},
	)
}

// ApproveProposal records the caller's approval of proposal id.
func (d *Dispatcher) ApproveProposal(ctx context.Context, id common.Hash) (types.TransactionResult, error) {
	return d.submit(ctx, methodApproveProposal, methodApproveProposal, [32]byte(id))
}

// ExecuteProposal executes proposal id once it has reached quorum and its
// execution time.
func (d *Dispatcher) ExecuteProposal(ctx context.Context, id common.Hash) (types.TransactionResult, error) {
	return d.submit(ctx, methodExecuteProposal, methodExecuteProposal, [32]byte(id))
}

// CleanupExpiredProposals asks the contract to prune up to maxToCheck
// expired proposals.
func (d *Dispatcher) CleanupExpiredProposals(ctx context.Context, maxToCheck uint64) (types.TransactionResult, error) {
	if err := d.checkVar("maxToCheck", maxToCheck, "gt=0", sdkerrors.ErrInvalidArgument); err != nil {
		return d.reject(methodCleanupExpired, err)
	}

	return d.submit(ctx, methodCleanupExpired, methodCleanupExpired, new(big.Int).SetUint64(maxToCheck))
}

func nonNegative(field string, v *big.Int) error {
	if v != nil && v.Sign() < 0 {
		return sdkerrors.NewValidationError(field, v, sdkerrors.ErrInvalidAmount)
	}

	return nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}

	return v
}
