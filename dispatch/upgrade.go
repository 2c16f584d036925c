package dispatch

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	sdkerrors "github.com/govkit/govsync/sdk/errors"
	"github.com/govkit/govsync/types"
)

const (
	methodUpgrade               = "upgradeToAndCall"
	methodPendingImplementation = "pendingImplementation"
)

// UpgradeContract points the proxy at newImplementation with empty
// initialization data. The implementation must have code deployed.
func (d *Dispatcher) UpgradeContract(ctx context.Context, newImplementation common.Address) (types.TransactionResult, error) {
	const action = "upgradeContract"

	if err := d.checkImplementation(ctx, action, methodUpgrade, newImplementation); err != nil {
		return d.reject(action, err)
	}

	return d.submit(ctx, action, methodUpgrade, newImplementation, []byte{})
}

// ProposeUpgrade creates an Upgrade proposal for newImplementation, waits
// for it to be mined and returns the pending implementation reported by the
// contract afterwards.
func (d *Dispatcher) ProposeUpgrade(
	ctx context.Context, newImplementation common.Address,
) (types.TransactionResult, common.Address, error) {
	const action = "proposeUpgrade"

	if err := d.checkImplementation(ctx, action, methodCreateProposal, newImplementation); err != nil {
		res, err := d.reject(action, err)
		return res, common.Address{}, err
	}

	res, err := d.write(ctx, action, methodCreateProposal,
		uint8(types.ProposalTypeUpgrade), new(big.Int), newImplementation, [32]byte{}, new(big.Int), common.Address{},
	)
	if err != nil {
		return res, common.Address{}, err
	}
	receipt, err := d.confirm(ctx, methodCreateProposal, res.Hash)
	if err != nil {
		return res, common.Address{}, err
	}
	d.notify(ctx, WriteEvent{Result: res, Receipt: receipt})

	pending, err := d.pendingImplementation(ctx)
	if err != nil {
		return res, common.Address{}, err
	}

	return res, pending, nil
}

func (d *Dispatcher) checkImplementation(ctx context.Context, action, method string, impl common.Address) error {
	if impl == (common.Address{}) {
		return sdkerrors.NewValidationError("newImplementation", impl, sdkerrors.ErrInvalidAddress)
	}
	if err := d.supports(method); err != nil {
		return err
	}
	if err := d.preflight(action); err != nil {
		return err
	}

	code, err := d.port.GetBytecode(ctx, impl)
	if err != nil {
		return fmt.Errorf("failed to read code at %s: %w", impl.Hex(), err)
	}
	if len(code) == 0 {
		return sdkerrors.NewValidationError("newImplementation", impl.Hex()+" (no code)", sdkerrors.ErrInvalidAddress)
	}

	return nil
}

func (d *Dispatcher) pendingImplementation(ctx context.Context) (common.Address, error) {
	out, err := d.port.ReadContract(ctx, d.call(methodPendingImplementation))
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to read %s: %w", methodPendingImplementation, err)
	}
	if len(out) != 1 {
		return common.Address{}, fmt.Errorf("%s returned %d values", methodPendingImplementation, len(out))
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected %s result %T", methodPendingImplementation, out[0])
	}

	return addr, nil
}
