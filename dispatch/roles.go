package dispatch

import (
	"context"
	"math/big"

	"github.com/govkit/govsync/rolecfg"
	"github.com/govkit/govsync/roles"
	"github.com/govkit/govsync/sdk"
	"github.com/govkit/govsync/types"
)

const (
	methodSetRoleLimit  = "setRoleTransactionLimit"
	methodSetRoleQuorum = "setRoleQuorum"
)

// SetRoleTransactionLimit sets the per transaction limit of roleName, waits
// for the transaction to be mined and refreshes the role configurations.
func (d *Dispatcher) SetRoleTransactionLimit(ctx context.Context, roleName string, limit *big.Int) (types.TransactionResult, error) {
	role, err := roles.Hash(roleName)
	if err != nil {
		return d.reject(methodSetRoleLimit, err)
	}
	if err := rolecfg.ValidateLimit(limit); err != nil {
		return d.reject(methodSetRoleLimit, err)
	}

	return d.roleWrite(ctx, methodSetRoleLimit, [32]byte(role), limit)
}

// SetRoleQuorum sets the approval quorum of roleName. Quorums outside
// [1, 65535] are rejected without contacting the node.
func (d *Dispatcher) SetRoleQuorum(ctx context.Context, roleName string, quorum uint64) (types.TransactionResult, error) {
	role, err := roles.Hash(roleName)
	if err != nil {
		return d.reject(methodSetRoleQuorum, err)
	}
	q, err := rolecfg.ValidateQuorum(quorum)
	if err != nil {
		return d.reject(methodSetRoleQuorum, err)
	}

	return d.roleWrite(ctx, methodSetRoleQuorum, [32]byte(role), q)
}

// roleWrite submits a role configuration change and refreshes the cache only
// once the transaction is mined successfully.
func (d *Dispatcher) roleWrite(ctx context.Context, method string, args ...any) (types.TransactionResult, error) {
	res, err := d.write(ctx, method, method, args...)
	if err != nil {
		return res, err
	}
	receipt, err := d.confirm(ctx, method, res.Hash)
	if err != nil {
		return res, err
	}

	ev := WriteEvent{Result: res, Receipt: receipt}
	if d.roleConfigs != nil {
		if _, err := d.roleConfigs.Refresh(ctx); err != nil {
			sdk.LoggerFrom(ctx).Warnf("role configuration refresh after %s failed: %v", method, err)
		} else {
			ev.RoleConfigsRefreshed = true
		}
	}
	d.notify(ctx, ev)

	return res, nil
}
