// Package dispatch builds, simulates and submits governance writes.
//
// Every action is validated client-side, then dry run against the node and
// only submitted when the dry run succeeds. A failed dry run is returned as a
// *sdkerrors.SimulationRevertError decoded by the revert registry and never
// reaches submission.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/go-playground/validator/v10"

	"github.com/govkit/govsync/internal/metrics"
	"github.com/govkit/govsync/revert"
	"github.com/govkit/govsync/sdk"
	sdkerrors "github.com/govkit/govsync/sdk/errors"
	"github.com/govkit/govsync/types"
)

// Dispatch outcomes recorded in metrics.
const (
	resultSubmitted = "submitted"
	resultReverted  = "reverted"
	resultRejected  = "rejected"
	resultFailed    = "failed"
)

// RoleConfigRefresher is refreshed after a confirmed role configuration
// write. rolecfg.Cache implements it.
type RoleConfigRefresher interface {
	Refresh(ctx context.Context) (map[common.Hash]types.RoleConfig, error)
}

// WriteEvent describes a successful submission to the after-write hook.
type WriteEvent struct {
	Result types.TransactionResult
	// Receipt is set when the action already waited for the transaction to
	// be mined.
	Receipt *gethtypes.Receipt
	// RoleConfigsRefreshed is set when the role configuration cache was
	// refreshed after the receipt.
	RoleConfigsRefreshed bool
}

// AfterWriteFunc is invoked after every successful submission, before the
// action returns. It must not wait for the transaction.
type AfterWriteFunc func(ctx context.Context, ev WriteEvent)

// Dispatcher submits the governance writes of one target.
type Dispatcher struct {
	port        sdk.AccessPort
	target      types.Target
	address     common.Address
	contractABI *abi.ABI
	reverts     *revert.Registry
	roleConfigs RoleConfigRefresher
	afterWrite  AfterWriteFunc
	metrics     *metrics.Metrics
	validate    *validator.Validate
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRevertRegistry replaces the registry built from the contract ABI.
func WithRevertRegistry(r *revert.Registry) Option {
	return func(d *Dispatcher) {
		d.reverts = r
	}
}

// WithRoleConfigs sets the cache refreshed after confirmed role writes.
func WithRoleConfigs(r RoleConfigRefresher) Option {
	return func(d *Dispatcher) {
		d.roleConfigs = r
	}
}

// WithAfterWrite sets the hook invoked after every successful submission.
func WithAfterWrite(fn AfterWriteFunc) Option {
	return func(d *Dispatcher) {
		d.afterWrite = fn
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New returns a dispatcher for the governance contract of target at address.
// A zero address leaves the contract unresolved: every action then fails with
// sdkerrors.ErrContractUnresolved.
func New(port sdk.AccessPort, target types.Target, address common.Address, contractABI *abi.ABI, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		port:        port,
		target:      target,
		address:     address,
		contractABI: contractABI,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.reverts == nil {
		d.reverts = revert.NewRegistry(contractABI)
	}

	return d
}

// Target returns the governance target the dispatcher writes to.
func (d *Dispatcher) Target() types.Target {
	return d.target
}

// preflight checks the signer and contract address without touching the
// network.
func (d *Dispatcher) preflight(method string) error {
	if _, ok := d.port.Account(); !ok {
		return sdkerrors.NewConnectivityError(method, sdkerrors.ErrNotConnected)
	}
	if d.address == (common.Address{}) {
		return sdkerrors.NewConnectivityError(method, sdkerrors.ErrContractUnresolved)
	}

	return nil
}

func (d *Dispatcher) supports(method string) error {
	if d.contractABI == nil {
		return sdkerrors.NewValidationError("method", method, sdkerrors.ErrUnsupportedMethod)
	}
	if _, ok := d.contractABI.Methods[method]; !ok {
		return sdkerrors.NewValidationError("method", fmt.Sprintf("%s on %s", method, d.target), sdkerrors.ErrUnsupportedMethod)
	}

	return nil
}

// write runs the simulate then submit protocol for method.
func (d *Dispatcher) write(ctx context.Context, action, method string, args ...any) (types.TransactionResult, error) {
	if err := d.supports(method); err != nil {
		return d.reject(action, err)
	}
	if err := d.preflight(method); err != nil {
		return d.reject(action, err)
	}

	lggr := sdk.LoggerFrom(ctx)

	req, err := d.port.SimulateContract(ctx, d.call(method, args...))
	if err != nil {
		var connErr *sdkerrors.ConnectivityError
		if errors.As(err, &connErr) {
			return d.reject(action, err)
		}
		decoded := d.reverts.Decode(method, err)
		lggr.Infof("%s rejected by dry run: %v", action, decoded)
		d.metrics.Dispatched(action, resultReverted)

		return types.TransactionResult{}, decoded
	}

	hash, err := d.port.SendTransaction(ctx, req)
	if err != nil {
		d.metrics.Dispatched(action, resultFailed)

		return types.TransactionResult{}, &sdkerrors.SubmissionError{Method: method, Err: err}
	}
	lggr.Infof("%s submitted: tx %s", action, hash.Hex())
	d.metrics.Dispatched(action, resultSubmitted)

	return types.TransactionResult{Hash: hash, Action: action, Result: req.Result}, nil
}

func (d *Dispatcher) call(method string, args ...any) sdk.ContractCall {
	return sdk.ContractCall{
		Address: d.address,
		ABI:     d.contractABI,
		Method:  method,
		Args:    args,
	}
}

// submit is write followed by the after-write hook.
func (d *Dispatcher) submit(ctx context.Context, action, method string, args ...any) (types.TransactionResult, error) {
	res, err := d.write(ctx, action, method, args...)
	if err != nil {
		return res, err
	}
	d.notify(ctx, WriteEvent{Result: res})

	return res, nil
}

func (d *Dispatcher) notify(ctx context.Context, ev WriteEvent) {
	if d.afterWrite != nil {
		d.afterWrite(ctx, ev)
	}
}

// confirm waits for the receipt of a submitted transaction.
func (d *Dispatcher) confirm(ctx context.Context, method string, hash common.Hash) (*gethtypes.Receipt, error) {
	receipt, err := d.port.WaitForReceipt(ctx, hash)
	if err != nil {
		return nil, &sdkerrors.SubmissionError{Method: method, Hash: hash, Err: err}
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return receipt, &sdkerrors.SubmissionError{Method: method, Hash: hash, Err: sdkerrors.ErrTransactionReverted}
	}

	return receipt, nil
}

func (d *Dispatcher) reject(action string, err error) (types.TransactionResult, error) {
	d.metrics.Dispatched(action, resultRejected)

	return types.TransactionResult{}, err
}

// checkStruct validates a request and converts the first failure into a
// *sdkerrors.ValidationError.
func (d *Dispatcher) checkStruct(req any, kinds map[string]error) error {
	err := d.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return sdkerrors.NewValidationError("request", req, err)
	}
	fe := verrs[0]
	kind, ok := kinds[fe.Field()]
	if !ok {
		kind = sdkerrors.ErrInvalidArgument
	}

	return sdkerrors.NewValidationError(fe.Field(), fe.Value(), kind)
}

func (d *Dispatcher) checkVar(field string, value any, tag string, kind error) error {
	if err := d.validate.Var(value, tag); err != nil {
		return sdkerrors.NewValidationError(field, value, kind)
	}

	return nil
}
