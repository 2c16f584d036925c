package sdkerrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
)

// Connectivity errors. These are returned before any network call is made.
var (
	ErrNotConnected       = errors.New("no connected signing account")
	ErrContractUnresolved = errors.New("governance contract address is not resolved")
)

// Validation errors.
var (
	ErrUnknownRole         = errors.New("unknown role")
	ErrInvalidQuorum       = errors.New("invalid quorum")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidLimit        = errors.New("invalid transaction limit")
	ErrInvalidProposalType = errors.New("invalid proposal type")
	ErrInvalidEmergencyOp  = errors.New("invalid emergency operation")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrUnsupportedMethod   = errors.New("method not supported by target")
)

// ErrTransactionReverted is wrapped by a SubmissionError for a transaction
// mined with a failed status.
var ErrTransactionReverted = errors.New("transaction reverted")

// ConnectivityError is returned when a write cannot be attempted because the
// signer, the contract address or the node is unavailable.
type ConnectivityError struct {
	Op  string
	Err error
}

func NewConnectivityError(op string, err error) *ConnectivityError {
	return &ConnectivityError{Op: op, Err: err}
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// ValidationError is returned for malformed client-side input.
type ValidationError struct {
	Field string
	Value any
	Err   error
}

func NewValidationError(field string, value any, err error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s=%v", e.Err, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewUnknownRoleError reports a role name outside the known set.
func NewUnknownRoleError(name string) *ValidationError {
	return NewValidationError("role", name, ErrUnknownRole)
}

// NewInvalidQuorumError reports a quorum outside [1, 65535].
func NewInvalidQuorumError(quorum uint64) *ValidationError {
	return NewValidationError("quorum", quorum, ErrInvalidQuorum)
}

// RateLimitError is a provider rejection of a log query range.
type RateLimitError struct {
	FromBlock uint64
	ToBlock   uint64
	Err       error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("block range %d-%d rejected: %v", e.FromBlock, e.ToBlock, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// PartialReadError describes a unit that was skipped during an aggregate read.
type PartialReadError struct {
	Component string
	Unit      string
	Err       error
}

func NewPartialReadError(component, unit string, err error) *PartialReadError {
	return &PartialReadError{Component: component, Unit: unit, Err: err}
}

func (e *PartialReadError) Error() string {
	return fmt.Sprintf("%s: skipped %s: %v", e.Component, e.Unit, e.Err)
}

func (e *PartialReadError) Unwrap() error {
	return e.Err
}

// SimulationRevertError is returned when the dry run of a write reverts. Kind
// is the sentinel of a recognised revert and is nil otherwise.
type SimulationRevertError struct {
	Method  string
	Reason  string
	Args    []any
	Message string
	RawData []byte
	Kind    error
	Err     error
}

func (e *SimulationRevertError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s would revert: %s", e.Method, e.Message)
	}

	return fmt.Sprintf("%s would revert: %v", e.Method, e.Err)
}

func (e *SimulationRevertError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// SubmissionError is returned when a transaction could not be sent or was
// mined with a failed status.
type SubmissionError struct {
	Method string
	Hash   common.Hash
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Hash != (common.Hash{}) {
		return fmt.Sprintf("%s transaction %s failed: %v", e.Method, e.Hash.Hex(), e.Err)
	}

	return fmt.Sprintf("%s submission failed: %v", e.Method, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Provider error codes and messages used to reject wide log queries.
const (
	rpcLimitExceededCode = -32005
	rpcInvalidParamsCode = -32602
)

var blockRangeMessages = []string{
	"block range",
	"range is too large",
	"range too large",
	"exceed maximum block range",
	"query returned more than",
	"ranges over",
	"up to a 10 block range",
	"eth_getlogs is limited",
	"too many blocks",
}

// IsBlockRangeError reports whether err is a provider complaint about the
// width of a log query.
func IsBlockRangeError(err error) bool {
	if err == nil {
		return false
	}

	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range blockRangeMessages {
		if strings.Contains(msg, pattern) {
			return true
		}
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case rpcLimitExceededCode:
			return true
		case rpcInvalidParamsCode:
			return strings.Contains(msg, "block")
		}
	}

	return false
}
