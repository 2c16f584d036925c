package revert

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/govkit/govsync/roles"
	sdkerrors "github.com/govkit/govsync/sdk/errors"
	"github.com/govkit/govsync/types"
)

const secondsPerDay = 24 * 60 * 60

// Kinds of recognised reverts.
var (
	ErrUnauthorized          = errors.New("unauthorized account")
	ErrUsedNonce             = errors.New("nonce already used")
	ErrAmountNotPositive     = errors.New("amount must be positive")
	ErrExceedsMaximumSupply  = errors.New("exceeds maximum supply")
	ErrLowAllowance          = errors.New("allowance too low")
	ErrUnsupported           = errors.New("unsupported operation")
	ErrCliffNotReached       = errors.New("cliff not reached")
	ErrExceedsRoleLimit      = errors.New("exceeds role transaction limit")
	ErrProposalNotFound      = errors.New("proposal not found")
	ErrProposalExecuted      = errors.New("proposal already executed")
	ErrProposalExpired       = errors.New("proposal expired")
	ErrAlreadyApproved       = errors.New("proposal already approved")
	ErrInsufficientApprovals = errors.New("insufficient approvals")
	ErrExecutionDelay        = errors.New("execution delay not met")
	ErrPaused                = errors.New("contract paused")

	// ErrReverted is a plain string revert reason.
	ErrReverted = errors.New("reverted")
	// ErrUnrecognized is a revert that matched no registered entry.
	ErrUnrecognized = errors.New("unrecognized revert")
)

func defaultEntries() []Entry {
	return []Entry{
		{Name: "AccessControlUnauthorizedAccount", Kind: ErrUnauthorized, Format: func(args []any) string {
			account, okA := argAddress(args, 0)
			role, okR := argHash(args, 1)
			if !okA || !okR {
				return "account is missing the required role"
			}

			return fmt.Sprintf("account %s is missing role %s", account.Hex(), roles.Label(role))
		}},
		{Name: "UsedNonce", Kind: ErrUsedNonce, Format: func(args []any) string {
			if n, ok := argBig(args, 0); ok {
				return fmt.Sprintf("nonce %s has already been used", n)
			}

			return "nonce has already been used"
		}},
		{Name: "AmountMustBePositive", Kind: ErrAmountNotPositive, Format: func([]any) string {
			return "amount must be greater than 0"
		}},
		{Name: "ExceedsMaximumSupply", Kind: ErrExceedsMaximumSupply, Format: func(args []any) string {
			req, okR := argBig(args, 0)
			maxSupply, okM := argBig(args, 1)
			if !okR || !okM {
				return "amount exceeds the maximum supply"
			}

			return fmt.Sprintf("amount %s exceeds the maximum supply %s", req, maxSupply)
		}},
		{Name: "LowAllowance", Kind: ErrLowAllowance, Format: func(args []any) string {
			allowance, okA := argBig(args, 0)
			required, okR := argBig(args, 1)
			if !okA || !okR {
				return "allowance is too low"
			}

			return fmt.Sprintf("allowance %s is below the required %s", allowance, required)
		}},
		{Name: "Unsupported", Kind: ErrUnsupported, Format: func([]any) string {
			return "operation is not supported by this contract"
		}},
		{Name: "CliffNotReached", Kind: ErrCliffNotReached, Format: func(args []any) string {
			now, okN := argBig(args, 0)
			cliffEnd, okC := argBig(args, 1)
			if !okN || !okC {
				return "cliff period has not been reached"
			}

			return fmt.Sprintf("cliff not reached: %d days remaining", DaysRemaining(now, cliffEnd))
		}},
		{Name: "ExceedsRoleTransactionLimit", Kind: ErrExceedsRoleLimit, Format: func(args []any) string {
			role, okR := argHash(args, 0)
			amount, okA := argBig(args, 1)
			limit, okL := argBig(args, 2)
			if !okR || !okA || !okL {
				return "amount exceeds the role transaction limit"
			}

			return fmt.Sprintf("amount %s exceeds the %s transaction limit %s", amount, roles.Label(role), limit)
		}},
		{Name: "ProposalNotFound", Kind: ErrProposalNotFound, Format: proposalMessage("does not exist")},
		{Name: "ProposalAlreadyExecuted", Kind: ErrProposalExecuted, Format: proposalMessage("has already been executed")},
		{Name: "ProposalExpired", Kind: ErrProposalExpired, Format: proposalMessage("has expired")},
		{Name: "AlreadyApproved", Kind: ErrAlreadyApproved, Format: func(args []any) string {
			id, okI := argHash(args, 0)
			approver, okA := argAddress(args, 1)
			if !okI || !okA {
				return "proposal has already been approved by this account"
			}

			return fmt.Sprintf("%s has already approved proposal %s", approver.Hex(), id.Hex())
		}},
		{Name: "InsufficientApprovals", Kind: ErrInsufficientApprovals, Format: func(args []any) string {
			have, okH := argBig(args, 0)
			need, okN := argBig(args, 1)
			if !okH || !okN {
				return "proposal does not have enough approvals"
			}

			return fmt.Sprintf("proposal has %s of %s required approvals", have, need)
		}},
		{Name: "ExecutionDelayNotMet", Kind: ErrExecutionDelay, Format: func(args []any) string {
			at, ok := argBig(args, 0)
			if !ok || !at.IsInt64() {
				return "execution delay has not passed"
			}

			return "execution delay has not passed: executable at " + time.Unix(at.Int64(), 0).UTC().Format(time.RFC3339)
		}},
		{Name: "InvalidQuorum", Kind: sdkerrors.ErrInvalidQuorum, Format: func([]any) string {
			return fmt.Sprintf("quorum must be between %d and %d", types.MinQuorum, types.MaxQuorum)
		}},
		{Name: "EnforcedPause", Kind: ErrPaused, Format: func([]any) string {
			return "contract is paused"
		}},
	}
}

// DaysRemaining returns the whole days, rounded up, from now until end.
func DaysRemaining(now, end *big.Int) uint64 {
	if end.Cmp(now) <= 0 {
		return 0
	}

	diff := new(big.Int).Sub(end, now)
	days := new(big.Int).Add(diff, big.NewInt(secondsPerDay-1))
	days.Quo(days, big.NewInt(secondsPerDay))

	return days.Uint64()
}

func proposalMessage(suffix string) func([]any) string {
	return func(args []any) string {
		if id, ok := argHash(args, 0); ok {
			return fmt.Sprintf("proposal %s %s", id.Hex(), suffix)
		}

		return "proposal " + suffix
	}
}

func argBig(args []any, i int) (*big.Int, bool) {
	if i >= len(args) {
		return nil, false
	}

	switch v := args[i].(type) {
	case *big.Int:
		return v, v != nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), true
	case uint64:
		return new(big.Int).SetUint64(v), true
	case string:
		return parseBig(v)
	default:
		return nil, false
	}
}

func argAddress(args []any, i int) (common.Address, bool) {
	if i >= len(args) {
		return common.Address{}, false
	}

	switch v := args[i].(type) {
	case common.Address:
		return v, true
	case string:
		if common.IsHexAddress(v) {
			return common.HexToAddress(v), true
		}
	}

	return common.Address{}, false
}

func argHash(args []any, i int) (common.Hash, bool) {
	if i >= len(args) {
		return common.Hash{}, false
	}

	switch v := args[i].(type) {
	case [32]byte:
		return common.Hash(v), true
	case common.Hash:
		return v, true
	case string:
		if hash, err := roles.Hash(v); err == nil {
			return hash, true
		}
	}

	return common.Hash{}, false
}

func parseBig(s string) (*big.Int, bool) {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, false
	}

	return n, true
}
