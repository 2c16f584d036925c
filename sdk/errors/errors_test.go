package sdkerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      error
		expected string
	}{
		{NewUnknownRoleError("OWNER_ROLE"), "unknown role: role=OWNER_ROLE"},
		{NewInvalidQuorumError(0), "invalid quorum: quorum=0"},
		{NewConnectivityError("approveProposal", ErrNotConnected), "approveProposal: no connected signing account"},
		{NewPartialReadError("proposals", "index 3", errors.New("boom")), "proposals: skipped index 3: boom"},
		{&RateLimitError{FromBlock: 1, ToBlock: 100, Err: errors.New("too wide")}, "block range 1-100 rejected: too wide"},
		{&SubmissionError{Method: "executeProposal", Err: errors.New("nonce too low")}, "executeProposal submission failed: nonce too low"},
		{
			&SimulationRevertError{Method: "createProposal", Message: "amount must be greater than 0"},
			"createProposal would revert: amount must be greater than 0",
		},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.err.Error())
	}
}

func TestSimulationRevertError_Unwrap(t *testing.T) {
	t.Parallel()

	kind := errors.New("kind")
	cause := errors.New("execution reverted")
	err := fmt.Errorf("wrapped: %w", &SimulationRevertError{Method: "m", Kind: kind, Err: cause})

	require.ErrorIs(t, err, kind)
	require.ErrorIs(t, err, cause)

	var revertErr *SimulationRevertError
	require.ErrorAs(t, err, &revertErr)
	assert.Equal(t, "m", revertErr.Method)
}

func TestSubmissionError_WithHash(t *testing.T) {
	t.Parallel()

	err := &SubmissionError{Method: "setRoleQuorum", Hash: common.HexToHash("0x01"), Err: errors.New("reverted")}

	assert.Contains(t, err.Error(), "setRoleQuorum transaction 0x0000000000000000000000000000000000000000000000000000000000000001 failed")
}

type codedError struct {
	code int
	msg  string
}

func (e codedError) Error() string  { return e.msg }
func (e codedError) ErrorCode() int { return e.code }

func TestIsBlockRangeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "alchemy message", err: errors.New("Log response size exceeded. You can make eth_getLogs requests with up to a 10 block range"), want: true},
		{name: "infura message", err: errors.New("query returned more than 10000 results"), want: true},
		{name: "generic range", err: errors.New("block range is too wide"), want: true},
		{name: "limit exceeded code", err: codedError{code: -32005, msg: "limit exceeded"}, want: true},
		{name: "invalid params about blocks", err: codedError{code: -32602, msg: "invalid block span"}, want: true},
		{name: "invalid params unrelated", err: codedError{code: -32602, msg: "invalid address"}, want: false},
		{name: "typed", err: fmt.Errorf("x: %w", &RateLimitError{Err: errors.New("y")}), want: true},
		{name: "network failure", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsBlockRangeError(tt.err))
		})
	}
}
