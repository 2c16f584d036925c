package types

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ProposalStatus is the stored status of a proposal. Expiry is never stored
// on-chain; see Lifecycle.
type ProposalStatus uint8

const (
	ProposalStatusPending ProposalStatus = iota
	ProposalStatusExecuted
)

func (s ProposalStatus) String() string {
	if s == ProposalStatusExecuted {
		return "Executed"
	}

	return "Pending"
}

// Lifecycle is the derived state of a proposal at a given instant.
type Lifecycle string

const (
	LifecyclePending  Lifecycle = "Pending"
	LifecycleExecuted Lifecycle = "Executed"
	LifecycleExpired  Lifecycle = "Expired"
)

// Proposal is a decoded entry of the governance contract's proposals mapping.
type Proposal struct {
	ProposalID    common.Hash    `json:"proposalId"`
	ProposalType  ProposalType   `json:"proposalType"`
	Target        common.Address `json:"target"`
	NumericID     *big.Int       `json:"numericId"`
	Role          common.Hash    `json:"role"`
	TokenAddress  common.Address `json:"tokenAddress"`
	Amount        *big.Int       `json:"amount"`
	Status        ProposalStatus `json:"status"`
	Approvals     uint64         `json:"approvals"`
	ExpiryTime    time.Time      `json:"expiryTime"`
	ExecutionTime time.Time      `json:"executionTime"`
}

// IsExpired reports whether the proposal is past its expiry and was never
// executed.
func (p Proposal) IsExpired(now time.Time) bool {
	return p.Status != ProposalStatusExecuted && now.After(p.ExpiryTime)
}

// CanExecute reports whether the proposal is pending, its execution time has
// been reached and it collected at least quorum approvals.
func (p Proposal) CanExecute(now time.Time, quorum uint64) bool {
	return p.Status == ProposalStatusPending &&
		!now.Before(p.ExecutionTime) &&
		p.Approvals >= quorum
}

// Lifecycle returns the derived state of the proposal at now.
func (p Proposal) Lifecycle(now time.Time) Lifecycle {
	switch {
	case p.Status == ProposalStatusExecuted:
		return LifecycleExecuted
	case p.IsExpired(now):
		return LifecycleExpired
	default:
		return LifecyclePending
	}
}

// ProposalView is a proposal evaluated against a clock and a quorum.
type ProposalView struct {
	Proposal

	State          Lifecycle `json:"state"`
	Expired        bool      `json:"isExpired"`
	Executable     bool      `json:"canExecute"`
	Quorum         uint64    `json:"quorum"`
	QuorumFallback bool      `json:"quorumFallback"`
}
