package proposals

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/govkit/govsync/types"
)

// DefaultQuorumFallback is used when the approver role's quorum cannot be
// resolved. It is not read from the contract and can misclassify
// executability for roles configured with another quorum; views built with
// it are flagged with QuorumFallback.
const DefaultQuorumFallback uint64 = 2

// QuorumSource resolves the quorum of a role. rolecfg.Cache implements it.
type QuorumSource interface {
	Quorum(role common.Hash) (uint64, bool)
}

// Evaluate derives the lifecycle state and executability of each proposal at
// now, using the quorum of approverRole.
func Evaluate(ps []types.Proposal, now time.Time, quorums QuorumSource, approverRole common.Hash) []types.ProposalView {
	quorum, fallback := DefaultQuorumFallback, true
	if quorums != nil {
		if q, ok := quorums.Quorum(approverRole); ok {
			quorum, fallback = q, false
		}
	}

	views := make([]types.ProposalView, 0, len(ps))
	for _, p := range ps {
		views = append(views, types.ProposalView{
			Proposal:       p,
			State:          p.Lifecycle(now),
			Expired:        p.IsExpired(now),
			Executable:     p.CanExecute(now, quorum),
			Quorum:         quorum,
			QuorumFallback: fallback,
		})
	}

	return views
}

// Actionable keeps the views that can still be approved or executed.
func Actionable(views []types.ProposalView) []types.ProposalView {
	out := make([]types.ProposalView, 0, len(views))
	for _, v := range views {
		if v.State == types.LifecyclePending {
			out = append(out, v)
		}
	}

	return out
}
