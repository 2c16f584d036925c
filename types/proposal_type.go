package types

import "fmt"

// ProposalType is the on-chain tag stored in a proposal's first field. The
// meaning of the proposal's numeric id, target, role and amount depends on it.
type ProposalType uint8

const (
	ProposalTypeAddRole                  ProposalType = 1
	ProposalTypeRemoveRole               ProposalType = 2
	ProposalTypeUpgrade                  ProposalType = 3
	ProposalTypeAddDistributionWallets   ProposalType = 4
	ProposalTypeRemoveDistributionWallet ProposalType = 5
	ProposalTypeTransferToStorage        ProposalType = 6
	ProposalTypeMint                     ProposalType = 7
)

var proposalTypeNames = map[ProposalType]string{
	ProposalTypeAddRole:                  "AddRole",
	ProposalTypeRemoveRole:               "RemoveRole",
	ProposalTypeUpgrade:                  "Upgrade",
	ProposalTypeAddDistributionWallets:   "AddDistributionWallets",
	ProposalTypeRemoveDistributionWallet: "RemoveDistributionWallet",
	ProposalTypeTransferToStorage:        "TransferToStorage",
	ProposalTypeMint:                     "Mint",
}

func (t ProposalType) String() string {
	if name, ok := proposalTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("Unknown(%d)", uint8(t))
}

// Valid reports whether t is one of the known proposal tags.
func (t ProposalType) Valid() bool {
	_, ok := proposalTypeNames[t]
	return ok
}

// IsRoleProposal reports whether t grants or revokes a role.
func (t ProposalType) IsRoleProposal() bool {
	return t == ProposalTypeAddRole || t == ProposalTypeRemoveRole
}
