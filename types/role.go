package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// MinQuorum and MaxQuorum bound the quorum accepted by setRoleQuorum.
	MinQuorum = 1
	MaxQuorum = 65535
)

// RoleConfig is the current transaction limit and quorum of a role.
type RoleConfig struct {
	Role             common.Hash `json:"role"`
	Name             string      `json:"name,omitempty"`
	TransactionLimit *big.Int    `json:"transactionLimit"`
	Quorum           uint16      `json:"quorum"`
}
