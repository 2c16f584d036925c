// Package roles maps the governance contracts' role names to their on-chain
// identifiers.
package roles

import (
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	sdkerrors "github.com/govkit/govsync/sdk/errors"
)

const (
	AdminRole            = "ADMIN_ROLE"
	ContractOperatorRole = "CONTRACT_OPERATOR_ROLE"
	BridgeOperatorRole   = "BRIDGE_OPERATOR_ROLE"
	PoolAdminRole        = "POOL_ADMIN_ROLE"
	// DefaultAdminRole is the OpenZeppelin sentinel whose identifier is zero.
	DefaultAdminRole = "DEFAULT_ADMIN_ROLE"
)

var (
	byName = map[string]common.Hash{
		AdminRole:            crypto.Keccak256Hash([]byte(AdminRole)),
		ContractOperatorRole: crypto.Keccak256Hash([]byte(ContractOperatorRole)),
		BridgeOperatorRole:   crypto.Keccak256Hash([]byte(BridgeOperatorRole)),
		PoolAdminRole:        crypto.Keccak256Hash([]byte(PoolAdminRole)),
		DefaultAdminRole:     {},
	}
	byHash = invert(byName)
)

func invert(m map[string]common.Hash) map[common.Hash]string {
	out := make(map[common.Hash]string, len(m))
	for name, hash := range m {
		out[hash] = name
	}

	return out
}

// Hash returns the identifier of a known role name. Arbitrary strings are
// never hashed: a role nobody granted would look valid and do nothing.
func Hash(name string) (common.Hash, error) {
	hash, ok := byName[name]
	if !ok {
		return common.Hash{}, sdkerrors.NewUnknownRoleError(name)
	}

	return hash, nil
}

// Name returns the role name of a known identifier.
func Name(hash common.Hash) (string, bool) {
	name, ok := byHash[hash]
	return name, ok
}

// Label returns the role name when known and the hex identifier otherwise.
func Label(hash common.Hash) string {
	if name, ok := Name(hash); ok {
		return name
	}

	return hash.Hex()
}

// Names returns the known role names in lexical order.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
