package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is the state reconstructed by one synchronization pass. It is
// published as a value; consumers must treat it as read-only.
type Snapshot struct {
	PassID      string         `json:"passId"`
	Target      Target         `json:"target"`
	Address     common.Address `json:"address"`
	BlockNumber uint64         `json:"blockNumber"`
	SyncedAt    time.Time      `json:"syncedAt"`

	Proposals            []Proposal                 `json:"proposals"`
	VestingCapTable      []VestingCap               `json:"vestingCapTable,omitempty"`
	RoleConfigs          map[common.Hash]RoleConfig `json:"roleConfigs"`
	WhitelistedAddresses []AddressSetEntry          `json:"whitelistedAddresses,omitempty"`
	BlacklistedAddresses []AddressSetEntry          `json:"blacklistedAddresses,omitempty"`
	SubstrateMappings    []SubstrateMapping         `json:"substrateMappings,omitempty"`
	BridgeOpEvents       []BridgeOperationRecord    `json:"bridgeOpEvents,omitempty"`
	NonceEvents          []NonceRecord              `json:"nonceEvents,omitempty"`
	TGEStatus            *TGEStatus                 `json:"tgeStatus,omitempty"`

	// PartialFailures counts units skipped because they could not be read.
	PartialFailures int `json:"partialFailures"`
}
