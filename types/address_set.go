package types

import "github.com/ethereum/go-ethereum/common"

// AddressSetEntry is a member of a reconstructed whitelist or blacklist.
type AddressSetEntry struct {
	Address  common.Address `json:"address"`
	Status   bool           `json:"status"`
	Operator common.Address `json:"operator"`
	LockTime uint64         `json:"lockTime,omitempty"`
}

// SubstrateMapping links an EVM address to a substrate account.
type SubstrateMapping struct {
	Address          common.Address `json:"address"`
	SubstrateAddress common.Hash    `json:"substrateAddress"`
	Operator         common.Address `json:"operator"`
}
