package types

import "github.com/ethereum/go-ethereum/common"

// TransactionResult is returned by every dispatched write.
type TransactionResult struct {
	Hash   common.Hash `json:"hash"`
	Action string      `json:"action"`
	// Result holds the values returned by the dry run, e.g. the id of a
	// proposal about to be created.
	Result []any `json:"result,omitempty"`
}
