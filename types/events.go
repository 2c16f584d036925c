package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// EventKey identifies an observed log.
type EventKey struct {
	ChainID     uint64 `json:"chainId"`
	BlockNumber uint64 `json:"blockNumber"`
	LogIndex    uint   `json:"logIndex"`
}

// BridgeOperationRecord is a projection of a BridgeOp event.
type BridgeOperationRecord struct {
	EventKey

	TxHash    common.Hash    `json:"txHash"`
	Operator  common.Address `json:"operator"`
	User      common.Address `json:"user"`
	Amount    *big.Int       `json:"amount"`
	Operation uint8          `json:"operation"`
	Nonce     *big.Int       `json:"nonce"`
}

// NonceRecord is a projection of a NonceUsed event.
type NonceRecord struct {
	EventKey

	TxHash   common.Hash    `json:"txHash"`
	Operator common.Address `json:"operator"`
	Nonce    *big.Int       `json:"nonce"`
}
