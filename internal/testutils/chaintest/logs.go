package chaintest

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// MustEventLog builds a log of event emitted by address. topics are the
// indexed arguments in declaration order and data the non-indexed values. It
// panics if data does not match the event.
func MustEventLog(
	address common.Address, event abi.Event, block uint64, index uint, topics []common.Hash, data ...any,
) gethtypes.Log {
	packed, err := event.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		panic(err)
	}

	var key [16]byte
	binary.BigEndian.PutUint64(key[:8], block)
	binary.BigEndian.PutUint64(key[8:], uint64(index))

	return gethtypes.Log{
		Address:     address,
		Topics:      append([]common.Hash{event.ID}, topics...),
		Data:        packed,
		BlockNumber: block,
		Index:       index,
		TxHash:      crypto.Keccak256Hash(key[:]),
	}
}

// AddressTopic left pads an address into an indexed topic.
func AddressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}
