package membership

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/govkit/govsync/types"
)

// Field names shared by the WhitelistOp, BlacklistOp and SubstrateAddressOp
// events.
const (
	fieldTarget    = "target"
	fieldOperator  = "operator"
	fieldOperation = "operation"
	fieldLockTime  = "lockTime"
	fieldSubstrate = "substrateAddress"
)

// DecodeLog unpacks an *Op log into a field map, indexed and data fields
// alike.
func DecodeLog(event abi.Event, log gethtypes.Log) (map[string]any, error) {
	fields := map[string]any{}
	if len(log.Data) > 0 {
		if err := event.Inputs.NonIndexed().UnpackIntoMap(fields, log.Data); err != nil {
			return nil, fmt.Errorf("unpack %s data: %w", event.Name, err)
		}
	}

	var indexed abi.Arguments
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if len(log.Topics) < len(indexed)+1 {
		return nil, fmt.Errorf("%s log has %d topics, want %d", event.Name, len(log.Topics), len(indexed)+1)
	}
	if err := abi.ParseTopicsIntoMap(fields, indexed, log.Topics[1:]); err != nil {
		return nil, fmt.Errorf("parse %s topics: %w", event.Name, err)
	}

	return fields, nil
}

// AddressOpEvents decodes WhitelistOp/BlacklistOp logs. The optional lockTime
// field is carried as the event value.
func AddressOpEvents(event abi.Event, logs []gethtypes.Log) ([]Event[uint64], error) {
	out := make([]Event[uint64], 0, len(logs))
	for _, log := range logs {
		fields, err := DecodeLog(event, log)
		if err != nil {
			return nil, err
		}
		ev, err := baseEvent[uint64](fields, log)
		if err != nil {
			return nil, fmt.Errorf("%s at block %d: %w", event.Name, log.BlockNumber, err)
		}
		if lock, ok := fields[fieldLockTime].(*big.Int); ok && lock.IsUint64() {
			ev.Value = lock.Uint64()
		}
		out = append(out, ev)
	}

	return out, nil
}

// SubstrateOpEvents decodes SubstrateAddressOp logs.
func SubstrateOpEvents(event abi.Event, logs []gethtypes.Log) ([]Event[common.Hash], error) {
	out := make([]Event[common.Hash], 0, len(logs))
	for _, log := range logs {
		fields, err := DecodeLog(event, log)
		if err != nil {
			return nil, err
		}
		ev, err := baseEvent[common.Hash](fields, log)
		if err != nil {
			return nil, fmt.Errorf("%s at block %d: %w", event.Name, log.BlockNumber, err)
		}
		if sub, ok := fields[fieldSubstrate].([32]byte); ok {
			ev.Value = common.Hash(sub)
		}
		out = append(out, ev)
	}

	return out, nil
}

func baseEvent[V any](fields map[string]any, log gethtypes.Log) (Event[V], error) {
	target, ok := fields[fieldTarget].(common.Address)
	if !ok {
		return Event[V]{}, fmt.Errorf("missing %s", fieldTarget)
	}
	op, ok := fields[fieldOperation].(uint8)
	if !ok {
		return Event[V]{}, fmt.Errorf("missing %s", fieldOperation)
	}
	operator, _ := fields[fieldOperator].(common.Address)

	return Event[V]{
		Address:     target,
		Operator:    operator,
		Operation:   Operation(op),
		BlockNumber: log.BlockNumber,
		LogIndex:    log.Index,
	}, nil
}

// AddressSet converts reconstructed members into snapshot entries.
func AddressSet(members []Member[uint64]) []types.AddressSetEntry {
	out := make([]types.AddressSetEntry, 0, len(members))
	for _, m := range members {
		out = append(out, types.AddressSetEntry{
			Address:  m.Address,
			Status:   true,
			Operator: m.Operator,
			LockTime: m.Value,
		})
	}

	return out
}

// SubstrateMappings converts reconstructed members into snapshot entries.
func SubstrateMappings(members []Member[common.Hash]) []types.SubstrateMapping {
	out := make([]types.SubstrateMapping, 0, len(members))
	for _, m := range members {
		out = append(out, types.SubstrateMapping{
			Address:          m.Address,
			SubstrateAddress: m.Value,
			Operator:         m.Operator,
		})
	}

	return out
}
