package membership_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govkit/govsync/membership"
)

const opEventsABI = `[
  {"type":"event","name":"WhitelistOp","anonymous":false,"inputs":[
    {"name":"target","type":"address","indexed":true},
    {"name":"operator","type":"address","indexed":true},
    {"name":"lockTime","type":"uint256","indexed":false},
    {"name":"operation","type":"uint8","indexed":false}]},
  {"type":"event","name":"SubstrateAddressOp","anonymous":false,"inputs":[
    {"name":"target","type":"address","indexed":true},
    {"name":"operator","type":"address","indexed":true},
    {"name":"substrateAddress","type":"bytes32","indexed":false},
    {"name":"operation","type":"uint8","indexed":false}]}
]`

func parseOpABI(t *testing.T) abi.ABI {
	t.Helper()

	parsed, err := abi.JSON(strings.NewReader(opEventsABI))
	require.NoError(t, err)

	return parsed
}

func opLog(t *testing.T, event abi.Event, target, operator common.Address, block uint64, idx uint, data ...any) gethtypes.Log {
	t.Helper()

	packed, err := event.Inputs.NonIndexed().Pack(data...)
	require.NoError(t, err)

	return gethtypes.Log{
		Topics:      []common.Hash{event.ID, common.BytesToHash(target.Bytes()), common.BytesToHash(operator.Bytes())},
		Data:        packed,
		BlockNumber: block,
		Index:       idx,
	}
}

func TestAddressOpEvents(t *testing.T) {
	t.Parallel()

	parsed := parseOpABI(t)
	event := parsed.Events["WhitelistOp"]

	logs := []gethtypes.Log{
		opLog(t, event, alice, op, 10, 0, big.NewInt(1700000000), uint8(1)),
		opLog(t, event, bob, op, 11, 0, big.NewInt(0), uint8(1)),
		opLog(t, event, bob, carol, 12, 4, big.NewInt(0), uint8(2)),
	}

	events, err := membership.AddressOpEvents(event, logs)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, alice, events[0].Address)
	assert.Equal(t, op, events[0].Operator)
	assert.Equal(t, uint64(1700000000), events[0].Value)
	assert.Equal(t, membership.OpRemove, events[2].Operation)
	assert.Equal(t, uint(4), events[2].LogIndex)

	set := membership.AddressSet(membership.Reconstruct(events))
	require.Len(t, set, 1)
	assert.Equal(t, alice, set[0].Address)
	assert.True(t, set[0].Status)
	assert.Equal(t, uint64(1700000000), set[0].LockTime)
}

func TestSubstrateOpEvents(t *testing.T) {
	t.Parallel()

	parsed := parseOpABI(t)
	event := parsed.Events["SubstrateAddressOp"]
	substrate := common.HexToHash("0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d")

	logs := []gethtypes.Log{
		opLog(t, event, alice, op, 3, 0, [32]byte(substrate), uint8(1)),
	}

	events, err := membership.SubstrateOpEvents(event, logs)
	require.NoError(t, err)

	mappings := membership.SubstrateMappings(membership.Reconstruct(events))
	require.Len(t, mappings, 1)
	assert.Equal(t, substrate, mappings[0].SubstrateAddress)
	assert.Equal(t, alice, mappings[0].Address)
}

func TestDecodeLog_MissingTopics(t *testing.T) {
	t.Parallel()

	parsed := parseOpABI(t)
	event := parsed.Events["WhitelistOp"]

	log := opLog(t, event, alice, op, 1, 0, big.NewInt(0), uint8(1))
	log.Topics = log.Topics[:1]

	_, err := membership.DecodeLog(event, log)
	require.ErrorContains(t, err, "topics")
}
