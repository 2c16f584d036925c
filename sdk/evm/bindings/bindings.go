// Package bindings embeds the default ABIs of the governed contracts.
//
// Every target shares the governance interface and the custom error set.
// Targets with extra surface (token events, the vesting cap table, mining
// substrate mappings, pool transfers) add a fragment on top.
package bindings

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"

	"github.com/govkit/govsync/types"
)

//go:embed abi/*.json
var abiFS embed.FS

var (
	GovernanceMetaData  = mustMetaData("governance.json", "errors.json")
	TokenMetaData       = mustMetaData("governance.json", "errors.json", "token.json")
	VestingMetaData     = mustMetaData("governance.json", "errors.json", "vesting.json")
	MiningMetaData      = mustMetaData("governance.json", "errors.json", "mining.json")
	StoragePoolMetaData = mustMetaData("governance.json", "errors.json", "storage_pool.json")
)

// MetaDataFor returns the ABI metadata of a target. Targets without a
// dedicated fragment use the shared governance interface.
func MetaDataFor(target types.Target) *bind.MetaData {
	switch target {
	case types.TargetToken:
		return TokenMetaData
	case types.TargetVesting:
		return VestingMetaData
	case types.TargetMining:
		return MiningMetaData
	case types.TargetStoragePool:
		return StoragePoolMetaData
	case types.TargetAirdrop, types.TargetRewardEngine, types.TargetStaking:
		return GovernanceMetaData
	default:
		return GovernanceMetaData
	}
}

// ABIFor parses the default ABI of a target.
func ABIFor(target types.Target) (*abi.ABI, error) {
	return MetaDataFor(target).GetAbi()
}

// WithOverride merges an externally supplied ABI JSON array on top of the
// shared governance interface and error set. Entries of the override win on
// name clashes.
func WithOverride(overrideJSON []byte) (*abi.ABI, error) {
	merged, err := merge(overrideJSON, "governance.json", "errors.json")
	if err != nil {
		return nil, err
	}

	return (&bind.MetaData{ABI: merged}).GetAbi()
}

func mustMetaData(files ...string) *bind.MetaData {
	merged, err := merge(nil, files...)
	if err != nil {
		panic(err)
	}

	return &bind.MetaData{ABI: merged}
}

func merge(override []byte, files ...string) (string, error) {
	type entry struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}

	var (
		out  []json.RawMessage
		seen = map[entry]int{}
	)
	add := func(raw []json.RawMessage) error {
		for _, r := range raw {
			var e entry
			if err := json.Unmarshal(r, &e); err != nil {
				return err
			}
			if i, ok := seen[e]; ok && e.Name != "" {
				out[i] = r

				continue
			}
			seen[e] = len(out)
			out = append(out, r)
		}

		return nil
	}

	for _, f := range files {
		data, err := abiFS.ReadFile("abi/" + f)
		if err != nil {
			return "", err
		}
		var raw []json.RawMessage
		if err = json.Unmarshal(data, &raw); err != nil {
			return "", fmt.Errorf("parse %s: %w", f, err)
		}
		if err = add(raw); err != nil {
			return "", fmt.Errorf("parse %s: %w", f, err)
		}
	}

	if len(override) > 0 {
		var raw []json.RawMessage
		if err := json.Unmarshal(override, &raw); err != nil {
			return "", fmt.Errorf("parse ABI override: %w", err)
		}
		if err := add(raw); err != nil {
			return "", fmt.Errorf("parse ABI override: %w", err)
		}
	}

	merged, err := json.Marshal(out)
	if err != nil {
		return "", err
	}

	return string(merged), nil
}
