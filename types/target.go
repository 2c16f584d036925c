package types

import "fmt"

// Target names one of the governed contracts.
type Target string

const (
	TargetToken        Target = "token"
	TargetVesting      Target = "vesting"
	TargetAirdrop      Target = "airdrop"
	TargetMining       Target = "mining"
	TargetStoragePool  Target = "storage-pool"
	TargetRewardEngine Target = "reward-engine"
	TargetStaking      Target = "staking"
)

// Targets lists every known target.
var Targets = []Target{
	TargetToken,
	TargetVesting,
	TargetAirdrop,
	TargetMining,
	TargetStoragePool,
	TargetRewardEngine,
	TargetStaking,
}

// ParseTarget converts s into a Target.
func ParseTarget(s string) (Target, error) {
	for _, t := range Targets {
		if string(t) == s {
			return t, nil
		}
	}

	return "", fmt.Errorf("unknown target %q", s)
}

// HasVestingCaps reports whether the target exposes the cap table.
func (t Target) HasVestingCaps() bool {
	return t == TargetVesting || t == TargetMining
}

// HasAddressSets reports whether the target emits whitelist and blacklist ops.
func (t Target) HasAddressSets() bool {
	return t == TargetToken
}

// HasBridgeHistory reports whether the target emits bridge and nonce events.
func (t Target) HasBridgeHistory() bool {
	return t == TargetToken
}

// HasSubstrateMappings reports whether the target maps substrate accounts.
func (t Target) HasSubstrateMappings() bool {
	return t == TargetMining
}
