package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// VestingCap is an allocation bucket of the vesting or mining contract.
// MaxRewardsPerMonth and Ratio are only populated by the mining variant.
type VestingCap struct {
	CapID              *big.Int            `json:"capId"`
	Name               string              `json:"name"`
	TotalAllocation    *big.Int            `json:"totalAllocation"`
	Cliff              *big.Int            `json:"cliff"`
	VestingTerm        *big.Int            `json:"vestingTerm"`
	VestingPlan        *big.Int            `json:"vestingPlan"`
	InitialRelease     *big.Int            `json:"initialRelease"`
	StartDate          *big.Int            `json:"startDate"`
	AllocatedToWallets *big.Int            `json:"allocatedToWallets"`
	MaxRewardsPerMonth *big.Int            `json:"maxRewardsPerMonth,omitempty"`
	Ratio              *big.Int            `json:"ratio,omitempty"`
	Wallets            []VestingWalletInfo `json:"wallets"`
}

// VestingWalletInfo is the per (wallet, cap) allocation. Placeholder is set
// when the detail row could not be read; all amounts are then zero.
type VestingWalletInfo struct {
	CapID                 *big.Int       `json:"capId"`
	Address               common.Address `json:"address"`
	Name                  string         `json:"name"`
	Amount                *big.Int       `json:"amount"`
	Claimed               *big.Int       `json:"claimed"`
	MonthlyClaimedRewards *big.Int       `json:"monthlyClaimedRewards,omitempty"`
	LastClaimMonth        *big.Int       `json:"lastClaimMonth,omitempty"`
	Placeholder           bool           `json:"placeholder,omitempty"`
}

// PlaceholderWallet is substituted for a wallet whose detail row is missing.
func PlaceholderWallet(capID *big.Int, wallet common.Address) VestingWalletInfo {
	return VestingWalletInfo{
		CapID:       capID,
		Address:     wallet,
		Amount:      new(big.Int),
		Claimed:     new(big.Int),
		Placeholder: true,
	}
}

// TGEStatus reports whether the token generation event has happened.
type TGEStatus struct {
	Initiated bool   `json:"initiated"`
	Timestamp uint64 `json:"timestamp"`
}
