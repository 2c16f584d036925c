package govsync

import (
	"context"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/govkit/govsync/dispatch"
)

func buildVestingCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vesting",
		Short: "Vesting and mining cap actions",
	}

	cmd.AddCommand(buildAddCapCmd(flags), buildAddWalletCmd(flags))

	return cmd
}

func buildAddCapCmd(flags *globalFlags) *cobra.Command {
	var (
		name                                                        string
		capID, total, cliff, term, plan, initial, maxRewards, ratio string
	)

	cmd := &cobra.Command{
		Use:   "add-cap",
		Short: "Register a vesting cap, or a mining cap when rewards and ratio are given",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := dispatch.VestingCapRequest{Name: name}

			fields := []struct {
				name  string
				value string
				dst   **big.Int
			}{
				{"capId", capID, &req.CapID},
				{"totalAllocation", total, &req.TotalAllocation},
				{"cliff", cliff, &req.Cliff},
				{"vestingTerm", term, &req.VestingTerm},
				{"vestingPlan", plan, &req.VestingPlan},
				{"initialRelease", initial, &req.InitialRelease},
				{"maxRewardsPerMonth", maxRewards, &req.MaxRewardsPerMonth},
				{"ratio", ratio, &req.Ratio},
			}
			for _, f := range fields {
				if f.value == "" {
					continue
				}
				v, err := parseAmount(f.name, f.value)
				if err != nil {
					return err
				}
				*f.dst = v
			}

			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				res, err := a.dispatcher().AddVestingCap(ctx, req)
				if err != nil {
					return err
				}

				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&capID, "cap-id", "", "Cap id")
	f.StringVar(&name, "name", "", "Cap name, at most 32 bytes")
	f.StringVar(&total, "total", "", "Total allocation in base units")
	f.StringVar(&cliff, "cliff", "0", "Cliff in days")
	f.StringVar(&term, "term", "0", "Vesting term in months")
	f.StringVar(&plan, "plan", "0", "Vesting plan interval in months")
	f.StringVar(&initial, "initial-release", "0", "Initial release percentage")
	f.StringVar(&maxRewards, "max-rewards-per-month", "", "Mining only: monthly reward ceiling")
	f.StringVar(&ratio, "ratio", "", "Mining only: reward ratio")
	_ = cmd.MarkFlagRequired("cap-id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("total")
	cmd.MarkFlagsRequiredTogether("max-rewards-per-month", "ratio")

	return cmd
}

func buildAddWalletCmd(flags *globalFlags) *cobra.Command {
	var capID, wallet, amount string

	cmd := &cobra.Command{
		Use:   "add-wallet",
		Short: "Propose allocating part of a cap to a wallet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseAmount("capId", capID)
			if err != nil {
				return err
			}
			addr, err := parseAddress("wallet", wallet)
			if err != nil {
				return err
			}
			value, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				res, err := a.dispatcher().AddVestingWallet(ctx, id, addr, value)
				if err != nil {
					return err
				}

				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVar(&capID, "cap-id", "", "Cap id")
	cmd.Flags().StringVar(&wallet, "wallet", "", "Beneficiary wallet")
	cmd.Flags().StringVar(&amount, "amount", "", "Allocation in base units")
	_ = cmd.MarkFlagRequired("cap-id")
	_ = cmd.MarkFlagRequired("wallet")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
