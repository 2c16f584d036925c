package govsync

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/govkit/govsync/dispatch"
	"github.com/govkit/govsync/types"
)

func buildEmergencyCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "emergency <pause|unpause>",
		Short:     "Pause or unpause the contract",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{dispatch.EmergencyPause.String(), dispatch.EmergencyUnpause.String()},
		RunE: func(cmd *cobra.Command, args []string) error {
			op := dispatch.EmergencyPause
			if args[0] == dispatch.EmergencyUnpause.String() {
				op = dispatch.EmergencyUnpause
			}

			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				res, err := a.dispatcher().EmergencyAction(ctx, op)
				if err != nil {
					return err
				}

				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}
}

type proposedUpgrade struct {
	types.TransactionResult
	PendingImplementation common.Address `json:"pendingImplementation"`
}

func buildUpgradeCmd(flags *globalFlags) *cobra.Command {
	var propose bool

	cmd := &cobra.Command{
		Use:   "upgrade <implementation>",
		Short: "Upgrade the proxy, or propose the upgrade with --propose",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			impl, err := parseAddress("newImplementation", args[0])
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				d := a.dispatcher()
				if !propose {
					res, err := d.UpgradeContract(ctx, impl)
					if err != nil {
						return err
					}

					return printResult(cmd.OutOrStdout(), res)
				}

				res, pending, err := d.ProposeUpgrade(ctx, impl)
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), proposedUpgrade{TransactionResult: res, PendingImplementation: pending})
			})
		},
	}

	cmd.Flags().BoolVar(&propose, "propose", false, "Create an Upgrade proposal instead of upgrading directly")

	return cmd
}

func buildPoolCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Storage pool transfers",
	}

	var amount string
	toStorage := &cobra.Command{
		Use:   "to-storage",
		Short: "Move tokens from the pool back to storage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				res, err := a.dispatcher().TransferBackToStorage(ctx, value)
				if err != nil {
					return err
				}

				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}
	toStorage.Flags().StringVar(&amount, "amount", "", "Amount in base units")
	_ = toStorage.MarkFlagRequired("amount")

	var recipient, distAmount string
	distribute := &cobra.Command{
		Use:   "distribute",
		Short: "Pay tokens out of the pool",
		RunE: func(cmd *cobra.Command, _ []string) error {
			to, err := parseAddress("recipient", recipient)
			if err != nil {
				return err
			}
			value, err := parseAmount("amount", distAmount)
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				res, err := a.dispatcher().DistributeFromPool(ctx, to, value)
				if err != nil {
					return err
				}

				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}
	distribute.Flags().StringVar(&recipient, "to", "", "Recipient address")
	distribute.Flags().StringVar(&distAmount, "amount", "", "Amount in base units")
	_ = distribute.MarkFlagRequired("to")
	_ = distribute.MarkFlagRequired("amount")

	cmd.AddCommand(toStorage, distribute)

	return cmd
}

func buildSubstrateCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "substrate",
		Short: "Manage wallet to substrate account mappings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "map <wallet> <substrate-account>",
			Short: "Map a wallet to a 32 byte substrate account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				wallet, err := parseAddress("wallet", args[0])
				if err != nil {
					return err
				}
				account, err := parseHash("substrateAddress", args[1])
				if err != nil {
					return err
				}

				return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
					res, err := a.dispatcher().MapSubstrateAddress(ctx, wallet, account)
					if err != nil {
						return err
					}

					return printResult(cmd.OutOrStdout(), res)
				})
			},
		},
		&cobra.Command{
			Use:   "unmap <wallet>",
			Short: "Remove a wallet's substrate mapping",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				wallet, err := parseAddress("wallet", args[0])
				if err != nil {
					return err
				}

				return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
					res, err := a.dispatcher().UnmapSubstrateAddress(ctx, wallet)
					if err != nil {
						return err
					}

					return printResult(cmd.OutOrStdout(), res)
				})
			},
		},
	)

	return cmd
}

func buildCancelTxCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-tx <tx-hash>",
		Short: "Replace a pending transaction with a zero value self transfer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := parseHash("txHash", args[0])
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				res, err := a.dispatcher().CancelTransaction(ctx, hash)
				if err != nil {
					return fmt.Errorf("cancel %s: %w", hash.Hex(), err)
				}

				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}
}
