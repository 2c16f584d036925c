package govsync

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/govkit/govsync/dispatch"
	"github.com/govkit/govsync/roles"
	"github.com/govkit/govsync/types"
)

var proposalTypeNames = map[string]types.ProposalType{
	"add-role":                   types.ProposalTypeAddRole,
	"remove-role":                types.ProposalTypeRemoveRole,
	"upgrade":                    types.ProposalTypeUpgrade,
	"add-distribution-wallets":   types.ProposalTypeAddDistributionWallets,
	"remove-distribution-wallet": types.ProposalTypeRemoveDistributionWallet,
	"transfer-to-storage":        types.ProposalTypeTransferToStorage,
	"mint":                       types.ProposalTypeMint,
}

func parseProposalType(s string) (types.ProposalType, error) {
	t, ok := proposalTypeNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown proposal type %q", s)
	}

	return t, nil
}

func buildProposeCmd(flags *globalFlags) *cobra.Command {
	var (
		kind, id, target, role, amount, token string
	)

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Create a governance proposal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := dispatch.ProposalRequest{}

			var err error
			if req.Type, err = parseProposalType(kind); err != nil {
				return err
			}
			if req.ID, err = parseAmount("id", id); err != nil {
				return err
			}
			if req.Amount, err = parseAmount("amount", amount); err != nil {
				return err
			}
			if target != "" {
				if req.Target, err = parseAddress("target", target); err != nil {
					return err
				}
			}
			if token != "" {
				if req.TokenAddress, err = parseAddress("token", token); err != nil {
					return err
				}
			}
			if role != "" {
				if req.Role, err = roles.Hash(role); err != nil {
					return err
				}
			}

			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				res, err := a.dispatcher().CreateProposal(ctx, req)
				if err != nil {
					return err
				}

				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVar(&kind, "type", "", "Proposal type (mint, upgrade, add-role, ...)")
	cmd.Flags().StringVar(&id, "id", "0", "Numeric id, e.g. the cap id")
	cmd.Flags().StringVar(&target, "to", "", "Target address")
	cmd.Flags().StringVar(&role, "role", "", "Role name")
	cmd.Flags().StringVar(&amount, "amount", "0", "Amount in base units")
	cmd.Flags().StringVar(&token, "token", "", "Token address")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func buildProposalIDCmd(
	flags *globalFlags, use, short string,
	run func(ctx context.Context, d *dispatch.Dispatcher, id common.Hash) (types.TransactionResult, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <proposal-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseHash("proposalId", args[0])
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				res, err := run(ctx, a.dispatcher(), id)
				if err != nil {
					return err
				}

				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}
}

func buildApproveCmd(flags *globalFlags) *cobra.Command {
	return buildProposalIDCmd(flags, "approve", "Approve a pending proposal",
		func(ctx context.Context, d *dispatch.Dispatcher, id common.Hash) (types.TransactionResult, error) {
			return d.ApproveProposal(ctx, id)
		})
}

func buildExecuteCmd(flags *globalFlags) *cobra.Command {
	return buildProposalIDCmd(flags, "execute", "Execute an approved proposal",
		func(ctx context.Context, d *dispatch.Dispatcher, id common.Hash) (types.TransactionResult, error) {
			return d.ExecuteProposal(ctx, id)
		})
}

func buildCleanupCmd(flags *globalFlags) *cobra.Command {
	var maxToCheck uint64

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Prune expired proposals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				res, err := a.dispatcher().CleanupExpiredProposals(ctx, maxToCheck)
				if err != nil {
					return err
				}

				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().Uint64Var(&maxToCheck, "max", 50, "Maximum number of proposals to check")

	return cmd
}
