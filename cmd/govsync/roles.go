package govsync

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/govkit/govsync/roles"
	"github.com/govkit/govsync/types"
)

func buildSetQuorumCmd(flags *globalFlags) *cobra.Command {
	var (
		role   string
		quorum uint64
	)

	cmd := &cobra.Command{
		Use:   "set-quorum",
		Short: "Set the approval quorum of a role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				res, err := a.dispatcher().SetRoleQuorum(ctx, role, quorum)
				if err != nil {
					return err
				}

				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", roles.AdminRole, "Role name")
	cmd.Flags().Uint64Var(&quorum, "quorum", 0, "Number of approvals required, 1 to 65535")
	_ = cmd.MarkFlagRequired("quorum")

	return cmd
}

func buildSetLimitCmd(flags *globalFlags) *cobra.Command {
	var role, limit string

	cmd := &cobra.Command{
		Use:   "set-limit",
		Short: "Set the per transaction limit of a role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := parseAmount("limit", limit)
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				res, err := a.dispatcher().SetRoleTransactionLimit(ctx, role, value)
				if err != nil {
					return err
				}

				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", roles.AdminRole, "Role name")
	cmd.Flags().StringVar(&limit, "limit", "", "Limit in token base units")
	_ = cmd.MarkFlagRequired("limit")

	return cmd
}

func buildRoleProposalCmd(flags *globalFlags) *cobra.Command {
	var (
		role, account string
		revoke        bool
	)

	cmd := &cobra.Command{
		Use:   "role-proposal",
		Short: "Propose granting or revoking a role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := parseAddress("account", account)
			if err != nil {
				return err
			}
			kind := types.ProposalTypeAddRole
			if revoke {
				kind = types.ProposalTypeRemoveRole
			}

			return withApp(cmd.Context(), flags, func(ctx context.Context, a *app) error {
				res, err := a.dispatcher().CreateRoleProposal(ctx, kind, target, role)
				if err != nil {
					return err
				}

				return printResult(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", "", fmt.Sprintf("Role name, one of %v", roles.Names()))
	cmd.Flags().StringVar(&account, "account", "", "Account receiving or losing the role")
	cmd.Flags().BoolVar(&revoke, "revoke", false, "Revoke instead of grant")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
