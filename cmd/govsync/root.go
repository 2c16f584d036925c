package govsync

import (
	"github.com/spf13/cobra"
)

// flags shared by every command.
type globalFlags struct {
	configPath string
	envFile    string
	target     string
}

func BuildRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := cobra.Command{
		Use:          "govsync",
		Short:        "Inspect and operate multi-signature governance contracts",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to the YAML configuration file")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "Path to a .env file with secrets such as PRIVATE_KEY")
	cmd.PersistentFlags().StringVar(&flags.target, "target", "token", "Governance target to operate on")

	cmd.AddCommand(buildSyncCmd(flags))
	cmd.AddCommand(buildWatchCmd(flags))
	cmd.AddCommand(buildProposeCmd(flags))
	cmd.AddCommand(buildApproveCmd(flags))
	cmd.AddCommand(buildExecuteCmd(flags))
	cmd.AddCommand(buildCleanupCmd(flags))
	cmd.AddCommand(buildSetQuorumCmd(flags))
	cmd.AddCommand(buildSetLimitCmd(flags))
	cmd.AddCommand(buildRoleProposalCmd(flags))
	cmd.AddCommand(buildVestingCmd(flags))
	cmd.AddCommand(buildEmergencyCmd(flags))
	cmd.AddCommand(buildUpgradeCmd(flags))
	cmd.AddCommand(buildPoolCmd(flags))
	cmd.AddCommand(buildSubstrateCmd(flags))
	cmd.AddCommand(buildCancelTxCmd(flags))

	return &cmd
}
