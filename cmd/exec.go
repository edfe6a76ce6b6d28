package cmd

import (
	"os"

	"github.com/josephlewis42/xvsh/core/shell"
	"github.com/josephlewis42/xvsh/core/vos"
	"github.com/spf13/cobra"
)

var childPrompt string

// execCmd is the entry point of forked children. Each one runs a single
// sub-command and exits.
var execCmd = &cobra.Command{
	Use:    vos.ChildCommand + " -- SCRIPT",
	Short:  "Run a parsed sub-command in a child process.",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		host, err := newHostOS(childPrompt)
		if err != nil {
			return err
		}

		os.Exit(shell.Main(cmd.Context(), host, vos.NewOSIO(), childPrompt, args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().StringVar(&childPrompt, "prompt", shell.DefaultPrompt, "prompt repeated after background announcements")
}
