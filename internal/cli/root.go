// Package cli wires the popquiz commands: the API server, the database
// seeder, and a terminal quiz player.
package cli

import (
	"github.com/spf13/cobra"
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "popquiz",
		Short: "Personality quiz platform: build, share and play quizzes",
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newPlayCmd())
	return cmd
}
