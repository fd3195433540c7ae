package app

import (
	"github.com/spf13/cobra"

	"github.com/opsatlas/svcmap/cmd/svcmap/cmd/deps"
	"github.com/opsatlas/svcmap/cmd/svcmap/cmd/gaps"
	"github.com/opsatlas/svcmap/cmd/svcmap/cmd/teams"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(gaps.NewCommand(a))
	rootCmd.AddCommand(teams.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(deps.NewCommand(a))
	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("svcmap %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit: %s\n", a.commit)
				cmd.Printf("  built:  %s\n", a.date)
			}
		},
	}
}
