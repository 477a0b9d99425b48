package main

import (
	"fmt"
	"os"

	"github.com/benvon/launch-coach/cmd/configure/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "launch-coach-configure",
		Short: "Operations tool for the Launch Coach API",
		Long:  "CLI tool for inspecting plans, previewing nudge messages, and checking mail delivery",
	}

	rootCmd.AddCommand(commands.NewMigrateCmd())
	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewPreviewCmd())
	rootCmd.AddCommand(commands.NewTestMailCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
