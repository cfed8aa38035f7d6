package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/myrjola/dockwatch/cmd/cli/audit"
	"github.com/spf13/cobra"
)

func init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(audit.Group)
	rootCmd.AddCommand(audit.Investigate)
}

var rootCmd = &cobra.Command{ //nolint:exhaustruct // rest of the fields use sane defaults
	Use:  "dockwatch-cli",
	Long: `Command line utilities for Dockwatch https://github.com/myrjola/dockwatch`,
	Run: func(_ *cobra.Command, _ []string) {
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
