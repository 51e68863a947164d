package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:           "pravobot",
	Short:         "Pravobot is a deterministic legal-assistant service for chat workspaces.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd, workerCmd, migrateCmd, lookupCmd, routeCmd)
}
