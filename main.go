package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:          "spot-tradebot",
		Short:        "Automated single-symbol spot trading bot",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), envFile)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", ".env", "Path to the .env file (optional)")

	rootCmd.AddCommand(runCmd(&envFile))
	rootCmd.AddCommand(checkCmd(&envFile))
	rootCmd.AddCommand(journalCmd(&envFile))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the trading loop until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), *envFile)
		},
	}
}

func checkCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify API keys, market data access and account access",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkConnection(cmd.Context(), cmd.OutOrStdout(), *envFile)
		},
	}
}
