package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "kickoff",
		Short: "CLI tool for the kickoff match sign-up API",
		Long: `kickoff is a CLI tool for the weekly match sign-up API.

Players can sign up and drop out from this device, and admins can mark
payments, remove players, split teams and set the match details.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: KICKOFF_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.AdminPass, "admin-pass", cfg.AdminPass, "Admin password (env: KICKOFF_ADMIN_PASS)")
	rootCmd.PersistentFlags().StringVar(&cfg.ClientID, "client-id", cfg.ClientID, "Device id used to register (env: KICKOFF_CLIENT_ID)")
	rootCmd.PersistentFlags().StringVar(&cfg.ClientIDFile, "client-id-file", cfg.ClientIDFile, "File the generated device id is kept in (env: KICKOFF_CLIENT_ID_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newPlayersCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
