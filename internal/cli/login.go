package cli

import (
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check the admin password",
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := cfg.RequireAdminPass()
			if err != nil {
				return err
			}

			var result LoginResult
			if err := client.Post(cmd.Context(), "/api/login", map[string]string{"adminPass": pass}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
