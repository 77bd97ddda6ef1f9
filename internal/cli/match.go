package cli

import (
	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match details commands",
	}

	cmd.AddCommand(newMatchGetCmd())
	cmd.AddCommand(newMatchSetCmd())

	return cmd
}

func newMatchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the match location and time",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Match

			if err := client.Get(cmd.Context(), "/api/match", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newMatchSetCmd() *cobra.Command {
	var location, kickoff string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the match location and time",
		Long: `Set the match location and time, replacing both. --time accepts RFC 3339
(2024-01-05T19:00:00+07:00) or a UTC date-time such as 2024-01-05T12:00.
Leaving --time out clears it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"location": location,
				"time":     nil,
			}
			if kickoff != "" {
				req["time"] = kickoff
			}

			var result UpsertMatchResult
			if err := client.Post(cmd.Context(), "/api/match", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result.Match)
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "Match location")
	cmd.Flags().StringVar(&kickoff, "time", "", "Kick-off time")

	return cmd
}
