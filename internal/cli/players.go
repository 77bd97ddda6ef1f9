package cli

import (
	"errors"
	"net/url"

	"github.com/spf13/cobra"
)

func newPlayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "players",
		Aliases: []string{"player"},
		Short:   "Player sign-up commands",
	}

	cmd.AddCommand(newPlayersListCmd())
	cmd.AddCommand(newPlayersRegisterCmd())
	cmd.AddCommand(newPlayersStatusCmd())
	cmd.AddCommand(newPlayersUnvoteCmd())
	cmd.AddCommand(newPlayersPayCmd())
	cmd.AddCommand(newPlayersDeleteCmd())
	cmd.AddCommand(newPlayersSplitCmd())

	return cmd
}

func newPlayersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List signed-up players, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Player

			if err := client.Get(cmd.Context(), "/api/players", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPlayersRegisterCmd() *cobra.Command {
	var name string
	var anonymous bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Sign up for the match",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name is required")
			}

			req := map[string]string{"name": name}
			if !anonymous {
				clientID, err := cfg.EnsureClientID()
				if err != nil {
					return err
				}
				req["clientId"] = clientID
			}

			var result Player
			if err := client.Post(cmd.Context(), "/api/players", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name (required)")
	cmd.Flags().BoolVar(&anonymous, "no-device", false, "Sign up without tying the registration to this device")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlayersStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether this device is signed up",
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID, err := cfg.EnsureClientID()
			if err != nil {
				return err
			}

			var result StatusResult
			if err := client.Get(cmd.Context(), "/api/players/check-status?clientId="+url.QueryEscape(clientID), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPlayersUnvoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unvote",
		Short: "Cancel this device's sign-up",
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID, err := cfg.EnsureClientID()
			if err != nil {
				return err
			}

			var result MessageResult
			if err := client.Post(cmd.Context(), "/api/players/unvote", map[string]string{"clientId": clientID}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPlayersPayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <player-id>",
		Short: "Toggle a player's payment status (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := cfg.RequireAdminPass()
			if err != nil {
				return err
			}

			var result Player
			path := "/api/players/" + url.PathEscape(args[0]) + "/pay"
			if err := client.Put(cmd.Context(), path, map[string]string{"adminPass": pass}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPlayersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <player-id>",
		Short: "Remove a player (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := cfg.RequireAdminPass()
			if err != nil {
				return err
			}

			var result MessageResult
			path := "/api/players/" + url.PathEscape(args[0])
			if err := client.Delete(cmd.Context(), path, map[string]string{"adminPass": pass}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPlayersSplitCmd() *cobra.Command {
	var teamA, teamB []string

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Assign players to teams A and B (admin)",
		Long: `Assign players to teams A and B. Everyone not listed is left without a
team, and a player listed in both ends up in team B.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := cfg.RequireAdminPass()
			if err != nil {
				return err
			}

			// Empty lists are sent as [] rather than null
			req := map[string]any{
				"adminPass": pass,
				"teamA_Ids": append([]string{}, teamA...),
				"teamB_Ids": append([]string{}, teamB...),
			}

			var result SplitResult
			if err := client.Put(cmd.Context(), "/api/players/split", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Teams updated")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&teamA, "team-a", nil, "Player ids for team A (comma-separated)")
	cmd.Flags().StringSliceVar(&teamB, "team-b", nil, "Player ids for team B (comma-separated)")

	return cmd
}
