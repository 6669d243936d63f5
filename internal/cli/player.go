package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username>",
		Short: "Register a new player",
		Long: `Register a new player with a score of zero.

A username that is already taken is reported as unavailable, not as an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"username": args[0]}
			var result RegisterResult

			if err := client.Post(cmd.Context(), "/players/register", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newScoreCmd() *cobra.Command {
	var legacy bool

	cmd := &cobra.Command{
		Use:   "score <id> <newScore>",
		Short: "Submit a new score for a player",
		Long: `Submit a new score for a player.

The score only changes if the new value is higher than the current one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			newScore, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid score %q: must be an integer", args[1])
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())

			if legacy {
				req := map[string]any{"userId": id, "newScore": newScore}
				var result struct {
					Message string `json:"message"`
				}
				if err := client.Post(cmd.Context(), "/players/updateScore", req, &result); err != nil {
					return err
				}
				out.PrintMessage(result.Message)
				return nil
			}

			req := map[string]int{"newScore": newScore}
			if err := client.Put(cmd.Context(), "/players/players/"+url.PathEscape(id)+"/score", req, nil); err != nil {
				return err
			}
			out.PrintMessage(fmt.Sprintf("Score %d submitted for %s", newScore, id))
			return nil
		},
	}

	cmd.Flags().BoolVar(&legacy, "legacy", false, "Use the POST /players/updateScore endpoint")

	return cmd
}

func newPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player <id>",
		Short: "Show a player's score and rank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"userId": args[0]}
			var result PlayerInfo

			if err := client.Post(cmd.Context(), "/players/getPlayerData", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
