package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// NewEraseCmd deletes every row of one user.
func NewEraseCmd() *cobra.Command {
	var chatID int64

	cmd := &cobra.Command{
		Use:   "erase",
		Short: "Erase all data of a user",
		Long: `Delete the user's account, responses, conversation state and schedules.

A running bot keeps the user's timers until its next start, but they send
nothing: a check-in is only delivered to a stored, active user.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if chatID == 0 {
				return errors.New("--chat-id is required")
			}
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := openStore(cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := db.CountResponses(cmd.Context(), chatID)
			if err != nil {
				return err
			}
			if err := db.EraseUser(cmd.Context(), chatID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Erased data of chat %d (%d responses).\n", chatID, n)
			return nil
		},
	}

	cmd.Flags().Int64Var(&chatID, "chat-id", 0, "Telegram chat id of the user")
	return cmd
}
