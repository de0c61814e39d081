package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"telegram-journal-bot/internal/questions"
)

// NewSeedCmd stores the built-in question bank and exits.
func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the question catalog",
		Long:  `Create the schema and store the built-in questions. Does nothing when questions already exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			n, err := questions.Seed(cmd.Context(), db)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Questions already present, nothing to do.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d questions.\n", n)
			return nil
		},
	}
}
