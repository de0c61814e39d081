package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"telegram-journal-bot/internal/scheduler"
)

// NewSchedulesCmd prints every stored schedule with its next firing.
func NewSchedulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedules",
		Short: "List stored schedules and their next run",
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

			prompts, err := db.ListScheduledPrompts(cmd.Context())
			if err != nil {
				return err
			}
			now := time.Now()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CHAT\tTIME\tTIMEZONE\tNEXT RUN (UTC)")
			for _, p := range prompts {
				next := "invalid"
				tod, err1 := scheduler.ParseTimeOfDay(p.TimeOfDay)
				loc, err2 := scheduler.LoadZone(p.Timezone)
				if err1 == nil && err2 == nil {
					next = scheduler.NextFire(now, tod, loc).Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ChatID, p.TimeOfDay, p.Timezone, next)
			}
			return w.Flush()
		},
	}
}
