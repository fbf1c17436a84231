package reminder

import (
	"fmt"

	"github.com/felixgeelhaar/touchbase/adapter/cli"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/queries"
	"github.com/spf13/cobra"
)

var upcomingDays int

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List check-ins scheduled in the coming days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			fmt.Println("Listing requires an initialized database.")
			return nil
		}

		rows, err := app.Container.UpcomingRemindersHandler.Handle(cmd.Context(), queries.UpcomingRemindersQuery{
			UserID: app.CurrentUserID,
			Days:   upcomingDays,
		})
		if err != nil {
			return fmt.Errorf("failed to list upcoming reminders: %w", err)
		}

		if len(rows) == 0 {
			fmt.Printf("No check-ins scheduled in the next %d days.\n", upcomingDays)
			return nil
		}

		for _, row := range rows {
			name := row.ContactName
			if name == "" {
				name = row.ContactID.String()
			}
			line := fmt.Sprintf("%s  %s", row.ScheduledTime.Format("Mon Jan 2 15:04"), name)
			if row.Snoozed {
				line += "  (snoozed)"
			}
			fmt.Println(line)
			fmt.Printf("  reminder: %s\n", row.ReminderID)
		}
		return nil
	},
}

func init() {
	upcomingCmd.Flags().IntVarP(&upcomingDays, "days", "d", 7, "Window size in days")
}
