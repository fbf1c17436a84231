package reminder

import (
	"fmt"

	"github.com/felixgeelhaar/touchbase/adapter/cli"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var snoozeCmd = &cobra.Command{
	Use:   "snooze [contact-id] [option]",
	Short: "Snooze or skip a contact's active reminder",
	Long: `Push a contact's active reminder to a later time.

Options:
  later_today - later today, inside active hours when possible
  tomorrow    - same time tomorrow
  next_week   - same time next week
  skip        - skip this check-in entirely

Examples:
  touchbase reminder snooze 4e8f... later_today
  touchbase reminder snooze 4e8f... skip`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			fmt.Println("Snoozing requires an initialized database.")
			return nil
		}

		contactID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid contact ID: %w", err)
		}

		result, err := app.Container.SnoozeReminderHandler.Handle(cmd.Context(), commands.SnoozeReminderCommand{
			ContactID: contactID,
			OptionID:  args[1],
		})
		if err != nil {
			return fmt.Errorf("failed to snooze reminder: %w", err)
		}

		if result.Skipped {
			fmt.Println("Check-in skipped.")
			return nil
		}
		fmt.Printf("Reminder moved to %s\n", result.NewTime.Format("Mon Jan 2 15:04"))
		return nil
	},
}
