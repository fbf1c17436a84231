package reminder

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/touchbase/adapter/cli"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	lastContact string
	frequency   string
	recurring   bool
	customDate  string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [contact-id]",
	Short: "Schedule the next check-in for a contact",
	Long: `Compute and store the next check-in reminder for a contact.

The scheduler starts from the last contact date plus the frequency
offset, then searches for a free 15-minute slot inside the contact's
active hours, avoiding blocked times and keeping a minimum gap to
existing reminders.

Examples:
  touchbase reminder schedule 4e8f... --last 2026-08-01 -f monthly
  touchbase reminder schedule 4e8f... --last 2026-08-01 -f weekly --recurring
  touchbase reminder schedule 4e8f... --at "2026-09-12T15:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			fmt.Println("Scheduling requires an initialized database.")
			return nil
		}

		contactID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid contact ID: %w", err)
		}

		scheduleCmd := commands.ScheduleReminderCommand{
			UserID:    app.CurrentUserID,
			ContactID: contactID,
			Recurring: recurring,
		}

		if customDate != "" {
			at, err := parseLocalTime(customDate)
			if err != nil {
				return fmt.Errorf("invalid --at value: %w", err)
			}
			scheduleCmd.CustomDate = &at
		} else {
			last, err := time.ParseInLocation("2006-01-02", lastContact, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --last value (expected YYYY-MM-DD): %w", err)
			}
			freq, err := domain.ParseFrequency(frequency)
			if err != nil {
				return fmt.Errorf("invalid frequency %q: %w", frequency, err)
			}
			scheduleCmd.LastContactDate = last
			scheduleCmd.Frequency = string(freq)
		}

		result, err := app.Container.ScheduleReminderHandler.Handle(cmd.Context(), scheduleCmd)
		if err != nil {
			return fmt.Errorf("failed to schedule reminder: %w", err)
		}

		if result.SlotsFilled != nil {
			fmt.Println(result.SlotsFilled.Message)
			for _, option := range result.SlotsFilled.Options {
				fmt.Printf("  - %s\n", option)
			}
			fmt.Printf("Next available day: %s\n", result.SlotsFilled.Details.NextAvailableDay)
			return nil
		}

		fmt.Printf("Scheduled check-in: %s\n", result.Reminder.ScheduledTime().Format("Mon Jan 2 15:04"))
		fmt.Printf("  Reminder ID: %s\n", result.Reminder.ID())
		if result.PatternAdjusted {
			fmt.Printf("  Adjusted from history (confidence %.2f)\n", result.Confidence)
		}
		return nil
	},
}

func parseLocalTime(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}

func init() {
	scheduleCmd.Flags().StringVar(&lastContact, "last", "", "last contact date (YYYY-MM-DD)")
	scheduleCmd.Flags().StringVarP(&frequency, "frequency", "f", "monthly", "check-in frequency")
	scheduleCmd.Flags().BoolVar(&recurring, "recurring", false, "adjust the slot from learned patterns")
	scheduleCmd.Flags().StringVar(&customDate, "at", "", "explicit date and time (YYYY-MM-DDTHH:MM)")
}
