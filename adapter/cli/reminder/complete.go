package reminder

import (
	"fmt"

	"github.com/felixgeelhaar/touchbase/adapter/cli"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var completeCmd = &cobra.Command{
	Use:   "complete [reminder-id]",
	Short: "Mark a check-in as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			fmt.Println("Completing requires an initialized database.")
			return nil
		}

		reminderID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid reminder ID: %w", err)
		}

		if err := app.Container.CompleteReminderHandler.Handle(cmd.Context(), commands.CompleteReminderCommand{
			ReminderID: reminderID,
		}); err != nil {
			return fmt.Errorf("failed to complete reminder: %w", err)
		}

		fmt.Println("Check-in completed.")
		return nil
	},
}
