package reminder

import (
	"fmt"

	"github.com/felixgeelhaar/touchbase/adapter/cli"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options [reminder-id]",
	Short: "List snooze options for a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			fmt.Println("Listing options requires an initialized database.")
			return nil
		}

		reminderID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid reminder ID: %w", err)
		}

		options, err := app.Container.SnoozeOptionsHandler.Handle(cmd.Context(), queries.SnoozeOptionsQuery{
			ReminderID: reminderID,
		})
		if err != nil {
			return fmt.Errorf("failed to list snooze options: %w", err)
		}

		for _, option := range options {
			marker := ""
			if option.IsExhausted {
				marker = " (snooze limit reached)"
			}
			fmt.Printf("  %-12s %s%s\n", option.ID, option.Label, marker)
			if option.Description != "" {
				fmt.Printf("               %s\n", option.Description)
			}
		}
		return nil
	},
}
