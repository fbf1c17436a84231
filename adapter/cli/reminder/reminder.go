package reminder

import (
	"github.com/spf13/cobra"
)

// Cmd is the reminder command group
var Cmd = &cobra.Command{
	Use:   "reminder",
	Short: "Manage check-in reminders",
	Long:  `Schedule, snooze, complete, and list check-in reminders.`,
}

func init() {
	Cmd.AddCommand(scheduleCmd)
	Cmd.AddCommand(snoozeCmd)
	Cmd.AddCommand(optionsCmd)
	Cmd.AddCommand(completeCmd)
	Cmd.AddCommand(upcomingCmd)
}
