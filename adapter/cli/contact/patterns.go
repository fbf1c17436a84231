package contact

import (
	"fmt"
	"sort"

	"github.com/felixgeelhaar/touchbase/adapter/cli"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var windowDays int

var patternsCmd = &cobra.Command{
	Use:   "patterns [contact-id]",
	Short: "Show a contact's scheduling patterns",
	Long:  `Show the success rates by hour and weekday learned from past check-ins.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			fmt.Println("Patterns require an initialized database.")
			return nil
		}

		contactID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid contact ID: %w", err)
		}

		result, err := app.Container.ContactPatternsHandler.Handle(cmd.Context(), queries.ContactPatternsQuery{
			ContactID:  contactID,
			WindowDays: windowDays,
		})
		if err != nil {
			return fmt.Errorf("failed to analyze patterns: %w", err)
		}
		if result == nil {
			fmt.Println("No check-in history for this contact yet.")
			return nil
		}

		fmt.Printf("Patterns for %s (last %d days)\n", contactID, windowDays)
		fmt.Printf("  Attempts: %d\n", result.TotalAttempts)
		fmt.Printf("  Confidence: %.2f\n", result.Confidence)
		if result.Stale {
			fmt.Println("  Note: latest attempt is over a month old; suggestions are disabled.")
		}

		weekdays := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

		fmt.Println("  By hour:")
		hours := make([]int, 0, len(result.ByHour))
		for h := range result.ByHour {
			hours = append(hours, h)
		}
		sort.Ints(hours)
		for _, h := range hours {
			stats := result.ByHour[h]
			fmt.Printf("    %02d:00  %d/%d succeeded\n", h, stats.Successes, stats.Attempts)
		}

		fmt.Println("  By weekday:")
		days := make([]int, 0, len(result.ByDay))
		for d := range result.ByDay {
			days = append(days, d)
		}
		sort.Ints(days)
		for _, d := range days {
			stats := result.ByDay[d]
			fmt.Printf("    %s    %d/%d succeeded\n", weekdays[d%7], stats.Successes, stats.Attempts)
		}

		return nil
	},
}

func init() {
	patternsCmd.Flags().IntVarP(&windowDays, "window", "w", 90, "trailing window in days")
}
