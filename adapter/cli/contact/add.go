package contact

import (
	"fmt"

	"github.com/felixgeelhaar/touchbase/adapter/cli"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	relationship string
	priority     string
	frequency    string
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a contact",
	Long: `Add a contact to schedule check-ins with.

Frequencies: daily, weekly, biweekly, monthly, quarterly, yearly
Priorities:  high, normal, low

Examples:
  touchbase contact add "Ada" -r family -f weekly -p high
  touchbase contact add "Grace" -r colleague -f quarterly`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Container.SQLiteContacts == nil {
			fmt.Println("Adding contacts from the CLI requires local mode.")
			return nil
		}

		freq, err := domain.ParseFrequency(frequency)
		if err != nil {
			return fmt.Errorf("invalid frequency %q: %w", frequency, err)
		}

		profile := &domain.ContactProfile{
			ID:               uuid.New(),
			UserID:           app.CurrentUserID,
			Name:             args[0],
			RelationshipType: relationship,
			Priority:         domain.Priority(priority),
			Frequency:        freq,
			Status:           domain.StatusPending,
		}

		if err := app.Container.SQLiteContacts.Save(cmd.Context(), profile); err != nil {
			return fmt.Errorf("failed to add contact: %w", err)
		}

		fmt.Printf("Added contact: %s\n", profile.Name)
		fmt.Printf("  ID: %s\n", profile.ID)
		fmt.Printf("  Frequency: %s\n", freq)
		fmt.Printf("  Priority: %s\n", profile.EffectivePriority())
		if relationship != "" {
			fmt.Printf("  Relationship: %s\n", relationship)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&relationship, "relationship", "r", "", "relationship type (family, friend, colleague, ...)")
	addCmd.Flags().StringVarP(&priority, "priority", "p", "normal", "priority (high, normal, low)")
	addCmd.Flags().StringVarP(&frequency, "frequency", "f", "monthly", "check-in frequency")
}
