package contact

import (
	"github.com/spf13/cobra"
)

// Cmd is the contact command group
var Cmd = &cobra.Command{
	Use:   "contact",
	Short: "Manage contacts",
	Long:  `Add contacts and inspect their check-in history.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(patternsCmd)
}
