package inventory

import (
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/routeguard"
	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/spf13/cobra"
)

// InventoryCmd is the parent command for household items
var InventoryCmd = &cobra.Command{
	Use:         "inventory",
	Aliases:     []string{"items"},
	Short:       "Manage household items",
	Long:        `Commands for listing, adding, updating and removing household inventory items.`,
	Annotations: routeguard.For(sdk.RouteInventory),
}

func init() {
	InventoryCmd.AddCommand(listCmd)
	InventoryCmd.AddCommand(addCmd)
	InventoryCmd.AddCommand(updateCmd)
	InventoryCmd.AddCommand(deleteCmd)
}
