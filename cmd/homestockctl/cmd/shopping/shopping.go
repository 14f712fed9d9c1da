package shopping

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/cmdutil"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/output"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/prompt"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/routeguard"
	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// ShoppingCmd is the parent command for the shopping list
var ShoppingCmd = &cobra.Command{
	Use:         "shopping",
	Short:       "Manage the shopping list",
	Annotations: routeguard.For(sdk.RouteShoppingList),
}

var (
	listFlags   cmdutil.ListFlags
	listPending bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the shopping list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		items, err := c.ListShoppingItems(ctx)
		if err != nil {
			return fmt.Errorf("failed to list shopping items: %w", err)
		}
		flags := listFlags
		if listPending {
			flags.Where = append(append([]string(nil), listFlags.Where...), "purchased=false")
		}
		if items, err = cmdutil.Apply(&flags, items); err != nil {
			return err
		}

		return cmdutil.Render(cmd, items, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "ID\tNAME\tQUANTITY\tPURCHASED")
			for _, item := range items {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.ItemID, item.Name, output.Quantity(item.Quantity), output.Check(item.Purchased))
			}
		})
	},
}

var addQuantity float64

var addCmd = &cobra.Command{
	Use:   "add NAME...",
	Short: "Add an entry to the shopping list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		item := sdk.ShoppingItem{Name: strings.Join(args, " "), Quantity: addQuantity}
		created, err := c.AddShoppingItem(ctx, item)
		if err != nil {
			return fmt.Errorf("failed to add shopping item: %w", err)
		}
		pterm.Success.Printf("Added %s (id %d)\n", item.Name, created.ItemID)
		return nil
	},
}

var doneUndo bool

var doneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Mark an entry as purchased",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cmdutil.ParseID(args[0])
		if err != nil {
			return err
		}
		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		if err := c.SetShoppingItemPurchased(ctx, id, !doneUndo); err != nil {
			return fmt.Errorf("failed to update shopping item: %w", err)
		}
		if doneUndo {
			pterm.Success.Printf("Entry %d is back on the list\n", id)
		} else {
			pterm.Success.Printf("Entry %d marked as purchased\n", id)
		}
		return nil
	},
}

var removeYes bool

var removeCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove an entry from the shopping list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cmdutil.ParseID(args[0])
		if err != nil {
			return err
		}
		if !removeYes {
			ok, err := prompt.Confirm(cmdutil.NonInteractive(cmd), fmt.Sprintf("Remove entry %d?", id), false)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("aborted; pass --yes to remove without confirmation")
			}
		}

		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		if err := c.RemoveShoppingItem(ctx, id); err != nil {
			return fmt.Errorf("failed to remove shopping item: %w", err)
		}
		pterm.Success.Printf("Removed entry %d\n", id)
		return nil
	},
}

func init() {
	listFlags.Register(listCmd)
	listCmd.Flags().BoolVar(&listPending, "pending", false, "Only entries not yet purchased")
	addCmd.Flags().Float64Var(&addQuantity, "quantity", 1, "Quantity to buy")
	doneCmd.Flags().BoolVar(&doneUndo, "undo", false, "Put the entry back on the list")
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Skip confirmation")

	ShoppingCmd.AddCommand(listCmd)
	ShoppingCmd.AddCommand(addCmd)
	ShoppingCmd.AddCommand(doneCmd)
	ShoppingCmd.AddCommand(removeCmd)
}
