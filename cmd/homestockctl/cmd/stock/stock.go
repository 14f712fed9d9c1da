package stock

import (
	"fmt"
	"strconv"
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

// StockCmd is the parent command for tracked consumables
var StockCmd = &cobra.Command{
	Use:         "stock",
	Short:       "Track consumable stock levels",
	Long:        `Commands for tracking consumables against a restock threshold.`,
	Annotations: routeguard.For(sdk.RouteStock),
}

var (
	listFlags cmdutil.ListFlags
	listLow   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stock levels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		items, err := c.ListStock(ctx)
		if err != nil {
			return fmt.Errorf("failed to list stock: %w", err)
		}
		if items, err = cmdutil.Apply(&listFlags, items); err != nil {
			return err
		}
		if listLow {
			items = lowOnly(items)
		}

		return cmdutil.Render(cmd, items, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "ID\tNAME\tQUANTITY\tUNIT\tTHRESHOLD\tSTATUS")
			for _, item := range items {
				status := "ok"
				if item.Low() {
					status = pterm.Yellow("low")
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", item.StockID, item.Name,
					output.Quantity(item.Quantity), output.Dash(item.Unit), output.Quantity(item.Threshold), status)
			}
		})
	},
}

func lowOnly(items []sdk.StockItem) []sdk.StockItem {
	out := make([]sdk.StockItem, 0, len(items))
	for _, item := range items {
		if item.Low() {
			out = append(out, item)
		}
	}
	return out
}

var newItem sdk.StockItem

var addCmd = &cobra.Command{
	Use:   "add NAME...",
	Short: "Start tracking a consumable",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		item := newItem
		item.Name = strings.Join(args, " ")
		created, err := c.CreateStockItem(ctx, item)
		if err != nil {
			return fmt.Errorf("failed to add stock item: %w", err)
		}
		pterm.Success.Printf("Tracking %s (id %d)\n", item.Name, created.StockID)
		return nil
	},
}

var adjustCmd = &cobra.Command{
	Use:   "adjust ID QUANTITY",
	Short: "Set the quantity on hand",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cmdutil.ParseID(args[0])
		if err != nil {
			return err
		}
		quantity, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return &sdk.ValidationError{Field: "quantity", Message: fmt.Sprintf("%q is not a number", args[1])}
		}

		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		updated, err := c.AdjustStock(ctx, id, quantity)
		if err != nil {
			return fmt.Errorf("failed to adjust stock: %w", err)
		}
		pterm.Success.Printf("Stock %d set to %s\n", id, output.Quantity(quantity))
		if updated.StockID != 0 && updated.Low() {
			pterm.Warning.Printf("%s is at or below its restock threshold\n", updated.Name)
		}
		return nil
	},
}

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Stop tracking a consumable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cmdutil.ParseID(args[0])
		if err != nil {
			return err
		}
		if !deleteYes {
			ok, err := prompt.Confirm(cmdutil.NonInteractive(cmd), fmt.Sprintf("Delete stock item %d?", id), false)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("aborted; pass --yes to delete without confirmation")
			}
		}

		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		if err := c.DeleteStockItem(ctx, id); err != nil {
			return fmt.Errorf("failed to delete stock item: %w", err)
		}
		pterm.Success.Printf("Deleted stock item %d\n", id)
		return nil
	},
}

func init() {
	listFlags.Register(listCmd)
	listCmd.Flags().BoolVar(&listLow, "low", false, "Only items at or below their threshold")
	addCmd.Flags().Float64Var(&newItem.Quantity, "quantity", 0, "Quantity on hand")
	addCmd.Flags().StringVar(&newItem.Unit, "unit", "", "Unit (e.g. kg, bottles)")
	addCmd.Flags().Float64Var(&newItem.Threshold, "threshold", 1, "Restock when quantity falls to this level")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation")

	StockCmd.AddCommand(listCmd)
	StockCmd.AddCommand(addCmd)
	StockCmd.AddCommand(adjustCmd)
	StockCmd.AddCommand(deleteCmd)
}
