package inventory

import (
	"fmt"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/cmdutil"
	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// itemFlags holds the item fields shared by add and update.
type itemFlags struct {
	name     string
	category string
	quantity float64
	location string
	expiry   string
	notes    string
}

func (f *itemFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "Item name")
	fs.StringVar(&f.category, "category", "", "Category (e.g. dairy)")
	fs.Float64Var(&f.quantity, "quantity", 1, "Quantity")
	fs.StringVar(&f.location, "location", "", "Where the item is kept")
	fs.StringVar(&f.expiry, "expiry", "", "Expiry date (YYYY-MM-DD)")
	fs.StringVar(&f.notes, "notes", "", "Free-form notes")
}

// apply copies every flag the user set onto item.
func (f *itemFlags) apply(fs *pflag.FlagSet, item *sdk.Item) error {
	if fs.Changed("name") {
		item.Name = f.name
	}
	if fs.Changed("category") {
		item.Category = f.category
	}
	if fs.Changed("quantity") {
		item.Quantity = f.quantity
	}
	if fs.Changed("location") {
		item.Location = f.location
	}
	if fs.Changed("notes") {
		item.Notes = f.notes
	}
	if fs.Changed("expiry") {
		if f.expiry == "" {
			item.ExpiryDate = sdk.Date{}
			return nil
		}
		date, err := sdk.ParseDate(f.expiry)
		if err != nil {
			return &sdk.ValidationError{Field: "expiry", Message: err.Error()}
		}
		item.ExpiryDate = date
	}
	return nil
}

var addFlags itemFlags

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a household item",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		item := sdk.Item{Quantity: addFlags.quantity}
		if err := addFlags.apply(cmd.Flags(), &item); err != nil {
			return err
		}

		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		created, err := c.CreateItem(ctx, item)
		if err != nil {
			return fmt.Errorf("failed to add item: %w", err)
		}
		pterm.Success.Printf("Added %s (id %d)\n", item.Name, created.ItemID)
		return nil
	},
}

var updateFlags itemFlags

var updateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a household item",
	Long:  `Updates the given item. Only the fields passed as flags change.`,
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

		items, err := c.ListItems(ctx)
		if err != nil {
			return fmt.Errorf("failed to load item: %w", err)
		}
		var item *sdk.Item
		for i := range items {
			if items[i].ItemID == id {
				item = &items[i]
				break
			}
		}
		if item == nil {
			return fmt.Errorf("item %d not found", id)
		}

		if err := updateFlags.apply(cmd.Flags(), item); err != nil {
			return err
		}
		if _, err := c.UpdateItem(ctx, *item); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		pterm.Success.Printf("Updated %s\n", item.Name)
		return nil
	},
}

func init() {
	addFlags.register(addCmd.Flags())
	_ = addCmd.MarkFlagRequired("name")
	updateFlags.register(updateCmd.Flags())
}
