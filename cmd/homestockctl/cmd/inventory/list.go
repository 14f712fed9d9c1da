package inventory

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/cmdutil"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/output"
	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/spf13/cobra"
)

var (
	listFlags    cmdutil.ListFlags
	listExpiring time.Duration
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List household items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		items, err := c.ListItems(ctx)
		if err != nil {
			return fmt.Errorf("failed to list items: %w", err)
		}
		if items, err = cmdutil.Apply(&listFlags, items); err != nil {
			return err
		}
		if listExpiring > 0 {
			items = expiringWithin(items, time.Now(), listExpiring)
		}

		return cmdutil.Render(cmd, items, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tQUANTITY\tLOCATION\tEXPIRES")
			for _, item := range items {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					item.ItemID, item.Name, output.Dash(item.Category), output.Quantity(item.Quantity),
					output.Dash(item.Location), output.Dash(item.ExpiryDate.String()))
			}
		})
	},
}

func expiringWithin(items []sdk.Item, now time.Time, window time.Duration) []sdk.Item {
	out := make([]sdk.Item, 0, len(items))
	for _, item := range items {
		if item.ExpiresWithin(now, window) {
			out = append(out, item)
		}
	}
	return out
}

func init() {
	listFlags.Register(listCmd)
	listCmd.Flags().DurationVar(&listExpiring, "expiring", 0, "Only items expiring within this window (e.g. 168h)")
}
