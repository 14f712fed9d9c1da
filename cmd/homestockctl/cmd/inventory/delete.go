package inventory

import (
	"fmt"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/cmdutil"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/prompt"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Remove a household item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cmdutil.ParseID(args[0])
		if err != nil {
			return err
		}

		if !deleteYes {
			ok, err := prompt.Confirm(cmdutil.NonInteractive(cmd), fmt.Sprintf("Delete item %d?", id), false)
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

		if err := c.DeleteItem(ctx, id); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}
		pterm.Success.Printf("Deleted item %d\n", id)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation")
}
