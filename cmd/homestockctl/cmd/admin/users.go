package admin

import (
	"fmt"
	"text/tabwriter"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/cmdutil"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/output"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/prompt"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/routeguard"
	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// UsersCmd is the parent command for account administration.
var UsersCmd = &cobra.Command{
	Use:         "users",
	Short:       "Administer user accounts (admin only)",
	Annotations: routeguard.For(sdk.RouteAdminUsers),
}

var listFlags cmdutil.ListFlags

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		users, err := c.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if users, err = cmdutil.Apply(&listFlags, users); err != nil {
			return err
		}

		return cmdutil.Render(cmd, users, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tNAME\tROLE")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.UserID, u.Username, u.Email, output.Dash(u.Name), u.Role)
			}
		})
	},
}

var roleCmd = &cobra.Command{
	Use:       "role ID ROLE",
	Short:     "Change an account's role",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(sdk.RoleAdmin), string(sdk.RoleUser)},
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

		if err := c.SetUserRole(ctx, id, sdk.Role(args[1])); err != nil {
			return fmt.Errorf("failed to change role: %w", err)
		}
		pterm.Success.Printf("User %d is now %s\n", id, args[1])
		return nil
	},
}

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cmdutil.ParseID(args[0])
		if err != nil {
			return err
		}
		if !deleteYes {
			ok, err := prompt.Confirm(cmdutil.NonInteractive(cmd), fmt.Sprintf("Delete user %d and all their data?", id), false)
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

		if err := c.DeleteUser(ctx, id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		pterm.Success.Printf("Deleted user %d\n", id)
		return nil
	},
}

func init() {
	listFlags.Register(listCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation")

	UsersCmd.AddCommand(listCmd)
	UsersCmd.AddCommand(roleCmd)
	UsersCmd.AddCommand(deleteCmd)
}
