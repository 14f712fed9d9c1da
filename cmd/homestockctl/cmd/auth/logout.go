package auth

import (
	"fmt"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/cmdutil"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out from HomeStock",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		if !c.Logout() {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully")
		return nil
	},
}
