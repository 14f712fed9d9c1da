package profile

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

// ProfileCmd shows and edits the logged-in user's profile.
var ProfileCmd = &cobra.Command{
	Use:         "profile",
	Short:       "Show or update your profile",
	Annotations: routeguard.For(sdk.RouteProfile),
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		user := c.Session().User
		if user == nil {
			return sdk.ErrNotAuthenticated
		}

		cmdutil.Section(cmd, "Profile")
		return cmdutil.Render(cmd, user, func(tw *tabwriter.Writer) {
			fmt.Fprintf(tw, "Username\t%s\n", user.Username)
			fmt.Fprintf(tw, "Name\t%s\n", output.Dash(user.Name))
			fmt.Fprintf(tw, "Email\t%s\n", user.Email)
			fmt.Fprintf(tw, "Role\t%s\n", user.Role)
		})
	},
}

var setNameCmd = &cobra.Command{
	Use:   "set-name NAME",
	Short: "Change your display name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return update(cmd, sdk.ProfileUpdate{Field: sdk.FieldName, Value: args[0]}, "Name updated")
	},
}

var setUsernameCmd = &cobra.Command{
	Use:   "set-username USERNAME",
	Short: "Change your username",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return update(cmd, sdk.ProfileUpdate{Field: sdk.FieldUsername, Value: args[0]}, "Username updated")
	},
}

var passwordUpdate sdk.ProfileUpdate

var changePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change your password",
	Long: `Changes your password. The new password must be entered twice; a
mismatch is rejected before anything is sent to the server.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := prompt.Fill(cmdutil.NonInteractive(cmd),
			prompt.Field{Title: "Current password", Value: &passwordUpdate.CurrentPassword, Secret: true, Required: true},
			prompt.Field{Title: "New password", Value: &passwordUpdate.NewPassword, Secret: true, Required: true},
			prompt.Field{Title: "Confirm new password", Value: &passwordUpdate.ConfirmPassword, Secret: true, Required: true},
		); err != nil {
			return err
		}
		passwordUpdate.Field = sdk.FieldPassword
		return update(cmd, passwordUpdate, "Password changed")
	},
}

func update(cmd *cobra.Command, u sdk.ProfileUpdate, done string) error {
	c, err := cmdutil.SDKClient(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := cmdutil.Timeout(cmd)
	defer cancel()

	if _, err := c.UpdateProfile(ctx, u); err != nil {
		return err
	}
	pterm.Success.Println(done)
	return nil
}

func init() {
	changePasswordCmd.Flags().StringVar(&passwordUpdate.CurrentPassword, "current", "", "Current password (prompted when omitted)")
	changePasswordCmd.Flags().StringVar(&passwordUpdate.NewPassword, "new", "", "New password (prompted when omitted)")
	changePasswordCmd.Flags().StringVar(&passwordUpdate.ConfirmPassword, "confirm", "", "New password again (prompted when omitted)")

	ProfileCmd.AddCommand(setNameCmd)
	ProfileCmd.AddCommand(setUsernameCmd)
	ProfileCmd.AddCommand(changePasswordCmd)
}
