package auth

import (
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/cmdutil"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/prompt"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/routeguard"
	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var registration sdk.Registration

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a HomeStock account",
	Long: `Creates a new account. Registering does not log you in; run
'homestockctl auth login' afterwards.`,
	Annotations: routeguard.For(sdk.RouteRegister),
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		if err := prompt.Fill(cmdutil.NonInteractive(cmd),
			prompt.Field{Title: "Username", Value: &registration.Username, Required: true},
			prompt.Field{Title: "Email", Value: &registration.Email, Required: true},
			prompt.Field{Title: "Password", Value: &registration.Password, Secret: true, Required: true},
			prompt.Field{Title: "Confirm password", Value: &registration.ConfirmPassword, Secret: true, Required: true},
		); err != nil {
			return err
		}

		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		if _, err := c.Register(ctx, registration); err != nil {
			return err
		}

		pterm.Success.Printf("Account %s created. Run 'homestockctl auth login' to sign in.\n", registration.Username)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registration.Username, "username", "", "Username")
	registerCmd.Flags().StringVar(&registration.Email, "email", "", "Email")
	registerCmd.Flags().StringVar(&registration.Password, "password", "", "Password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registration.ConfirmPassword, "confirm-password", "", "Password again (prompted when omitted)")
}
