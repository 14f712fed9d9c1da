package auth

import (
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/cmdutil"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/prompt"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/routeguard"
	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var loginCreds sdk.Credentials

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to HomeStock",
	Long: `Logs in with your email and password. Missing values are prompted for
when a terminal is attached. The session is stored in ~/.homestock/session.json
and replaces any previous one.`,
	Annotations: routeguard.For(sdk.RouteLogin),
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		if err := prompt.Fill(cmdutil.NonInteractive(cmd),
			prompt.Field{Title: "Email", Value: &loginCreds.Email, Required: true},
			prompt.Field{Title: "Password", Value: &loginCreds.Password, Secret: true, Required: true},
		); err != nil {
			return err
		}

		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		session, err := c.Login(ctx, loginCreds)
		if err != nil {
			return err
		}

		pterm.Success.Printf("Logged in as %s (%s)\n", session.User.Username, session.User.Role)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginCreds.Email, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginCreds.Password, "password", "", "Account password (prompted when omitted)")
}
