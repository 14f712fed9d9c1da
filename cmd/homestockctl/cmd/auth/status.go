package auth

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/cmdutil"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/config"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/output"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/routeguard"
	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/spf13/cobra"
)

var statusVerify bool

type statusView struct {
	LoggedIn  bool       `json:"logged_in" yaml:"logged_in"`
	Verified  bool       `json:"verified" yaml:"verified"`
	User      *sdk.User  `json:"user,omitempty" yaml:"user,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display authentication status",
	Long: `Shows the stored session. With --verify the token is first confirmed
with the server, and the stored profile is refreshed from its answer.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		view := statusView{}
		if statusVerify && c.Session().Authenticated() {
			guard, err := cfg.ClientProvider.Guard(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := cmdutil.Timeout(cmd)
			defer cancel()

			_, err = routeguard.Check(ctx, guard, sdk.RouteDashboard)
			var redirect *routeguard.RedirectError
			if err != nil && !errors.As(err, &redirect) {
				return err
			}
			view.Verified = err == nil
		}

		session := c.Session()
		view.LoggedIn = session.Authenticated()
		view.User = session.User
		if claims, err := sdk.DecodeClaims(session.Token); err == nil && !claims.ExpiresAt.IsZero() {
			view.ExpiresAt = &claims.ExpiresAt
		}

		cmdutil.Section(cmd, "Authentication Status")
		return cmdutil.Render(cmd, view, func(tw *tabwriter.Writer) {
			if !view.LoggedIn {
				fmt.Fprintln(tw, "Logged in\tno")
				return
			}
			fmt.Fprintln(tw, "Logged in\tyes")
			if statusVerify {
				fmt.Fprintf(tw, "Verified\t%s\n", output.Check(view.Verified))
			}
			fmt.Fprintf(tw, "User ID\t%d\n", view.User.UserID)
			fmt.Fprintf(tw, "Username\t%s\n", view.User.Username)
			fmt.Fprintf(tw, "Email\t%s\n", view.User.Email)
			fmt.Fprintf(tw, "Name\t%s\n", output.Dash(view.User.Name))
			fmt.Fprintf(tw, "Role\t%s\n", view.User.Role)
			if view.ExpiresAt != nil {
				fmt.Fprintf(tw, "Token expires\t%s\n", view.ExpiresAt.Local().Format(time.RFC1123))
			}
		})
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusVerify, "verify", false, "Confirm the session with the server")
}
