package dashboard

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/cmdutil"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/routeguard"
	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/spf13/cobra"
)

// DashboardCmd shows the landing summary for the logged-in role.
var DashboardCmd = &cobra.Command{
	Use:         "dashboard",
	Short:       "Show the household summary",
	Long:        `Shows a summary for your role: household counts for users, account counts for administrators.`,
	Annotations: routeguard.For(sdk.RouteDashboard),
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Render(cmd)
	},
}

// Render prints the dashboard for the current session.
func Render(cmd *cobra.Command) error {
	c, err := cmdutil.SDKClient(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := cmdutil.Timeout(cmd)
	defer cancel()

	summary, err := c.Summary(ctx, time.Now())
	if err != nil {
		return err
	}

	cmdutil.Section(cmd, "Dashboard - %s (%s)", summary.Username, summary.Role)
	return cmdutil.Render(cmd, summary, func(tw *tabwriter.Writer) {
		if summary.Role == sdk.RoleAdmin {
			fmt.Fprintf(tw, "Users\t%d\n", summary.Users)
			fmt.Fprintf(tw, "Administrators\t%d\n", summary.Admins)
			return
		}
		fmt.Fprintf(tw, "Items\t%d\n", summary.Items)
		fmt.Fprintf(tw, "Expiring within 7 days\t%d\n", summary.ExpiringSoon)
		fmt.Fprintf(tw, "Low stock\t%d\n", summary.LowStock)
		fmt.Fprintf(tw, "Still to buy\t%d\n", summary.ShoppingPending)
		fmt.Fprintf(tw, "Overdue reminders\t%d\n", summary.OverdueReminders)
	})
}
