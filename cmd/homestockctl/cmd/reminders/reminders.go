package reminders

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/cmdutil"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/output"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/prompt"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/routeguard"
	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// RemindersCmd is the parent command for reminders
var RemindersCmd = &cobra.Command{
	Use:         "reminders",
	Short:       "Manage household reminders",
	Annotations: routeguard.For(sdk.RouteReminders),
}

var (
	listFlags   cmdutil.ListFlags
	listOverdue bool
	listAll     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders",
	Long:  `Lists open reminders. Use --all to include completed ones.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		reminders, err := c.ListReminders(ctx)
		if err != nil {
			return fmt.Errorf("failed to list reminders: %w", err)
		}
		if reminders, err = cmdutil.Apply(&listFlags, reminders); err != nil {
			return err
		}
		reminders = selectReminders(reminders, time.Now(), listAll, listOverdue)

		return cmdutil.Render(cmd, reminders, func(tw *tabwriter.Writer) {
			fmt.Fprintln(tw, "ID\tTITLE\tDUE\tDONE\tDESCRIPTION")
			now := time.Now()
			for _, r := range reminders {
				due := output.Dash(r.DueDate.String())
				if r.Overdue(now) {
					due = pterm.Red(due)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.ReminderID, r.Title, due, output.Check(r.Completed), output.Dash(r.Description))
			}
		})
	},
}

func selectReminders(in []sdk.Reminder, now time.Time, all, overdueOnly bool) []sdk.Reminder {
	out := make([]sdk.Reminder, 0, len(in))
	for _, r := range in {
		switch {
		case overdueOnly && !r.Overdue(now):
		case !all && r.Completed:
		default:
			out = append(out, r)
		}
	}
	return out
}

var (
	addDue         string
	addDescription string
)

var addCmd = &cobra.Command{
	Use:   "add TITLE...",
	Short: "Create a reminder",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reminder := sdk.Reminder{Title: strings.Join(args, " "), Description: addDescription}
		if addDue != "" {
			due, err := sdk.ParseDate(addDue)
			if err != nil {
				return &sdk.ValidationError{Field: "due", Message: err.Error()}
			}
			reminder.DueDate = due
		}

		c, err := cmdutil.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		ctx, cancel := cmdutil.Timeout(cmd)
		defer cancel()

		created, err := c.CreateReminder(ctx, reminder)
		if err != nil {
			return fmt.Errorf("failed to create reminder: %w", err)
		}
		pterm.Success.Printf("Created reminder %q (id %d)\n", reminder.Title, created.ReminderID)
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete ID",
	Short: "Mark a reminder as done",
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

		if err := c.CompleteReminder(ctx, id); err != nil {
			return fmt.Errorf("failed to complete reminder: %w", err)
		}
		pterm.Success.Printf("Reminder %d completed\n", id)
		return nil
	},
}

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cmdutil.ParseID(args[0])
		if err != nil {
			return err
		}
		if !deleteYes {
			ok, err := prompt.Confirm(cmdutil.NonInteractive(cmd), fmt.Sprintf("Delete reminder %d?", id), false)
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

		if err := c.DeleteReminder(ctx, id); err != nil {
			return fmt.Errorf("failed to delete reminder: %w", err)
		}
		pterm.Success.Printf("Deleted reminder %d\n", id)
		return nil
	},
}

func init() {
	listFlags.Register(listCmd)
	listCmd.Flags().BoolVar(&listOverdue, "overdue", false, "Only overdue reminders")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Include completed reminders")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "Details")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip confirmation")

	RemindersCmd.AddCommand(listCmd)
	RemindersCmd.AddCommand(addCmd)
	RemindersCmd.AddCommand(completeCmd)
	RemindersCmd.AddCommand(deleteCmd)
}
