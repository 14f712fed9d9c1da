package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/cmd/admin"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/cmd/auth"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/cmd/dashboard"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/cmd/inventory"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/cmd/profile"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/cmd/reminders"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/cmd/shopping"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/cmd/stock"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/client"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/config"
	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/routeguard"
	"github.com/devindaJJ/HomeStock-sub000/pkg/sdk"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "homestockctl",
	Short: "HomeStock CLI - household inventory client",
	Long: `homestockctl is the command-line interface for HomeStock. Use it to log in,
track household items, stock levels, the shopping list and reminders, and,
for administrators, to manage user accounts.

Every command is checked against your session before it runs: commands that
need a login confirm your token with the server first.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}

		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}

		provider := client.NewProvider(client.Options{
			ServerURL:   cfg.ServerURL,
			SessionFile: cfg.SessionFile,
			Timeout:     cfg.Timeout,
			Logger:      logger,
		})

		global := &config.GlobalConfig{Config: cfg, Logger: logger, ClientProvider: provider}
		cmd.SetContext(config.InjectConfig(cmd.Context(), global))

		return guardCommand(cmd, global)
	},
}

// guardCommand mounts the route bound to cmd. A role bounce shows the
// dashboard before failing so the user lands somewhere useful.
func guardCommand(cmd *cobra.Command, cfg *config.GlobalConfig) error {
	route, ok := routeguard.RouteOf(cmd)
	if !ok || !route.Protected() {
		return nil
	}

	guard, err := cfg.ClientProvider.Guard(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := client.EnsureTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	_, err = routeguard.Check(ctx, guard, route)
	var redirect *routeguard.RedirectError
	if errors.As(err, &redirect) && redirect.Decision == sdk.RedirectToDashboard {
		pterm.Warning.Println(redirect.Error())
		if renderErr := dashboard.Render(cmd); renderErr != nil {
			cfg.Logger.Debug("dashboard render after redirect failed", "error", renderErr)
		}
	}
	return err
}

func newLogger(level string) (*slog.Logger, error) {
	lvl, err := config.ParseLogLevel(level)
	if err != nil {
		return nil, err
	}

	ptermLevel := pterm.LogLevelInfo
	switch {
	case lvl <= slog.LevelDebug:
		ptermLevel = pterm.LogLevelDebug
	case lvl >= slog.LevelError:
		ptermLevel = pterm.LogLevelError
	case lvl >= slog.LevelWarn:
		ptermLevel = pterm.LogLevelWarn
	}

	logger := pterm.DefaultLogger.WithLevel(ptermLevel).WithWriter(os.Stderr)
	return slog.New(pterm.NewSlogHandler(logger)), nil
}

// errorMessage renders err for the terminal. Guard redirects keep their own
// wording so the login hint survives.
func errorMessage(err error) string {
	var redirect *routeguard.RedirectError
	if errors.As(err, &redirect) {
		return redirect.Error()
	}
	return sdk.UserMessage(err)
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		pterm.Error.Println(errorMessage(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default ~/.homestock/config.yaml)")
	flags.String("server", config.DefaultServerURL, "HomeStock API server URL")
	flags.String("session-file", "", "Session file (default ~/.homestock/session.json)")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.Bool("non-interactive", false, "Disable interactive prompts (also set via HOMESTOCK_NON_INTERACTIVE=1)")
	flags.StringP("output", "o", config.OutputTable, "Output format (table, json, yaml)")
	flags.Duration("timeout", config.DefaultTimeout, "Timeout for each server call")

	for key, flag := range map[string]string{
		"server":          "server",
		"session_file":    "session-file",
		"log_level":       "log-level",
		"non_interactive": "non-interactive",
		"output":          "output",
		"timeout":         "timeout",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(dashboard.DashboardCmd)
	rootCmd.AddCommand(profile.ProfileCmd)
	rootCmd.AddCommand(inventory.InventoryCmd)
	rootCmd.AddCommand(shopping.ShoppingCmd)
	rootCmd.AddCommand(stock.StockCmd)
	rootCmd.AddCommand(reminders.RemindersCmd)
	rootCmd.AddCommand(admin.UsersCmd)
}
