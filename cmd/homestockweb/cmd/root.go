package cmd

import (
	"log/slog"
	"os"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockweb/internal/config"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "homestockweb",
	Short: "HomeStock web frontend",
	Long: `homestockweb serves the HomeStock pages in a browser. It talks to the
HomeStock API on the user's behalf and keeps the session in an encrypted cookie.`,
	SilenceUsage: true,
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

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	if err := v.BindPFlag("log_level", flags.Lookup("log-level")); err != nil {
		panic(err)
	}
}
