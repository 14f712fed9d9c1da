package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devindaJJ/HomeStock-sub000/cmd/homestockctl/internal/client"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment override (HOMESTOCK_SERVER, ...).
	EnvPrefix = "HOMESTOCK"

	DefaultServerURL = "http://localhost:5000"
	DefaultTimeout   = 15 * time.Second
)

// Output formats accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Config holds the resolved CLI settings.
type Config struct {
	ServerURL      string        `mapstructure:"server"`
	SessionFile    string        `mapstructure:"session_file"`
	LogLevel       string        `mapstructure:"log_level"`
	NonInteractive bool          `mapstructure:"non_interactive"`
	Output         string        `mapstructure:"output"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// DefaultDir returns ~/.homestock, where the config and session files live.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".homestock"), nil
}

// Load resolves configuration from defaults, the config file, HOMESTOCK_*
// environment variables and any flags already bound to v, in increasing
// order of precedence. A missing default config file is not an error; a
// missing explicit one is.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	v.SetDefault("server", DefaultServerURL)
	v.SetDefault("log_level", "warn")
	v.SetDefault("output", OutputTable)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("non_interactive", false)
	v.SetDefault("session_file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalises and checks the resolved values.
func (c *Config) Validate() error {
	c.ServerURL = strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server URL %q", c.ServerURL)
	}

	switch c.Output = strings.ToLower(c.Output); c.Output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unsupported output format %q (want table, json or yaml)", c.Output)
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}

// ParseLogLevel maps a --log-level value onto slog.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

type contextKey string

const configKey contextKey = "homestockctl-config"

// GlobalConfig holds shared configuration for all homestockctl commands.
// This is injected into the cobra command context by the root command's
// PersistentPreRunE hook and consumed by all subcommands.
type GlobalConfig struct {
	*Config
	Logger         *slog.Logger
	ClientProvider *client.Provider
}

// InjectConfig adds config to the cobra command context.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the cobra command context.
// Returns (nil, false) if config is not present.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics.
// This should only be used in command RunE functions where we know
// the config has been injected by the root command.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("homestockctl: config not found in context - this is a bug in homestockctl")
	}
	return cfg
}
