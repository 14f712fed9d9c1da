package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (HOMESTOCK_WEB_ADDR, ...).
const EnvPrefix = "HOMESTOCK_WEB"

// Config holds the web frontend settings.
//
// CookieHashKey and CookieBlockKey are base64 keys for the session cookie.
// When unset, random keys are generated and sessions do not survive a
// restart. CORSOrigins lists the origins allowed to read /api/session.
type Config struct {
	Addr           string        `mapstructure:"addr"`
	APIURL         string        `mapstructure:"api_url"`
	CookieHashKey  string        `mapstructure:"cookie_hash_key"`
	CookieBlockKey string        `mapstructure:"cookie_block_key"`
	SecureCookies  bool          `mapstructure:"secure_cookies"`
	CORSOrigins    []string      `mapstructure:"cors_origins"`
	LogLevel       string        `mapstructure:"log_level"`
	Timeout        time.Duration `mapstructure:"timeout"`

	hashKey  []byte
	blockKey []byte
}

// Load resolves configuration from defaults, an optional config file,
// HOMESTOCK_WEB_* environment variables and flags bound to v.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("api_url", "http://localhost:5000")
	v.SetDefault("log_level", "info")
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("secure_cookies", false)
	v.SetDefault("cookie_hash_key", "")
	v.SetDefault("cookie_block_key", "")
	v.SetDefault("cors_origins", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
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

// Validate checks the resolved values and decodes the cookie keys.
func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q", c.APIURL)
	}
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}

	if c.hashKey, err = decodeKey("cookie_hash_key", c.CookieHashKey, 32, 64); err != nil {
		return err
	}
	if c.blockKey, err = decodeKey("cookie_block_key", c.CookieBlockKey, 16, 24, 32); err != nil {
		return err
	}
	return nil
}

// Ephemeral reports whether cookie keys were generated rather than configured.
func (c *Config) Ephemeral() bool {
	return c.CookieHashKey == "" || c.CookieBlockKey == ""
}

// CookieKeys returns the decoded hash and block keys.
func (c *Config) CookieKeys() (hashKey, blockKey []byte) {
	return c.hashKey, c.blockKey
}

// decodeKey decodes a base64 key of one of the allowed lengths. An empty
// value yields a random key of the first allowed length.
func decodeKey(name, value string, sizes ...int) ([]byte, error) {
	if value == "" {
		return generateRandomBytes(sizes[0])
	}
	key, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid base64: %w", name, err)
	}
	for _, size := range sizes {
		if len(key) == size {
			return key, nil
		}
	}
	return nil, fmt.Errorf("%s must decode to one of %v bytes, got %d", name, sizes, len(key))
}

// generateRandomBytes creates a slice of random bytes of a specified size.
func generateRandomBytes(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// ParseLogLevel maps a log level name onto slog.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
