// Package config loads the request service settings. Sources, from lowest to
// highest precedence: defaults, a config file, NETSERVICE_* environment
// variables and command line flags the user actually set.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is a viper instance with typed lookups.
type Config struct {
	*viper.Viper
}

// Option configures New.
type Option func(*Config) error

// New builds a Config from opts, applied in order.
func New(opts ...Option) (*Config, error) {
	c := &Config{Viper: viper.New()}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithDefaults registers fallback values, see NetworkDefaults.
func WithDefaults(defaults map[string]any) Option {
	return func(c *Config) error {
		for k, v := range defaults {
			c.SetDefault(k, v)
		}
		return nil
	}
}

// WithFile reads path, see ReadFile. An empty path is ignored.
func WithFile(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return nil
		}
		return c.ReadFile(path)
	}
}

// WithEnv lets PREFIX_API_BASE_URL override api.base_url and so on.
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		c.SetEnvPrefix(prefix)
		c.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		c.AutomaticEnv()
		return nil
	}
}

// WithNetworkFlags registers the request service flags on fs, parses args and
// binds the flags the user set. Unset flags leave file and env values alone.
func WithNetworkFlags(fs *pflag.FlagSet, args []string) Option {
	return func(c *Config) error {
		if fs == nil {
			fs = pflag.CommandLine
		}
		fs.String(KeyBaseURL, "", "API base url")
		fs.Duration(KeyTimeout, 0, "request timeout")
		fs.String(KeyRefreshPath, "", "token refresh endpoint path")
		fs.Int(KeyForceLogoutCode, 0, "normalized code that forces a logout")
		fs.String(KeyRedisAddr, "", "redis address for the token store (empty keeps state in memory)")
		fs.String(KeyLogLevel, "", "log level (debug, info, warn, error)")
		fs.Bool(KeyTracingEnabled, false, "export traces over OTLP/HTTP")
		if err := fs.Parse(args); err != nil {
			return err
		}
		var err error
		fs.Visit(func(f *pflag.Flag) {
			if err == nil {
				err = c.BindPFlag(f.Name, f)
			}
		})
		return err
	}
}

// ReadFile loads path as the config file. The format follows the extension.
func (c *Config) ReadFile(path string) error {
	c.SetConfigFile(path)
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		c.SetConfigType(ext)
	}
	if err := c.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return nil
}

// Watch re-reads the config file whenever it is written and then calls
// onChange. It reports false when no file was read, so there is nothing to
// watch.
func (c *Config) Watch(onChange func(*Config)) bool {
	if c.ConfigFileUsed() == "" {
		return false
	}
	c.OnConfigChange(func(e fsnotify.Event) {
		if e.Has(fsnotify.Write) || e.Has(fsnotify.Create) {
			onChange(c)
		}
	})
	c.WatchConfig()
	return true
}

// GetStringD returns the string at key, or def when it is empty.
func (c *Config) GetStringD(key, def string) string {
	if v := c.GetString(key); v != "" {
		return v
	}
	return def
}

// GetIntD returns the int at key, or def when key is unset.
func (c *Config) GetIntD(key string, def int) int {
	if !c.IsSet(key) {
		return def
	}
	return c.GetInt(key)
}

// GetDurationD returns the duration at key, or def when key is unset.
func (c *Config) GetDurationD(key string, def time.Duration) time.Duration {
	if !c.IsSet(key) {
		return def
	}
	return c.GetDuration(key)
}
