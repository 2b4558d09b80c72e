// Package config loads Netman's server configuration from (in order
// of precedence) environment variables, a YAML config file, and
// built-in defaults, using viper for the env-prefix and config-file
// search with validator-backed post-load checks.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is Netman's full server configuration.
type Config struct {
	// Listen is the address the HTTP server binds (router + /metrics).
	Listen string `mapstructure:"listen" validate:"required"`

	// InactivityTimeout is how long a session may go untouched before
	// it is force-closed.
	InactivityTimeout time.Duration `mapstructure:"inactivity_timeout" validate:"required,gt=0"`

	// ShutdownTimeout bounds how long graceful shutdown waits for open
	// sessions to be force-closed.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`

	Logging LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig controls log/slog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// Default returns Netman's built-in configuration, used when no
// config file is found.
func Default() *Config {
	return &Config{
		Listen:            ":8443",
		InactivityTimeout: 5 * time.Minute,
		ShutdownTimeout:   30 * time.Second,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from configPath (if non-empty), overlays
// NETMAN_-prefixed environment variables, falls back to Default() for
// anything unset, and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupViper registers Default()'s values as viper defaults before
// any file or env lookup, so AutomaticEnv and a partial config file
// both merge against a complete baseline instead of Unmarshal
// zeroing out fields neither one sets.
func setupViper(v *viper.Viper, configPath string) {
	def := Default()
	v.SetDefault("listen", def.Listen)
	v.SetDefault("inactivity_timeout", def.InactivityTimeout)
	v.SetDefault("shutdown_timeout", def.ShutdownTimeout)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)

	v.SetEnvPrefix("NETMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/netman")
	v.SetConfigName("netman")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read config file: %w", err)
	}
	return true, nil
}
