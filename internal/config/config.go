// Package config handles configuration management for rxdemo.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds all configuration for the demo runner.
type Config struct {
	Demo    DemoConfig    `mapstructure:"demo"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DemoConfig selects and tunes the examples.
type DemoConfig struct {
	// Examples to run in order; empty means every registered example.
	Examples         []string      `mapstructure:"examples"`
	TakeUntilDelay   time.Duration `mapstructure:"take_until_delay"`
	ReplayBufferSize int           `mapstructure:"replay_buffer_size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from files and environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("rxdemo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.rxdemo")
	}

	v.SetEnvPrefix("RXDEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "error reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "error parsing config")
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("demo.examples", []string{})
	v.SetDefault("demo.take_until_delay", time.Second)
	v.SetDefault("demo.replay_buffer_size", 3)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Demo.TakeUntilDelay < 0 {
		return fmt.Errorf("demo.take_until_delay must not be negative, got %s", cfg.Demo.TakeUntilDelay)
	}
	if cfg.Demo.ReplayBufferSize < 1 {
		return fmt.Errorf("demo.replay_buffer_size must be at least 1, got %d", cfg.Demo.ReplayBufferSize)
	}
	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		return errors.Wrapf(err, "invalid logging.level %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", cfg.Logging.Format)
	}
	return nil
}
