package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"statsd/statsd"
)

// Config holds every configurable value of the command.
type Config struct {
	// Storage
	Sink       statsd.Sink `mapstructure:"sink"`        // text|csv|sqlite
	Path       string      `mapstructure:"path"`        // e.g. "./data/metrics.csv"
	BufferSize int         `mapstructure:"buffer_size"` // records buffered before a flush

	// Diagnostics
	LogLevel string `mapstructure:"log_level"` // debug|info|warn|error
	Stats    bool   `mapstructure:"stats"`     // log self-instrumentation on exit
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"sink":        "sink",
	"path":        "path",
	"buffer-size": "buffer_size",
	"log-level":   "log_level",
	"stats":       "stats",
}

// Flags returns a flag set declaring every configuration key.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("sink", "csv", "storage backend: text, csv or sqlite")
	fs.String("path", "./data/metrics.csv", "target file; extension must match the sink")
	fs.Int("buffer-size", statsd.DefaultBufferSize, "records buffered before a flush")
	fs.String("log-level", "info", "debug, info, warn or error")
	fs.Bool("stats", false, "log buffer statistics on exit")
	return fs
}

// Load reads configuration from (in decreasing priority):
//  1. command-line flags that were explicitly set (flags may be nil)
//  2. environment variables prefixed with STATSD_ (e.g. STATSD_BUFFER_SIZE)
//  3. a yaml file (./configs/statsd.yaml) if it exists.
//
// It returns a fully populated *Config or an error.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("sink", string(statsd.SinkCSV))
	v.SetDefault("path", "./data/metrics.csv")
	v.SetDefault("buffer_size", statsd.DefaultBufferSize)
	v.SetDefault("log_level", "info")
	v.SetDefault("stats", false)

	v.SetEnvPrefix("STATSD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("statsd")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if cfg.Sink.Extension() == "" {
		return nil, fmt.Errorf("%w: unknown sink %q", statsd.ErrInvalidConfig, cfg.Sink)
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: path must not be empty", statsd.ErrInvalidConfig)
	}

	return &cfg, nil
}
