// Package config loads upctl settings from a YAML file, UPCTL_*
// environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. UPCTL_LOG_LEVEL.
const EnvPrefix = "UPCTL"

// Setting keys. Nested keys use dots; their environment variables use
// underscores (output.format -> UPCTL_OUTPUT_FORMAT).
const (
	KeyLogLevel         = "log_level"
	KeyLogFormat        = "log_format"
	KeyOutputFormat     = "output.format"
	KeyOutputPretty     = "output.pretty"
	KeyScriptTimeout    = "script.timeout"
	KeyScriptConfig     = "script.config"
	KeyBusIsolate       = "bus.isolate"
	KeyBusRecoverPanics = "bus.recover_panics"
	KeyMetricsEnabled   = "metrics.enabled"
)

// Output formats.
const (
	FormatQuery   = "query"
	FormatJSON    = "json"
	FormatEntries = "entries"
)

// ErrInvalidConfig is returned when a loaded setting is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete upctl configuration.
type Config struct {
	LogLevel  string        `mapstructure:"log_level"`
	LogFormat string        `mapstructure:"log_format"`
	Output    OutputConfig  `mapstructure:"output"`
	Script    ScriptConfig  `mapstructure:"script"`
	Bus       BusConfig     `mapstructure:"bus"`
	Metrics   MetricsConfig `mapstructure:"metrics"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// OutputConfig controls how commands print params.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Pretty bool   `mapstructure:"pretty"`
}

// ScriptConfig controls Lua script runs.
type ScriptConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`

	// Config is passed to the script's setup function.
	Config map[string]any `mapstructure:"config"`
}

// BusConfig sets the error policy of the event bus.
type BusConfig struct {
	Isolate       bool `mapstructure:"isolate"`
	RecoverPanics bool `mapstructure:"recover_panics"`
}

// MetricsConfig controls the metrics dump after script runs.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// New returns a viper instance with defaults and environment binding set
// up. Flags can be bound to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")

	v.SetDefault(KeyOutputFormat, FormatJSON)
	v.SetDefault(KeyOutputPretty, false)

	v.SetDefault(KeyScriptTimeout, "5s")
	v.SetDefault(KeyScriptConfig, map[string]any{})

	v.SetDefault(KeyBusIsolate, false)
	v.SetDefault(KeyBusRecoverPanics, false)

	v.SetDefault(KeyMetricsEnabled, false)
}

// Load reads the config file and unmarshals the settings of v. With an
// empty path it looks for upctl.yaml in the working directory and in
// $HOME/.config/upctl, and a missing file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("upctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/upctl")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks that the settings are in range.
func validate(cfg *Config) error {
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, cfg.LogFormat)
	}

	switch cfg.Output.Format {
	case FormatQuery, FormatJSON, FormatEntries:
	default:
		return fmt.Errorf("%w: output.format %q", ErrInvalidConfig, cfg.Output.Format)
	}

	if cfg.Script.Timeout < 0 {
		return fmt.Errorf("%w: script.timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}
