// Package config loads sungear settings from defaults, an optional YAML file
// and SUNGEAR_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/katalvlaran/sungear/cool"
	"github.com/katalvlaran/sungear/explorer"
	"github.com/katalvlaran/sungear/internal/logging"
	"github.com/katalvlaran/sungear/internal/metrics"
	sgerr "github.com/katalvlaran/sungear/pkg/errors"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "SUNGEAR"

// Config is the top-level sungear configuration.
type Config struct {
	Threshold float64       `mapstructure:"threshold"`
	Cool      CoolConfig    `mapstructure:"cool"`
	Log       LogConfig     `mapstructure:"log"`
	Metrics   MetricsConfig `mapstructure:"metrics"`
}

// CoolConfig picks a ranking preset and optionally overrides its filters.
// Nil overrides keep the preset's value.
type CoolConfig struct {
	Preset   string   `mapstructure:"preset"`
	MinSize  *int     `mapstructure:"min_size"`
	MinScore *float64 `mapstructure:"min_score"`
	Limit    *int     `mapstructure:"limit"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig controls metric naming.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("threshold", explorer.DefaultThreshold)
	v.SetDefault("cool.preset", cool.PresetSelected)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatJSON)
	v.SetDefault("metrics.namespace", metrics.DefaultNamespace)
}

// SetupEnv maps SUNGEAR_COOL_MIN_SIZE style variables onto keys.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// keys without defaults are invisible to Unmarshal unless bound
	for _, key := range []string{"cool.min_size", "cool.min_score", "cool.limit"} {
		_ = v.BindEnv(key)
	}
}

// Load reads configuration from path (optional) with defaults and
// environment overrides applied.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, sgerr.Errorf(sgerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, sgerr.Errorf(sgerr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, sgerr.Errorf(sgerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks the configuration for logical errors and returns all of
// them.
func (c *Config) Validate() []error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, sgerr.Errorf(sgerr.CodeConfigValidateInvalidValue, "config: "+format, args...))
	}

	if math.IsNaN(c.Threshold) {
		invalid("threshold must be a number")
	}

	if _, err := cool.PresetByName(c.Cool.Preset); err != nil {
		names := make([]string, 0, 4)
		for _, m := range cool.Presets() {
			names = append(names, m.Name)
		}
		invalid("cool.preset must be one of [%s], got %q", strings.Join(names, ", "), c.Cool.Preset)
	}
	if c.Cool.MinSize != nil && *c.Cool.MinSize < 0 {
		invalid("cool.min_size must be >= 0, got %d", *c.Cool.MinSize)
	}
	if c.Cool.MinScore != nil && math.IsNaN(*c.Cool.MinScore) {
		invalid("cool.min_score must be a number")
	}
	if c.Cool.Limit != nil && *c.Cool.Limit < 0 {
		invalid("cool.limit must be >= 0, got %d", *c.Cool.Limit)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		invalid("log.level %q: %w", c.Log.Level, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatJSON, logging.FormatPretty:
	default:
		invalid("log.format must be one of [json, pretty], got %q", c.Log.Format)
	}

	if !metricName.MatchString(c.Metrics.Namespace) {
		invalid("metrics.namespace must match %s, got %q", metricName, c.Metrics.Namespace)
	}

	return errs
}

// Method resolves the configured preset with overrides applied.
func (c *Config) Method() (cool.Method, error) {
	m, err := cool.PresetByName(c.Cool.Preset)
	if err != nil {
		return cool.Method{}, err
	}
	if c.Cool.MinSize != nil {
		m.MinSize = *c.Cool.MinSize
	}
	if c.Cool.MinScore != nil {
		m.MinScore = *c.Cool.MinScore
	}
	if c.Cool.Limit != nil {
		m.Limit = *c.Cool.Limit
	}
	return m, m.Validate()
}

// ExplorerOptions returns the explorer settings held by the configuration.
func (c *Config) ExplorerOptions() []explorer.Option {
	return []explorer.Option{explorer.WithThreshold(c.Threshold)}
}

// NewMetrics registers a collector named under metrics.namespace on reg.
func (c *Config) NewMetrics(reg prometheus.Registerer) (*metrics.Collector, error) {
	return metrics.New(reg, c.Metrics.Namespace)
}

// Logging returns the logger settings for logging.Init.
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}
