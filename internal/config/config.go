package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Output   OutputConfig   `mapstructure:"output"`
}

type AnalysisConfig struct {
	Algorithm           string   `mapstructure:"algorithm"`
	SimilarityThreshold int      `mapstructure:"similarity_threshold"`
	MaxWorkers          int      `mapstructure:"max_workers"`
	Extensions          []string `mapstructure:"extensions"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Pretty  bool   `mapstructure:"pretty"`
	NoColor bool   `mapstructure:"no_color"`
}

type OutputConfig struct {
	Color  string `mapstructure:"color"`
	Format string `mapstructure:"format"`
}

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"threshold": "analysis.similarity_threshold",
	"workers":   "analysis.max_workers",
	"log-level": "logging.level",
	"color":     "output.color",
	"format":    "output.format",
}

// Load reads config.yaml from ./config or the working directory (or the
// explicit configFile), then applies SIMMATRIX_* environment variables and
// any flags in flags that were set on the command line.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("simmatrix")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Analysis.Algorithm {
	case "ssdeep", "lzjd":
	default:
		errs = append(errs, fmt.Errorf("analysis.algorithm: unsupported value %q", c.Analysis.Algorithm))
	}
	if c.Analysis.SimilarityThreshold < 0 || c.Analysis.SimilarityThreshold > 100 {
		errs = append(errs, fmt.Errorf("analysis.similarity_threshold: %d is outside [0, 100]", c.Analysis.SimilarityThreshold))
	}
	if c.Analysis.MaxWorkers < 1 {
		errs = append(errs, fmt.Errorf("analysis.max_workers: must be at least 1, got %d", c.Analysis.MaxWorkers))
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("output.color: unsupported value %q", c.Output.Color))
	}
	switch c.Output.Format {
	case "text", "table":
	default:
		errs = append(errs, fmt.Errorf("output.format: unsupported value %q", c.Output.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.algorithm", "ssdeep")
	v.SetDefault("analysis.similarity_threshold", 95)
	v.SetDefault("analysis.max_workers", 1)
	v.SetDefault("analysis.extensions", []string{})

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.pretty", true)
	v.SetDefault("logging.no_color", false)

	v.SetDefault("output.color", ColorAuto)
	v.SetDefault("output.format", "text")
}
