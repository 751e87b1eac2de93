// Package config loads run configuration from an optional YAML file with
// YAROWSKY_* environment overrides. Command-line flags are applied on top by
// the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Corpus drivers.
const (
	DriverFolder = "folder"
	DriverSQLite = "sqlite"
)

// Config is the top-level configuration.
type Config struct {
	Pattern  string         `yaml:"pattern"`
	Seeds    []string       `yaml:"seeds"`
	Corpus   CorpusConfig   `yaml:"corpus"`
	Training TrainingConfig `yaml:"training"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CorpusConfig says where articles come from.
type CorpusConfig struct {
	Driver string `yaml:"driver"` // "folder" or "sqlite"
	Folder string `yaml:"folder"`
	DSN    string `yaml:"dsn"`
}

// TrainingConfig holds the bootstrapping parameters.
type TrainingConfig struct {
	HalfWindow    int     `yaml:"halfWindow"`
	Threshold     float64 `yaml:"threshold"`
	MaxIterations int     `yaml:"maxIterations"`
	Smoothing     float64 `yaml:"smoothing"`
	Workers       int     `yaml:"workers"`
	SkipStopwords bool    `yaml:"skipStopwords"`
}

// OutputConfig controls the run log and metrics file.
type OutputConfig struct {
	LogFile       string `yaml:"logFile"`
	ContextSample int    `yaml:"contextSample"`
	RuleSample    int    `yaml:"ruleSample"`
	MetricsFile   string `yaml:"metricsFile"`
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("%w: environment: %w", ErrInvalid, err)
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Driver: DriverFolder,
			Folder: "data",
			DSN:    "corpus.db",
		},
		Training: TrainingConfig{
			HalfWindow:    19,
			Threshold:     12,
			MaxIterations: 1000,
			Smoothing:     0.1,
			Workers:       1,
		},
		Output: OutputConfig{
			LogFile:       "log",
			ContextSample: 200,
			RuleSample:    50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the values a run depends on.
func (c *Config) Validate() error {
	var errs []error
	if c.Pattern == "" {
		errs = append(errs, errors.New("pattern is required"))
	}
	if len(c.Seeds) < 2 {
		errs = append(errs, fmt.Errorf("at least two seeds are required, got %d", len(c.Seeds)))
	}
	if c.Training.HalfWindow < 0 {
		errs = append(errs, fmt.Errorf("halfWindow must be >= 0, got %d", c.Training.HalfWindow))
	}
	if c.Training.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("maxIterations must be > 0, got %d", c.Training.MaxIterations))
	}
	if c.Training.Smoothing <= 0 {
		errs = append(errs, fmt.Errorf("smoothing must be > 0, got %v", c.Training.Smoothing))
	}
	if c.Output.ContextSample < 0 || c.Output.RuleSample < 0 {
		errs = append(errs, errors.New("sample sizes must be >= 0"))
	}
	switch c.Corpus.Driver {
	case DriverFolder:
		if c.Corpus.Folder == "" {
			errs = append(errs, errors.New("corpus.folder is required for the folder driver"))
		}
	case DriverSQLite:
		if c.Corpus.DSN == "" {
			errs = append(errs, errors.New("corpus.dsn is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown corpus driver %q", c.Corpus.Driver))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// applyEnvOverrides reads YAROWSKY_* environment variables and overrides the
// corresponding config fields. Values that do not parse are reported, not
// skipped.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("YAROWSKY_PATTERN"); v != "" {
		cfg.Pattern = v
	}
	if v := os.Getenv("YAROWSKY_SEEDS"); v != "" {
		cfg.Seeds = strings.Split(v, ",")
	}
	if v := os.Getenv("YAROWSKY_CORPUS_DRIVER"); v != "" {
		cfg.Corpus.Driver = v
	}
	if v := os.Getenv("YAROWSKY_CORPUS_FOLDER"); v != "" {
		cfg.Corpus.Folder = v
	}
	if v := os.Getenv("YAROWSKY_CORPUS_DSN"); v != "" {
		cfg.Corpus.DSN = v
	}
	if v := os.Getenv("YAROWSKY_LOG_FILE"); v != "" {
		cfg.Output.LogFile = v
	}
	if v := os.Getenv("YAROWSKY_METRICS_FILE"); v != "" {
		cfg.Output.MetricsFile = v
	}
	if v := os.Getenv("YAROWSKY_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("YAROWSKY_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	var errs []error
	envInt(&errs, "YAROWSKY_HALF_WINDOW", &cfg.Training.HalfWindow)
	envFloat(&errs, "YAROWSKY_THRESHOLD", &cfg.Training.Threshold)
	envInt(&errs, "YAROWSKY_MAX_ITERATIONS", &cfg.Training.MaxIterations)
	envFloat(&errs, "YAROWSKY_SMOOTHING", &cfg.Training.Smoothing)
	envInt(&errs, "YAROWSKY_WORKERS", &cfg.Training.Workers)
	envBool(&errs, "YAROWSKY_SKIP_STOPWORDS", &cfg.Training.SkipStopwords)
	return errors.Join(errs...)
}

func envInt(errs *[]error, key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = n
}

func envFloat(errs *[]error, key string, dst *float64) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = f
}

func envBool(errs *[]error, key string, dst *bool) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = b
}
