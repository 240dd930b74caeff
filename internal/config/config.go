package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. GROWTH_OUTPUT_MODE
const EnvPrefix = "GROWTH"

// DefaultConfigFile is read when present and no explicit file is given
const DefaultConfigFile = "growth.yaml"

// Config represents the complete application configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" split_words:"true"`
	Tables     TablesConfig     `yaml:"tables" split_words:"true"`
	Subjects   SubjectsConfig   `yaml:"subjects" split_words:"true"`
	Output     OutputConfig     `yaml:"output" split_words:"true"`
	Processing ProcessingConfig `yaml:"processing" split_words:"true"`
	Server     ServerConfig     `yaml:"server" split_words:"true"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" split_words:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level     string `yaml:"level" split_words:"true"`
	Format    string `yaml:"format" split_words:"true"` // json | text
	Output    string `yaml:"output" split_words:"true"` // console | file | both
	FilePath  string `yaml:"file_path" split_words:"true"`
	AddSource bool   `yaml:"add_source" split_words:"true"`
}

// TablesConfig locates the growth reference tables
type TablesConfig struct {
	WeightPath  string `yaml:"weight_path" split_words:"true"`
	WeightSheet string `yaml:"weight_sheet" split_words:"true"`
	HeightPath  string `yaml:"height_path" split_words:"true"`
	HeightSheet string `yaml:"height_sheet" split_words:"true"`
}

// SubjectsConfig locates the subject dataset
type SubjectsConfig struct {
	Path  string `yaml:"path" split_words:"true"`
	Sheet string `yaml:"sheet" split_words:"true"`
}

// OutputConfig controls what is emitted and where
type OutputConfig struct {
	Mode         string `yaml:"mode" split_words:"true"`   // zscore | percentile
	Format       string `yaml:"format" split_words:"true"` // csv | xlsx
	Path         string `yaml:"path" split_words:"true"`
	ErrorColumns bool   `yaml:"error_columns" split_words:"true"`
	Summary      bool   `yaml:"summary" split_words:"true"`
	BOMPrefix    bool   `yaml:"bom_prefix" split_words:"true"`
}

// ProcessingConfig tunes the scoring pipeline
type ProcessingConfig struct {
	// Concurrency bounds the number of records scored at once; 0 means GOMAXPROCS
	Concurrency int `yaml:"concurrency" split_words:"true"`
	// SexFilterAtBirth applies the sex filter to lookups at exactly zero months
	SexFilterAtBirth bool `yaml:"sex_filter_at_birth" split_words:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" split_words:"true"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" split_words:"true"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" split_words:"true"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" split_words:"true"`
	MaxBatchSize    int             `yaml:"max_batch_size" split_words:"true"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" split_words:"true"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" split_words:"true"`
	RPS     float64 `yaml:"rps" split_words:"true"`
	Burst   int     `yaml:"burst" split_words:"true"`
}

// TelemetryConfig selects OpenTelemetry exporters
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" split_words:"true"`
	TraceExporter  string  `yaml:"trace_exporter" split_words:"true"`  // stdout | none
	MetricExporter string  `yaml:"metric_exporter" split_words:"true"` // prometheus | none
	SampleRatio    float64 `yaml:"sample_ratio" split_words:"true"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/growth.log",
		},
		Tables: TablesConfig{
			WeightPath:  "wtagecombined.xlsx",
			WeightSheet: "Sheet1",
			HeightPath:  "lengthstaturecombinedat24_5months.xlsx",
			HeightSheet: "Sheet1",
		},
		Subjects: SubjectsConfig{
			Sheet: "Sheet1",
		},
		Output: OutputConfig{
			Mode:         "zscore",
			Format:       "csv",
			Path:         "growth_scores.csv",
			ErrorColumns: true,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxBatchSize:    10000,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   100,
			},
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file, then GROWTH_*
// environment variables, each overriding the previous. An empty path falls back to
// GROWTH_CONFIG_FILE and then to DefaultConfigFile when it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if path = os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
			explicit = true
		} else {
			path = DefaultConfigFile
		}
	}

	if _, err := os.Stat(path); err == nil {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML document at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	var errs []error

	if !oneOf(c.Logging.Level, "debug", "info", "warn", "warning", "error") {
		errs = append(errs, fmt.Errorf("invalid logging level: %q", c.Logging.Level))
	}
	if !oneOf(c.Logging.Format, "json", "text") {
		errs = append(errs, fmt.Errorf("invalid logging format: %q", c.Logging.Format))
	}
	if !oneOf(c.Logging.Output, "console", "file", "both") {
		errs = append(errs, fmt.Errorf("invalid logging output: %q", c.Logging.Output))
	}
	if !strings.EqualFold(c.Logging.Output, "console") && c.Logging.FilePath == "" {
		errs = append(errs, errors.New("logging file path is required for file output"))
	}

	if !oneOf(c.Output.Mode, "zscore", "percentile") {
		errs = append(errs, fmt.Errorf("invalid output mode: %q", c.Output.Mode))
	}
	if !oneOf(c.Output.Format, "csv", "xlsx") {
		errs = append(errs, fmt.Errorf("invalid output format: %q", c.Output.Format))
	}

	if c.Processing.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("processing concurrency must not be negative: %d", c.Processing.Concurrency))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port: %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}
	if c.Server.MaxBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("server max batch size must be positive: %d", c.Server.MaxBatchSize))
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.RPS <= 0 || c.Server.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rate limit rps and burst must be positive when enabled"))
	}

	if !oneOf(c.Telemetry.TraceExporter, "stdout", "none") {
		errs = append(errs, fmt.Errorf("unsupported trace exporter: %q", c.Telemetry.TraceExporter))
	}
	if !oneOf(c.Telemetry.MetricExporter, "prometheus", "none") {
		errs = append(errs, fmt.Errorf("unsupported metric exporter: %q", c.Telemetry.MetricExporter))
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("telemetry sample ratio must be within [0, 1]: %v", c.Telemetry.SampleRatio))
	}

	return errors.Join(errs...)
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return true
		}
	}
	return false
}
