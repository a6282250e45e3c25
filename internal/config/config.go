package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Registry  RegistryConfig  `yaml:"registry" envconfig:"REGISTRY"`
	Rate      RateConfig      `yaml:"rate" envconfig:"RATE"`
	Collect   CollectConfig   `yaml:"collect" envconfig:"COLLECT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// RegistryConfig describes how to reach fedresurs.ru
type RegistryConfig struct {
	BaseURL   string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	UserAgent string        `yaml:"user_agent" envconfig:"USER_AGENT"`
}

// RateConfig controls the pause between registry calls.
// Mode "fixed" sleeps Interval before every call; "token" uses a token bucket
// refilled every Interval with the given Burst.
type RateConfig struct {
	Mode     string        `yaml:"mode" envconfig:"MODE" validate:"oneof=fixed token"`
	Interval time.Duration `yaml:"interval" envconfig:"INTERVAL" validate:"gte=0"`
	Burst    int           `yaml:"burst" envconfig:"BURST" validate:"gte=1"`
}

// CollectConfig contains pagination and message-listing settings
type CollectConfig struct {
	PageSize      int  `yaml:"page_size" envconfig:"PAGE_SIZE" validate:"min=1,max=100"`
	OffsetCeiling int  `yaml:"offset_ceiling" envconfig:"OFFSET_CEILING" validate:"gtefield=PageSize"`
	Deduplicate   bool `yaml:"deduplicate" envconfig:"DEDUPLICATE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	InputFile string `yaml:"input_file" envconfig:"INPUT_FILE" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// TelemetryConfig contains tracing and metrics settings
type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	MetricsAddr    string `yaml:"metrics_addr" envconfig:"METRICS_ADDR" validate:"omitempty,hostname_port"`
}

// Load loads configuration from the first config file found in the usual
// locations (if any) and from FEDLEASE_* environment variables.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration in three layers: defaults, then the YAML file
// at filePath (skipped when empty), then environment variables.
func LoadFrom(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		if err := loadFromFile(filePath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Variables that are not set leave the current value untouched
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize lower-cases enum-like values and fills derived defaults
func (c *Config) normalize() {
	c.Rate.Mode = strings.ToLower(strings.TrimSpace(c.Rate.Mode))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Output = strings.ToLower(strings.TrimSpace(c.Logging.Output))
	c.Telemetry.TraceExporter = strings.ToLower(strings.TrimSpace(c.Telemetry.TraceExporter))
	c.Telemetry.MetricExporter = strings.ToLower(strings.TrimSpace(c.Telemetry.MetricExporter))
	c.Registry.BaseURL = strings.TrimRight(c.Registry.BaseURL, "/")

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = AppName + ".log"
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			BaseURL:   DefaultBaseURL,
			Timeout:   DefaultHTTPTimeout,
			UserAgent: DefaultUserAgent,
		},
		Rate: RateConfig{
			Mode:     RateModeFixed,
			Interval: DefaultRateInterval,
			Burst:    1,
		},
		Collect: CollectConfig{
			PageSize:      DefaultPageSize,
			OffsetCeiling: DefaultOffsetCeiling,
			Deduplicate:   false,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "",
		},
		Paths: PathsConfig{
			InputFile: DefaultInputFile,
			OutputDir: DefaultOutputDir,
			LogsDir:   DefaultLogsDir,
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "none",
		},
	}
}
