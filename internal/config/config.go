// ABOUTME: Configuration loading and parsing for the autodetect probe
// ABOUTME: Supports YAML files with environment variable expansion and validated defaults

package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/2389/autodetect/internal/caps"
	"github.com/2389/autodetect/internal/providers"
	"github.com/2389/autodetect/internal/registry"
)

// DefaultFilterCaps matches the raw video formats accepted when nothing is configured.
const DefaultFilterCaps = "video/x-raw-yuv; video/x-raw-rgb"

// Config represents the complete autodetect configuration
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Providers ProvidersConfig `yaml:"providers"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SourceConfig holds the facade settings
type SourceConfig struct {
	Name          string   `yaml:"name"`
	Klass         []string `yaml:"klass"`
	MinRank       int      `yaml:"min_rank"`
	FilterCaps    string   `yaml:"filter_caps"`    // empty disables filtering
	RankOverrides string   `yaml:"rank_overrides"` // optional TOML file
}

// ProvidersConfig holds settings for the built-in providers
type ProvidersConfig struct {
	V4L2        V4L2Config        `yaml:"v4l2"`
	TestPattern TestPatternConfig `yaml:"testpattern"`
}

// V4L2Config lists the capture devices to expose
type V4L2Config struct {
	Devices []string `yaml:"devices"`
}

// TestPatternConfig holds the synthetic source settings
type TestPatternConfig struct {
	Rank int `yaml:"rank"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Klass:      []string{"Source", "Video"},
			MinRank:    registry.RankMarginal,
			FilterCaps: DefaultFilterCaps,
		},
		Providers: ProvidersConfig{
			V4L2: V4L2Config{Devices: []string{"/dev/video0"}},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Keys missing from the file keep their Default values.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML content on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if len(c.Source.Klass) == 0 {
		return fmt.Errorf("source.klass must list at least one tag")
	}
	for _, tag := range c.Source.Klass {
		if tag == "" {
			return fmt.Errorf("source.klass must not contain empty tags")
		}
	}

	if c.Source.MinRank < 0 {
		return fmt.Errorf("source.min_rank must not be negative, got %d", c.Source.MinRank)
	}

	if _, err := c.Filter(); err != nil {
		return fmt.Errorf("source.filter_caps: %w", err)
	}

	if c.Providers.TestPattern.Rank < 0 {
		return fmt.Errorf("providers.testpattern.rank must not be negative, got %d", c.Providers.TestPattern.Rank)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

// Filter parses the configured filter caps. An empty string disables filtering and returns nil.
func (c *Config) Filter() (*caps.Caps, error) {
	if c.Source.FilterCaps == "" {
		return nil, nil
	}
	return caps.Parse(c.Source.FilterCaps)
}

// ProviderOptions maps the providers section onto registration options.
func (c *Config) ProviderOptions() providers.Options {
	return providers.Options{
		V4L2Devices:     append([]string(nil), c.Providers.V4L2.Devices...),
		TestPatternRank: c.Providers.TestPattern.Rank,
	}
}
