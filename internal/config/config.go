package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"github.com/davherrmann/davherrmann.github.io/internal/foundation/errors"
)

// Config is the process-wide site configuration. It is created once at start
// and must not be mutated while a build runs.
type Config struct {
	BaseURL     string        `yaml:"base_url"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description,omitempty"`
	Copyright   string        `yaml:"copyright,omitempty"`
	Color       string        `yaml:"color,omitempty"`
	Menu        []MenuItem    `yaml:"menu,omitempty"`
	Source      string        `yaml:"source"`
	CacheBust   string        `yaml:"cache_bust,omitempty"` // Query token appended to asset links
	Output      OutputConfig  `yaml:"output"`
	Build       BuildConfig   `yaml:"build"`
	Logging     LoggingConfig `yaml:"logging"`
	Metrics     MetricsConfig `yaml:"metrics"`
}

// MenuItem is a sidebar navigation entry.
type MenuItem struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Remove the output directory before writing
}

// BuildConfig controls post-declaration checks.
type BuildConfig struct {
	VerifyLinks bool `yaml:"verify_links"`
	StrictLinks bool `yaml:"strict_links"` // Broken internal links fail the build
}

// MetricsConfig controls the optional Prometheus textfile export.
type MetricsConfig struct {
	File string `yaml:"file,omitempty"`
}

const (
	DefaultSource    = "./site"
	DefaultOutputDir = "./public"
	DefaultTitle     = "Site"
)

// Load loads configuration from the specified file.
//
// Environment variables from .env/.env.local are loaded first, and ${VAR}
// references in the file are expanded before decoding.
func Load(configPath string) (*Config, error) {
	_ = loadEnvFile()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("file", configPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().WithContext("file", configPath).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if c, ok := errors.AsClassified(err); ok {
			return nil, c.WithContext("file", configPath)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes, defaults and validates configuration bytes.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}

	cfg.applyDefaults(expanded)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults(raw string) {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Source == "" {
		c.Source = DefaultSource
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	if c.CacheBust == "" {
		// Stable per configuration so repeated builds produce identical output.
		fp := mdfp.CalculateFingerprintFromParts(raw, "")
		if len(fp) > 10 {
			fp = fp[:10]
		}
		c.CacheBust = fp
	}
	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("file", configPath).Build()
	}

	example := Example()
	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			Fatal().WithContext("file", configPath).Build()
	}
	return nil
}

// Example returns the configuration of the reference site.
func Example() Config {
	return Config{
		BaseURL:     "https://i.love.software/",
		Title:       "I ♡ SOFTWARE",
		Description: "code by David Herrmann",
		Copyright:   "© David Herrmann",
		Color:       "#49045f",
		Menu:        []MenuItem{{Name: "Blog", URL: "blog/"}},
		Source:      DefaultSource,
		CacheBust:   "aljv5RGPao",
		Output: OutputConfig{
			Directory: DefaultOutputDir,
			Clean:     true,
		},
		Build: BuildConfig{VerifyLinks: true},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}
