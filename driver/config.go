package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"typereflect/schema"
)

// Front-end names accepted in Config.Frontend.
const (
	FrontendGo   = "go"
	FrontendDecl = "decl"
)

// DefaultDebounce is the watch debounce used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// Config is the project file driving a pipeline.
type Config struct {
	Version  string   `yaml:"version"`
	Name     string   `yaml:"name,omitempty"`
	Frontend string   `yaml:"frontend"`
	Dir      string   `yaml:"dir,omitempty"`
	Patterns []string `yaml:"patterns"`
	// RelativeTo is stripped from keys and references of the output.
	RelativeTo  string      `yaml:"relativeTo,omitempty"`
	Output      string      `yaml:"output,omitempty"`
	Format      string      `yaml:"format,omitempty"`
	ExportsOnly bool        `yaml:"exportsOnly,omitempty"`
	Store       string      `yaml:"store,omitempty"`
	Workers     int         `yaml:"workers,omitempty"`
	Watch       WatchConfig `yaml:"watch,omitempty"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce Duration `yaml:"debounce,omitempty"`
}

// Duration is a time.Duration written as a Go duration string.
type Duration time.Duration

// UnmarshalYAML implements custom YAML unmarshaling for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a duration, got %v", node.Line, node.Kind)
	}

	v, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*d = Duration(v)

	return nil
}

// MarshalYAML implements custom YAML marshaling for Duration.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// LoadConfig loads and parses a project file. Relative Dir, Output and
// Store paths are taken relative to the file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	for _, p := range []*string{&cfg.Dir, &cfg.Output, &cfg.Store} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}

	return cfg, nil
}

// ParseConfig parses YAML data into a Config with defaults applied.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills in default values for optional fields.
func (c *Config) applyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}

	if c.Frontend == "" {
		c.Frontend = FrontendGo
	}

	if c.Dir == "" {
		c.Dir = "."
	}

	if c.Name == "" {
		c.Name = "default"
	}

	if c.Format == "" && c.Output != "" {
		c.Format = string(schema.FormatFromPath(c.Output))
	}

	if c.Workers == 0 {
		c.Workers = 1
	}

	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = Duration(DefaultDebounce)
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Frontend != FrontendGo && c.Frontend != FrontendDecl {
		errs = append(errs, fmt.Errorf("unknown frontend %q (expected %q or %q)", c.Frontend, FrontendGo, FrontendDecl))
	}

	if len(c.Patterns) == 0 {
		errs = append(errs, errors.New("no patterns configured"))
	}

	if _, err := schema.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}

	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("negative watch debounce %s", time.Duration(c.Watch.Debounce)))
	}

	return errors.Join(errs...)
}

// OutputFormat returns the configured output format, JSON by default.
func (c *Config) OutputFormat() schema.Format {
	f, err := schema.ParseFormat(c.Format)
	if err != nil {
		return schema.FormatJSON
	}

	return f
}

// MarshalConfig serializes a Config to YAML.
func MarshalConfig(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteConfig writes a Config to the given path.
func WriteConfig(c *Config, path string) error {
	data, err := MarshalConfig(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}
