package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the detection service used when nothing else is configured
const DefaultBaseURL = "https://workwithshafisk-segmento-sense.hf.space"

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Service ServiceConfig `yaml:"service" json:"service"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	UI      UIConfig      `yaml:"ui" json:"ui"`
	Watch   WatchConfig   `yaml:"watch" json:"watch"`
}

// ServiceConfig locates the detection service
type ServiceConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`     // scheme://host[/prefix]
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`       // 0 disables the client timeout
	UserAgent string        `yaml:"user_agent" json:"user_agent"` // sent on every request
}

// OutputConfig configures non-interactive output
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	ShowPreview   bool   `yaml:"show_preview" json:"show_preview"` // include the service's text preview
}

// UIConfig configures the dashboard
type UIConfig struct {
	Theme      string `yaml:"theme" json:"theme"`             // default|high-contrast|minimal
	LogFile    string `yaml:"log_file" json:"log_file"`       // where logs go while the dashboard runs
	TableRows  int    `yaml:"table_rows" json:"table_rows"`   // visible inspector rows
	ChartWidth int    `yaml:"chart_width" json:"chart_width"` // donut diameter in cells
}

// WatchConfig configures watch mode
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" json:"debounce"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Service: ServiceConfig{
			BaseURL:   DefaultBaseURL,
			Timeout:   0,
			UserAgent: "sensescan",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			ShowPreview:   false,
		},
		UI: UIConfig{
			Theme:      "default",
			LogFile:    "",
			TableRows:  8,
			ChartWidth: 22,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateServiceConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be non-negative")
	}
	return nil
}

func (c *Config) validateServiceConfig() error {
	if strings.TrimSpace(c.Service.BaseURL) == "" {
		return fmt.Errorf("service.base_url is required")
	}
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid service.base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid service.base_url: %s (must be an absolute http or https URL)", c.Service.BaseURL)
	}
	if c.Service.Timeout < 0 {
		return fmt.Errorf("service.timeout must be non-negative")
	}
	return nil
}

func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

func (c *Config) validateUIConfig() error {
	if c.UI.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.UI.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.UI.Theme)
		}
	}
	if c.UI.TableRows < 0 {
		return fmt.Errorf("ui.table_rows must be non-negative")
	}
	if c.UI.ChartWidth < 0 {
		return fmt.Errorf("ui.chart_width must be non-negative")
	}
	return nil
}

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# sensescan configuration
version: "1.0"

service:
  # Base URL of the PII detection service. Files are posted to <base_url>/scan/file.
  base_url: "` + DefaultBaseURL + `"
  # Client-side request timeout; 0 waits for the service indefinitely.
  timeout: 0s
  user_agent: "sensescan"

output:
  # text, json, markdown or csv
  default_format: "text"
  # auto, always or never
  color_mode: "auto"
  verbose: false
  # Include the text preview returned for PDF scans
  show_preview: false

ui:
  # default, high-contrast or minimal
  theme: "default"
  # Logs are written here while the dashboard is open (empty discards them)
  log_file: ""
  table_rows: 8
  chart_width: 22

watch:
  # Quiet period after the last write before a rescan starts
  debounce: 500ms
`
}

// MinimalSampleConfig returns a configuration file with only the essentials
func MinimalSampleConfig() string {
	return `version: "1.0"
service:
  base_url: "` + DefaultBaseURL + `"
output:
  default_format: "text"
`
}
