// Package agent holds the daemon-wide configuration and its runtime
// plumbing: YAML parsing, logger construction, and config hot reload.
package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bridgekit/wifibridge/internal/listener"
	"github.com/bridgekit/wifibridge/internal/netman"
)

// DefaultConfigPath is where the daemon looks for its configuration.
const DefaultConfigPath = "/etc/wifibridge/config.yaml"

// DefaultLogLevel is the default log level.
const DefaultLogLevel = "info"

// AgentConfig is the top-level configuration for the wifibridge daemon.
// It aggregates all subsystem configurations and is populated from
// a YAML configuration file via ParseConfig.
type AgentConfig struct {
	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFile is an optional log file path. When set, logs go to the
	// file with rotation instead of stderr.
	LogFile string `yaml:"log_file"`

	Listener listener.Config `yaml:"listener"`
	Netman   netman.Config   `yaml:"netman"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *AgentConfig) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.Listener.ApplyDefaults()
	c.Netman.ApplyDefaults()
}

// Validate checks that required fields are set and values are acceptable.
func (c *AgentConfig) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("agent: config: invalid log_level %q", c.LogLevel)
	}
	if err := c.Listener.Validate(); err != nil {
		return err
	}
	if err := c.Netman.Validate(); err != nil {
		return err
	}
	return nil
}

// ParseConfig reads a YAML configuration file and returns an AgentConfig.
// It applies defaults and validates the configuration.
func ParseConfig(path string) (*AgentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("agent: config: read %s: %w", path, err)
	}
	var cfg AgentConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("agent: config: parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
