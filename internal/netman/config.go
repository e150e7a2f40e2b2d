// Package netman drives NetworkManager (nmcli) to provision WiFi connection
// profiles and wait for them to come up.
package netman

import (
	"errors"
	"fmt"
	"time"
)

// DefaultInterface is the WiFi interface managed by the bridge.
const DefaultInterface = "wlan0"

// DefaultProfile is the connection profile name used for listener-managed
// connections when the client does not supply one.
const DefaultProfile = "ListenerManagedWifi"

// DefaultConnectTimeout is how long a connection attempt may take end to end.
const DefaultConnectTimeout = 45 * time.Second

// DefaultPollInterval is the delay between connection status checks.
const DefaultPollInterval = 3 * time.Second

// DefaultCommandTimeout bounds a single nmcli invocation.
const DefaultCommandTimeout = 20 * time.Second

// Config holds NetworkManager orchestration settings.
type Config struct {
	// Interface is the WiFi interface name.
	// Default: wlan0
	Interface string `yaml:"interface"`

	// Profile is the connection profile name managed by the listener.
	// Default: ListenerManagedWifi
	Profile string `yaml:"profile"`

	// ConnectTimeout bounds the wait for a connection to become active.
	// Default: 45s
	ConnectTimeout time.Duration `yaml:"connect_timeout"`

	// PollInterval is the delay between status checks while waiting.
	// Default: 3s
	PollInterval time.Duration `yaml:"poll_interval"`

	// CommandTimeout bounds each individual nmcli invocation.
	// Default: 20s
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Interface == "" {
		c.Interface = DefaultInterface
	}
	if c.Profile == "" {
		c.Profile = DefaultProfile
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = DefaultCommandTimeout
	}
}

// Validate checks that required fields are set and values are acceptable.
func (c *Config) Validate() error {
	if c.Interface == "" {
		return errors.New("netman: config: Interface is required")
	}
	if c.Profile == "" {
		return errors.New("netman: config: Profile is required")
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("netman: config: ConnectTimeout must be positive, got %s", c.ConnectTimeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("netman: config: PollInterval must be positive, got %s", c.PollInterval)
	}
	if c.PollInterval > c.ConnectTimeout {
		return fmt.Errorf("netman: config: PollInterval %s exceeds ConnectTimeout %s", c.PollInterval, c.ConnectTimeout)
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("netman: config: CommandTimeout must be positive, got %s", c.CommandTimeout)
	}
	return nil
}
