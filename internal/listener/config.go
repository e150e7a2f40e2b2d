// Package listener implements the TCP server that receives WiFi configuration
// commands from the control client and applies them through NetworkManager.
package listener

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// DefaultHost is the address the listener binds to. The bridge listens only
// on its provisioning network, never on all interfaces.
const DefaultHost = "10.10.0.1"

// DefaultPort is the TCP port the listener binds to.
const DefaultPort = 12345

// DefaultReadLimit is the maximum request packet size in bytes.
const DefaultReadLimit = 1024

// DefaultReadTimeout bounds the wait for a client's request packet.
const DefaultReadTimeout = 30 * time.Second

// DefaultSettleDelay is the pause between profile mutations, giving
// NetworkManager time to observe each change.
const DefaultSettleDelay = time.Second

// DefaultShutdownTimeout bounds the graceful shutdown drain.
const DefaultShutdownTimeout = 5 * time.Second

// Config holds the listener server settings.
type Config struct {
	// Host is the IP address to bind.
	// Default: 10.10.0.1
	Host string `yaml:"host"`

	// Port is the TCP port to bind.
	// Default: 12345
	Port int `yaml:"port"`

	// ReadLimit is the maximum request size in bytes.
	// Default: 1024
	ReadLimit int `yaml:"read_limit"`

	// ReadTimeout bounds the wait for a request after accept.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// SettleDelay is the pause between NetworkManager profile mutations.
	// Default: 1s
	SettleDelay time.Duration `yaml:"settle_delay"`

	// ShutdownTimeout bounds the graceful shutdown drain.
	// Default: 5s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.ReadLimit == 0 {
		c.ReadLimit = DefaultReadLimit
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// Validate checks that required fields are set and values are acceptable.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("listener: config: Host is required")
	}
	if net.ParseIP(c.Host) == nil {
		return fmt.Errorf("listener: config: Host %q is not a valid IP address", c.Host)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("listener: config: Port %d out of range", c.Port)
	}
	if c.ReadLimit < 1 {
		return fmt.Errorf("listener: config: ReadLimit must be positive, got %d", c.ReadLimit)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("listener: config: ReadTimeout must be positive, got %s", c.ReadTimeout)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("listener: config: SettleDelay must not be negative, got %s", c.SettleDelay)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("listener: config: ShutdownTimeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// Addr returns the host:port the listener binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
