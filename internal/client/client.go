// Package client implements the control-side counterpart of the listener:
// it sends one WiFi configuration packet and maps the response to a process
// exit code scripts can branch on.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/bridgekit/wifibridge/internal/protocol"
)

// Exit codes for the set-wifi command. Nonstandard values are deliberate:
// provisioning scripts distinguish a wrong password from a bridge that is
// simply unreachable.
const (
	ExitSuccess        = 0
	ExitFailure        = 1
	ExitBadPassword    = 100
	ExitConnectTimeout = 101
)

// DefaultTimeout bounds each dial and each read/write.
const DefaultTimeout = 10 * time.Second

// DefaultAttempts is how many times to try reaching the listener.
const DefaultAttempts = 3

// DefaultRetryDelay is the pause between attempts.
const DefaultRetryDelay = 5 * time.Second

// Config holds the client settings.
type Config struct {
	// Host is the listener address. Default: 10.10.0.1
	Host string

	// Port is the listener port. Default: 12345
	Port int

	// Timeout bounds each dial and each read/write. Default: 10s
	Timeout time.Duration

	// Attempts is the number of connection attempts. Default: 3
	Attempts int

	// RetryDelay is the pause between attempts. Default: 5s
	RetryDelay time.Duration
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "10.10.0.1"
	}
	if c.Port == 0 {
		c.Port = 12345
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Attempts == 0 {
		c.Attempts = DefaultAttempts
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
}

// Addr returns the listener host:port.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Client sends WiFi configuration commands to a bridge listener.
type Client struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Client. Config defaults are applied automatically.
func New(cfg Config, logger *slog.Logger) *Client {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		logger: logger.With("component", "client"),
	}
}

// Send delivers cmd to the listener and returns the raw response string.
// Each attempt dials fresh; the delay between attempts gives a rebooting
// bridge time to come back.
func (c *Client) Send(ctx context.Context, cmd protocol.Command) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.Attempts; attempt++ {
		if attempt > 1 {
			c.logger.Info("retrying", "attempt", attempt, "of", c.cfg.Attempts)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.cfg.RetryDelay):
			}
		}

		resp, err := c.sendOnce(ctx, cmd)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		c.logger.Warn("attempt failed", "attempt", attempt, "addr", c.cfg.Addr(), "error", err)
	}
	return "", fmt.Errorf("client: %d attempts to %s failed: %w", c.cfg.Attempts, c.cfg.Addr(), lastErr)
}

func (c *Client) sendOnce(ctx context.Context, cmd protocol.Command) (string, error) {
	d := net.Dialer{Timeout: c.cfg.Timeout}
	conn, err := d.DialContext(ctx, "tcp", c.cfg.Addr())
	if err != nil {
		return "", fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.cfg.Timeout)); err != nil {
		return "", fmt.Errorf("set deadline: %w", err)
	}

	if _, err := conn.Write([]byte(cmd.Encode())); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(buf[:n]), nil
}

// ExitCode maps a listener response to the process exit code contract.
func ExitCode(response string) int {
	switch response {
	case protocol.RespSuccess:
		return ExitSuccess
	case protocol.RespBadPassword:
		return ExitBadPassword
	case protocol.RespConnectTimeout:
		return ExitConnectTimeout
	default:
		return ExitFailure
	}
}
