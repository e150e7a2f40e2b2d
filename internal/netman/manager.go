package netman

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// ErrBadPassword reports a profile activation rejected because NetworkManager
// could not obtain valid secrets, which almost always means a wrong PSK.
var ErrBadPassword = errors.New("netman: activation failed: secrets were required")

// AddrReader looks up the current IPv4 address of a network interface.
type AddrReader interface {
	// InterfaceIPv4 returns the first global IPv4 address of the named
	// interface, or "" if the interface has none yet.
	InterfaceIPv4(name string) (string, error)
}

// Manager provisions WiFi connection profiles through nmcli.
type Manager struct {
	cfg    Config
	runner Runner
	addrs  AddrReader
	logger *slog.Logger

	mu             sync.RWMutex
	connectTimeout time.Duration
	pollInterval   time.Duration
}

// NewManager creates a Manager. Config defaults are applied automatically.
func NewManager(cfg Config, runner Runner, addrs AddrReader, logger *slog.Logger) *Manager {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:            cfg,
		runner:         runner,
		addrs:          addrs,
		logger:         logger.With("component", "netman"),
		connectTimeout: cfg.ConnectTimeout,
		pollInterval:   cfg.PollInterval,
	}
}

// Config returns the manager's effective configuration.
func (m *Manager) Config() Config {
	return m.cfg
}

// SetTuning adjusts the connection wait parameters at runtime. Zero or
// negative values leave the current setting unchanged. In-flight waits keep
// the parameters they started with.
func (m *Manager) SetTuning(connectTimeout, pollInterval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if connectTimeout > 0 {
		m.connectTimeout = connectTimeout
	}
	if pollInterval > 0 {
		m.pollInterval = pollInterval
	}
}

func (m *Manager) tuning() (connectTimeout, pollInterval time.Duration) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connectTimeout, m.pollInterval
}

// DeleteProfile removes the named connection profile if it exists. A profile
// that is already absent is not an error.
func (m *Manager) DeleteProfile(ctx context.Context, profile string) error {
	stdout, _, err := m.runner.Run(ctx, "nmcli", "-t", "-f", "UUID,NAME", "connection", "show")
	if err != nil {
		return fmt.Errorf("netman: list connections: %w", err)
	}

	uuid := findProfileUUID(stdout, profile)
	if uuid == "" {
		m.logger.Debug("no existing profile to delete", "profile", profile)
		return nil
	}

	m.logger.Info("deleting connection profile", "profile", profile, "uuid", uuid)
	if _, _, err := m.runner.Run(ctx, "nmcli", "connection", "delete", uuid); err != nil {
		return fmt.Errorf("netman: delete profile %s: %w", profile, err)
	}
	return nil
}

// AddWifiProfile creates a WPA-PSK WiFi connection profile bound to the
// managed interface.
func (m *Manager) AddWifiProfile(ctx context.Context, profile, ssid, password string) error {
	m.logger.Info("adding connection profile", "profile", profile, "ssid", ssid)

	args := []string{
		"connection", "add",
		"type", "wifi",
		"con-name", profile,
		"ifname", m.cfg.Interface,
		"ssid", ssid,
		"--",
		"wifi-sec.key-mgmt", "wpa-psk",
		"wifi-sec.psk", password,
	}
	if _, _, err := m.runner.Run(ctx, "nmcli", args...); err != nil {
		return fmt.Errorf("netman: add profile %s: %w", profile, err)
	}
	return nil
}

// Activate brings up the named connection profile. A rejection caused by
// missing secrets is reported as ErrBadPassword.
func (m *Manager) Activate(ctx context.Context, profile string) error {
	m.logger.Info("activating connection profile", "profile", profile)

	_, stderr, err := m.runner.Run(ctx, "nmcli", "connection", "up", profile)
	if err != nil {
		if strings.Contains(strings.ToLower(stderr), "secrets were required") {
			return fmt.Errorf("netman: activate %s: %w", profile, ErrBadPassword)
		}
		return fmt.Errorf("netman: activate %s: %w", profile, err)
	}
	return nil
}

// findProfileUUID scans terse "UUID:NAME" nmcli output for an exact profile
// name match.
func findProfileUUID(out, profile string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if parts[1] == profile {
			return parts[0]
		}
	}
	return ""
}
