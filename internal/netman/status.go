package netman

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrConnectTimeout reports that a connection did not reach the fully
// connected state before the configured deadline.
var ErrConnectTimeout = errors.New("netman: connection check timed out")

// Observation is a point-in-time view of the managed interface, as reported
// by NetworkManager. Field names carry JSON tags so a snapshot can be emitted
// by the status command.
type Observation struct {
	Interface     string `json:"interface"`
	DeviceState   string `json:"device_state"`
	ActiveProfile string `json:"active_profile"`
	ActiveSSID    string `json:"active_ssid"`
	IPv4          string `json:"ipv4,omitempty"`
}

// WaitForConnection polls NetworkManager until the interface is connected
// through the given profile to the given SSID with an IPv4 address, or the
// connect timeout elapses. It returns the acquired address.
func (m *Manager) WaitForConnection(ctx context.Context, profile, ssid string) (string, error) {
	connectTimeout, pollInterval := m.tuning()
	deadline := time.Now().Add(connectTimeout)

	m.logger.Info("waiting for connection",
		"profile", profile,
		"ssid", ssid,
		"timeout", connectTimeout,
	)

	var obs Observation
	attempt := 0
	for time.Now().Before(deadline) {
		attempt++
		obs = m.observe(ctx, profile, ssid)

		m.logger.Info("connection check",
			"attempt", attempt,
			"device_state", obs.DeviceState,
			"active_profile", obs.ActiveProfile,
			"active_ssid", obs.ActiveSSID,
			"ipv4", obs.IPv4,
		)

		if obs.DeviceState == "connected" &&
			obs.ActiveProfile == profile &&
			obs.ActiveSSID == ssid &&
			obs.IPv4 != "" {
			return obs.IPv4, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(pollInterval):
		}
	}

	return "", fmt.Errorf("%w after %s: device_state=%s active_profile=%s active_ssid=%s",
		ErrConnectTimeout, connectTimeout, obs.DeviceState, obs.ActiveProfile, obs.ActiveSSID)
}

// Snapshot returns a one-shot observation of the managed interface without
// any success criteria applied.
func (m *Manager) Snapshot(ctx context.Context) Observation {
	return m.observe(ctx, "", "")
}

// observe gathers device state, active profile, active SSID, and IPv4 address
// for the managed interface. Individual query failures are logged and leave
// the corresponding field empty; the caller decides what incomplete state
// means.
func (m *Manager) observe(ctx context.Context, profile, ssid string) Observation {
	obs := Observation{Interface: m.cfg.Interface}

	stdout, _, err := m.runner.Run(ctx, "nmcli", "-t", "-f", "DEVICE,STATE", "device", "status")
	if err != nil {
		m.logger.Debug("device status query failed", "error", err)
	} else {
		obs.DeviceState = deviceState(stdout, m.cfg.Interface)
	}

	stdout, _, err = m.runner.Run(ctx, "nmcli", "-t", "-f", "NAME,DEVICE", "connection", "show", "--active")
	if err != nil {
		m.logger.Debug("active connection query failed", "error", err)
	} else {
		obs.ActiveProfile = activeProfile(stdout, m.cfg.Interface)
	}

	// Skip the SSID scan while the device cannot have one.
	switch obs.DeviceState {
	case "", "disconnected", "unavailable", "deactivating", "unknown":
	default:
		stdout, _, err = m.runner.Run(ctx, "nmcli", "-t", "-f", "active,ssid",
			"device", "wifi", "list", "ifname", m.cfg.Interface, "--rescan", "no")
		if err != nil {
			m.logger.Debug("ssid query failed", "error", err)
		} else {
			obs.ActiveSSID = activeSSID(stdout)
		}
	}

	// The IP lookup only matters once everything else lines up, or when
	// taking an unconditional snapshot.
	wantIP := profile == "" ||
		(obs.DeviceState == "connected" && obs.ActiveProfile == profile && obs.ActiveSSID == ssid)
	if wantIP {
		ip, err := m.addrs.InterfaceIPv4(m.cfg.Interface)
		if err != nil {
			m.logger.Debug("address lookup failed", "interface", m.cfg.Interface, "error", err)
		} else {
			obs.IPv4 = ip
		}
	}

	return obs
}

// deviceState extracts the state of the named device from terse
// "DEVICE:STATE" output.
func deviceState(out, iface string) string {
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, iface+":"); ok {
			return rest
		}
	}
	return ""
}

// activeProfile extracts the profile name bound to the named device from
// terse "NAME:DEVICE" output.
func activeProfile(out, iface string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) == 2 && parts[1] == iface {
			return parts[0]
		}
	}
	return ""
}

// activeSSID extracts the SSID marked active from terse "active:ssid" output.
func activeSSID(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "yes:"); ok {
			return rest
		}
	}
	return ""
}
