// Package protocol defines the wire format spoken between the bridge listener
// and the control client. Requests are single plaintext packets of the form
// "SET_WIFI,<ssid>,<password>" or "SET_WIFI_PROFILE,<ssid>,<password>,<profile>";
// responses are fixed strings. The format is shared with older deployments and
// must not change shape.
package protocol

import (
	"errors"
	"strings"
)

// Request prefixes.
const (
	cmdSetWifi        = "SET_WIFI"
	cmdSetWifiProfile = "SET_WIFI_PROFILE"
)

// Responses sent back to the client. Matched byte-for-byte by clients, so these
// are part of the wire contract.
const (
	RespSuccess          = "WiFi connection successful"
	RespConnectTimeout   = "WiFi connection failed: Timeout or connection error"
	RespBadPassword      = "Error: Activation failed - bad password?"
	RespActivateFailed   = "Error: Failed to activate NM connection command"
	RespAddProfileFailed = "Error: Failed to add/modify NM connection profile"
	RespInvalidPacket    = "Invalid packet format or value"
	RespServerError      = "Error processing command on server"
)

// ErrInvalidPacket reports a request that does not match either command form.
var ErrInvalidPacket = errors.New("protocol: invalid packet format or value")

// Command is a parsed WiFi configuration request. Profile is empty when the
// client asked for the listener's default profile.
type Command struct {
	SSID     string
	Password string
	Profile  string
}

// ParseCommand parses a request packet. In the SET_WIFI form the password may
// contain commas; in the SET_WIFI_PROFILE form the profile name absorbs the
// remainder instead. A custom profile name must be non-empty after trimming.
func ParseCommand(data string) (Command, error) {
	switch {
	case strings.HasPrefix(data, cmdSetWifiProfile+","):
		parts := strings.SplitN(data, ",", 4)
		if len(parts) != 4 {
			return Command{}, ErrInvalidPacket
		}
		profile := strings.TrimSpace(parts[3])
		if profile == "" {
			return Command{}, ErrInvalidPacket
		}
		return Command{SSID: parts[1], Password: parts[2], Profile: profile}, nil

	case strings.HasPrefix(data, cmdSetWifi+","):
		parts := strings.SplitN(data, ",", 3)
		if len(parts) != 3 {
			return Command{}, ErrInvalidPacket
		}
		return Command{SSID: parts[1], Password: parts[2]}, nil

	default:
		return Command{}, ErrInvalidPacket
	}
}

// Encode renders the command as a request packet.
func (c Command) Encode() string {
	if c.Profile != "" {
		return strings.Join([]string{cmdSetWifiProfile, c.SSID, c.Password, c.Profile}, ",")
	}
	return strings.Join([]string{cmdSetWifi, c.SSID, c.Password}, ",")
}

// Redacted renders the command with the password hidden, for logging.
func (c Command) Redacted() string {
	if c.Profile != "" {
		return strings.Join([]string{cmdSetWifiProfile, c.SSID, "<password hidden>", c.Profile}, ",")
	}
	return strings.Join([]string{cmdSetWifi, c.SSID, "<password hidden>"}, ",")
}
