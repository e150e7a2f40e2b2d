// Package packaging installs the wifi-bridge listener as a systemd service.
package packaging

import (
	"errors"
	"path/filepath"
	"strings"
)

// DefaultUnitName is the unit file the installer looks for in the invocation
// directory. The file is externally authored and copied as opaque bytes.
const DefaultUnitName = "wifi-bridge-listener.service"

// DefaultUnitDir is the systemd unit directory the unit file is installed to.
const DefaultUnitDir = "/etc/systemd/system"

// DefaultConfigDir is the listener configuration directory.
const DefaultConfigDir = "/etc/wifibridge"

// UnitFileMode is the permission applied to the installed unit file.
const UnitFileMode = 0o644

// InstallConfig holds the configuration for installing the listener service.
// InstallConfig is passed as a constructor argument; this package does no
// config file parsing of its own.
type InstallConfig struct {
	// UnitName is the name of the unit file.
	// Default: wifi-bridge-listener.service
	UnitName string

	// SourcePath is the path of the unit file to install.
	// Default: ./<UnitName> (the invocation directory)
	SourcePath string

	// UnitDir is the systemd unit directory.
	// Default: /etc/systemd/system
	UnitDir string

	// ConfigDir is the listener configuration directory.
	// Default: /etc/wifibridge
	ConfigDir string

	// ListenHost optionally seeds the generated default config (optional).
	ListenHost string
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *InstallConfig) ApplyDefaults() {
	if c.UnitName == "" {
		c.UnitName = DefaultUnitName
	}
	if c.SourcePath == "" {
		c.SourcePath = filepath.Join(".", c.UnitName)
	}
	if c.UnitDir == "" {
		c.UnitDir = DefaultUnitDir
	}
	if c.ConfigDir == "" {
		c.ConfigDir = DefaultConfigDir
	}
}

// Validate checks that required fields are set.
func (c *InstallConfig) Validate() error {
	if c.UnitName == "" {
		return errors.New("packaging: config: UnitName is required")
	}
	if !strings.HasSuffix(c.UnitName, ".service") {
		return errors.New("packaging: config: UnitName must end in .service")
	}
	if c.SourcePath == "" {
		return errors.New("packaging: config: SourcePath is required")
	}
	if c.UnitDir == "" {
		return errors.New("packaging: config: UnitDir is required")
	}
	if c.ConfigDir == "" {
		return errors.New("packaging: config: ConfigDir is required")
	}
	return nil
}

// ServiceName returns the systemd service name: the unit file name with the
// .service suffix stripped, which is how systemctl is addressed.
func (c *InstallConfig) ServiceName() string {
	return strings.TrimSuffix(c.UnitName, ".service")
}

// UnitPath returns the installed unit file path.
func (c *InstallConfig) UnitPath() string {
	return filepath.Join(c.UnitDir, c.UnitName)
}
