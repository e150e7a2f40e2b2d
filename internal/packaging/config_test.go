package packaging

import (
	"path/filepath"
	"testing"
)

func TestInstallConfig_ApplyDefaults(t *testing.T) {
	var cfg InstallConfig
	cfg.ApplyDefaults()

	if cfg.UnitName != "wifi-bridge-listener.service" {
		t.Errorf("UnitName = %q", cfg.UnitName)
	}
	if cfg.SourcePath != filepath.Join(".", "wifi-bridge-listener.service") {
		t.Errorf("SourcePath = %q, want unit file in the invocation directory", cfg.SourcePath)
	}
	if cfg.UnitDir != "/etc/systemd/system" {
		t.Errorf("UnitDir = %q", cfg.UnitDir)
	}
	if cfg.ConfigDir != "/etc/wifibridge" {
		t.Errorf("ConfigDir = %q", cfg.ConfigDir)
	}
}

func TestInstallConfig_ServiceName_StripsSuffix(t *testing.T) {
	cfg := InstallConfig{UnitName: "wifi-bridge-listener.service"}
	if got := cfg.ServiceName(); got != "wifi-bridge-listener" {
		t.Errorf("ServiceName() = %q, want wifi-bridge-listener", got)
	}
}

func TestInstallConfig_UnitPath(t *testing.T) {
	var cfg InstallConfig
	cfg.ApplyDefaults()
	if got := cfg.UnitPath(); got != "/etc/systemd/system/wifi-bridge-listener.service" {
		t.Errorf("UnitPath() = %q", got)
	}
}

func TestInstallConfig_Validate(t *testing.T) {
	var cfg InstallConfig
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil for defaults", err)
	}

	bad := cfg
	bad.UnitName = "wifi-bridge-listener.timer"
	if err := bad.Validate(); err == nil {
		t.Error("Validate() = nil, want error for non-.service unit name")
	}
}
