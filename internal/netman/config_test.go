package netman

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Interface != "wlan0" {
		t.Errorf("Interface = %q, want wlan0", cfg.Interface)
	}
	if cfg.Profile != "ListenerManagedWifi" {
		t.Errorf("Profile = %q, want ListenerManagedWifi", cfg.Profile)
	}
	if cfg.ConnectTimeout != 45*time.Second {
		t.Errorf("ConnectTimeout = %s, want 45s", cfg.ConnectTimeout)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Errorf("PollInterval = %s, want 3s", cfg.PollInterval)
	}
	if cfg.CommandTimeout != 20*time.Second {
		t.Errorf("CommandTimeout = %s, want 20s", cfg.CommandTimeout)
	}
}

func TestConfig_ApplyDefaults_PreservesSetValues(t *testing.T) {
	cfg := Config{
		Interface:      "wlan1",
		Profile:        "Custom",
		ConnectTimeout: time.Minute,
	}
	cfg.ApplyDefaults()

	if cfg.Interface != "wlan1" {
		t.Errorf("Interface = %q, want wlan1", cfg.Interface)
	}
	if cfg.Profile != "Custom" {
		t.Errorf("Profile = %q, want Custom", cfg.Profile)
	}
	if cfg.ConnectTimeout != time.Minute {
		t.Errorf("ConnectTimeout = %s, want 1m", cfg.ConnectTimeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults valid", func(*Config) {}, ""},
		{"empty interface", func(c *Config) { c.Interface = "" }, "Interface"},
		{"empty profile", func(c *Config) { c.Profile = "" }, "Profile"},
		{"negative connect timeout", func(c *Config) { c.ConnectTimeout = -time.Second }, "ConnectTimeout"},
		{"negative poll interval", func(c *Config) { c.PollInterval = -time.Second }, "PollInterval"},
		{"poll exceeds connect", func(c *Config) {
			c.ConnectTimeout = time.Second
			c.PollInterval = 2 * time.Second
		}, "exceeds"},
		{"negative command timeout", func(c *Config) { c.CommandTimeout = -time.Second }, "CommandTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}
