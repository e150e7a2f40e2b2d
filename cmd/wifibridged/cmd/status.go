package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/bridgekit/wifibridge/internal/agent"
	"github.com/bridgekit/wifibridge/internal/netman"
	"github.com/bridgekit/wifibridge/internal/packaging"
)

var statusJSON bool

// statusTimeout bounds the nmcli queries behind the status command.
const statusTimeout = 15 * time.Second

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show WiFi and service status",
	Long:  "Query NetworkManager for the wireless interface state and systemd for the listener service state.",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

// statusReport is the status command's output shape.
type statusReport struct {
	netman.Observation
	ServiceActive  bool `json:"service_active"`
	ServiceEnabled bool `json:"service_enabled"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	nmCfg := loadNetmanConfig(cfgFile, logger)

	manager := netman.NewManager(nmCfg, netman.NewRunner(nmCfg.CommandTimeout), netman.NewAddrReader(), logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()

	obs := manager.Snapshot(ctx)

	var pkgCfg packaging.InstallConfig
	pkgCfg.ApplyDefaults()
	systemd := packaging.NewSystemdController()
	report := statusReport{
		Observation:    obs,
		ServiceActive:  systemd.IsActive(pkgCfg.ServiceName()),
		ServiceEnabled: systemd.IsEnabled(pkgCfg.ServiceName()),
	}

	w := cmd.OutOrStdout()
	if statusJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("wifibridged status: %w", err)
		}
		fmt.Fprintln(w, string(out))
		return nil
	}

	fmt.Fprintf(w, "Interface:       %s\n", report.Interface)
	fmt.Fprintf(w, "Device state:    %s\n", orDash(report.DeviceState))
	fmt.Fprintf(w, "Active profile:  %s\n", orDash(report.ActiveProfile))
	fmt.Fprintf(w, "Active SSID:     %s\n", orDash(report.ActiveSSID))
	fmt.Fprintf(w, "IPv4 address:    %s\n", orDash(report.IPv4))
	fmt.Fprintf(w, "Service active:  %t\n", report.ServiceActive)
	fmt.Fprintf(w, "Service enabled: %t\n", report.ServiceEnabled)
	return nil
}

// loadNetmanConfig reads the netman section of the daemon config. Status
// must work on a machine with no config installed, so a missing or broken
// file falls back to defaults, but a broken one is reported: silently
// describing the wrong interface would send the operator down a dead end.
func loadNetmanConfig(path string, logger *slog.Logger) netman.Config {
	var nmCfg netman.Config
	cfg, err := agent.ParseConfig(path)
	switch {
	case err == nil:
		nmCfg = cfg.Netman
	case errors.Is(err, os.ErrNotExist):
		// No config installed; defaults describe the stock bridge.
	default:
		logger.Warn("config unreadable, reporting defaults", "path", path, "error", err)
	}
	nmCfg.ApplyDefaults()
	return nmCfg
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
