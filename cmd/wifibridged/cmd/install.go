package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bridgekit/wifibridge/internal/packaging"
)

var (
	installUnitFile   string
	installListenHost string
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the bridge listener as a systemd service",
	RunE:  runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installUnitFile, "unit-file", "", "path to the unit file to install (default ./"+packaging.DefaultUnitName+")")
	installCmd.Flags().StringVar(&installListenHost, "listen-host", "", "listener bind address written to the default config")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, _ []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := packaging.InstallConfig{
		SourcePath: installUnitFile,
		ListenHost: installListenHost,
	}

	installer := packaging.NewInstaller(cfg, packaging.NewSystemdController(), packaging.NewRootChecker(), logger)

	if err := installer.Install(); err != nil {
		return fmt.Errorf("wifibridged install: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), packaging.Instructions(cfg))
	return nil
}
