// Package cmd implements the wifibridged CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bridgekit/wifibridge/internal/agent"
)

var (
	cfgFile  string
	logLevel string
)

// Build info set from main.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersionInfo sets the version info from build-time ldflags.
func SetVersionInfo(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("wifibridged version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

var rootCmd = &cobra.Command{
	Use:   "wifibridged",
	Short: "wifibridged is the WiFi provisioning bridge daemon",
	Long: "wifibridged runs on a headless device and lets a wired controller put it on\n" +
		"a wireless network. It listens on the provisioning interface for WiFi\n" +
		"credentials and applies them through NetworkManager, reporting the outcome\n" +
		"back over the same connection.",
	// No Run function — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", agent.DefaultConfigPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error; overrides config)")

	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("wifibridged version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
