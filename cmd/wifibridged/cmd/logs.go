package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/bridgekit/wifibridge/internal/packaging"
)

var logsFollow bool

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Stream listener logs",
	Long:  "Stream bridge listener logs from journald.",
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "follow log output")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, _ []string) error {
	journalctl, err := exec.LookPath("journalctl")
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "journalctl not found; if the daemon logs to a file, check log_file in the config")
		return nil
	}

	var cfg packaging.InstallConfig
	cfg.ApplyDefaults()

	args := []string{"-u", cfg.ServiceName(), "--no-pager"}
	if logsFollow {
		args = append(args, "-f")
	}

	c := exec.Command(journalctl, args...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	if err := c.Run(); err != nil {
		return fmt.Errorf("wifibridged logs: %w", err)
	}
	return nil
}
