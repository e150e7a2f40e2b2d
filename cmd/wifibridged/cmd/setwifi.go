package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bridgekit/wifibridge/internal/client"
	"github.com/bridgekit/wifibridge/internal/protocol"
)

var (
	setWifiHost    string
	setWifiPort    int
	setWifiProfile string
)

var setWifiCmd = &cobra.Command{
	Use:   "set-wifi <ssid> <password>",
	Short: "Send WiFi credentials to a bridge listener",
	Long: "Connect to a bridge listener and push WiFi credentials. Exits 0 on\n" +
		"success, 100 on a rejected password, 101 when the connection did not\n" +
		"come up in time, and 1 on any other failure. Run this from the control\n" +
		"machine, not on the bridge itself.",
	Args: cobra.ExactArgs(2),
	RunE: runSetWifi,
}

func init() {
	setWifiCmd.Flags().StringVar(&setWifiHost, "host", "10.10.0.1", "listener address")
	setWifiCmd.Flags().IntVar(&setWifiPort, "port", 12345, "listener port")
	setWifiCmd.Flags().StringVar(&setWifiProfile, "profile", "", "connection profile name on the bridge")
	rootCmd.AddCommand(setWifiCmd)
}

func runSetWifi(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	c := client.New(client.Config{
		Host: setWifiHost,
		Port: setWifiPort,
	}, logger)

	wifiCmd := protocol.Command{
		SSID:     args[0],
		Password: args[1],
		Profile:  setWifiProfile,
	}

	resp, err := c.Send(cmd.Context(), wifiCmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(client.ExitFailure)
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp)
	if code := client.ExitCode(resp); code != client.ExitSuccess {
		os.Exit(code)
	}
	return nil
}
