package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bridgekit/wifibridge/internal/agent"
	"github.com/bridgekit/wifibridge/internal/listener"
	"github.com/bridgekit/wifibridge/internal/netman"
	"github.com/bridgekit/wifibridge/internal/packaging"
)

// warnIfNotRoot flags a daemon started without root. The listener binds and
// serves fine unprivileged, but every nmcli mutation will be rejected.
func warnIfNotRoot(root packaging.RootChecker, logger *slog.Logger) {
	if !root.IsRoot() {
		logger.Warn("not running as root, NetworkManager commands will fail")
	}
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the bridge listener daemon",
	Long: "Start the bridge listener daemon. Binds the provisioning address and\n" +
		"serves WiFi configuration requests until stopped.",
	RunE: runUp,
}

func init() {
	rootCmd.AddCommand(upCmd)
}

func runUp(cmd *cobra.Command, _ []string) error {
	// 1. Parse config.
	cfg, err := agent.ParseConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("wifibridged up: %w", err)
	}

	// Apply CLI flag overrides.
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// 2. Set up structured logger.
	logger := agent.NewLogger(cfg.LogLevel, cfg.LogFile)

	logger.Info("starting wifibridged",
		"version", buildVersion,
		"interface", cfg.Netman.Interface,
		"addr", cfg.Listener.Addr(),
	)
	warnIfNotRoot(packaging.NewRootChecker(), logger)

	// 3. Build the NetworkManager wrapper and the server around it.
	manager := netman.NewManager(cfg.Netman, netman.NewRunner(cfg.Netman.CommandTimeout), netman.NewAddrReader(), logger)
	handler := listener.NewHandler(cfg.Listener, manager, cfg.Netman.Profile, logger)
	srv := listener.NewServer(cfg.Listener, handler, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 4. Watch the config file for runtime-safe setting changes.
	stopWatch, err := agent.WatchConfig(cfgFile, func(next *agent.AgentConfig) {
		handler.SetDefaultProfile(next.Netman.Profile)
		manager.SetTuning(next.Netman.ConnectTimeout, next.Netman.PollInterval)
	}, logger)
	if err != nil {
		// A bridge that cannot watch its config still provisions WiFi.
		logger.Warn("config watch unavailable, runtime reload disabled", "error", err)
	} else {
		defer func() {
			if err := stopWatch(); err != nil {
				logger.Warn("stopping config watch", "error", err)
			}
		}()
	}

	// 5. Serve until signalled.
	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Start(ctx); err != nil {
			logger.Error("server stopped", "error", err)
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down", "reason", ctx.Err())
	case err := <-errCh:
		return fmt.Errorf("wifibridged up: %w", err)
	}

	// Graceful drain: wait for the in-flight connection, if any.
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		// Server exited cleanly.
	case <-time.After(cfg.Listener.ShutdownTimeout):
		logger.Warn("drain timeout exceeded, forcing exit")
	}

	logger.Info("wifibridged stopped")
	return nil
}
