package packaging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bridgekit/wifibridge/internal/fsutil"
)

// ErrNotRoot reports an install or uninstall attempted without root privileges.
var ErrNotRoot = errors.New("packaging: root privileges required")

// ErrUnitFileNotFound reports a missing source unit file.
var ErrUnitFileNotFound = errors.New("packaging: unit file not found")

// Installer installs and uninstalls the listener as a systemd service.
// Every step is strictly ordered and the first failure aborts the whole
// procedure; completed steps are never rolled back.
type Installer struct {
	cfg     InstallConfig
	systemd SystemdController
	root    RootChecker
	logger  *slog.Logger
}

// NewInstaller creates a new Installer with defaults applied.
func NewInstaller(cfg InstallConfig, systemd SystemdController, root RootChecker, logger *slog.Logger) *Installer {
	cfg.ApplyDefaults()
	return &Installer{
		cfg:     cfg,
		systemd: systemd,
		root:    root,
		logger:  logger.With("component", "packaging"),
	}
}

// Install copies the unit file into the systemd unit directory, sets its
// permissions, reloads the daemon, and enables the service for boot. All
// preconditions are checked before anything is mutated.
func (ins *Installer) Install() error {
	// 1. Preconditions: no mutation happens before these pass.
	if !ins.root.IsRoot() {
		return fmt.Errorf("%w: run it again with sudo", ErrNotRoot)
	}
	if !ins.systemd.IsAvailable() {
		return errors.New("packaging: systemd is not available")
	}
	if _, err := os.Stat(ins.cfg.SourcePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrUnitFileNotFound, ins.cfg.SourcePath)
		}
		return fmt.Errorf("packaging: stat unit file %s: %w", ins.cfg.SourcePath, err)
	}

	// 2. Copy the unit file, unmodified, into the unit directory.
	if err := ins.copyUnitFile(); err != nil {
		return err
	}

	// 3. Set the installed file's mode. A separate step so a pre-existing
	// destination file with different permissions still ends up 0644.
	if err := os.Chmod(ins.cfg.UnitPath(), UnitFileMode); err != nil {
		return fmt.Errorf("packaging: chmod unit file: %w", err)
	}
	ins.logger.Info("unit file installed", "path", ins.cfg.UnitPath(), "perm", fmt.Sprintf("%04o", UnitFileMode))

	// 4. Write a default listener config if none exists.
	if err := ins.writeDefaultConfig(); err != nil {
		return err
	}

	// 5. Ask systemd to re-read unit definitions.
	if err := ins.systemd.DaemonReload(); err != nil {
		return fmt.Errorf("packaging: daemon-reload: %w", err)
	}
	ins.logger.Info("systemd daemon reloaded")

	// 6. Enable the unit for boot.
	if err := ins.systemd.Enable(ins.cfg.ServiceName()); err != nil {
		return fmt.Errorf("packaging: enable %s: %w", ins.cfg.ServiceName(), err)
	}
	ins.logger.Info("service enabled", "service", ins.cfg.ServiceName())

	return nil
}

// Uninstall removes the listener service. If purge is true, the config
// directory is removed as well.
func (ins *Installer) Uninstall(purge bool) error {
	if !ins.root.IsRoot() {
		return fmt.Errorf("%w: run it again with sudo", ErrNotRoot)
	}

	unitPath := ins.cfg.UnitPath()
	if _, err := os.Stat(unitPath); errors.Is(err, os.ErrNotExist) {
		ins.logger.Info("listener is not installed, nothing to do")
		return nil
	}

	// Stop and disable are best effort; the service may not be running.
	if err := ins.systemd.Stop(ins.cfg.ServiceName()); err != nil {
		ins.logger.Info("stop service", "error", err)
	}
	if err := ins.systemd.Disable(ins.cfg.ServiceName()); err != nil {
		ins.logger.Info("disable service", "error", err)
	}

	if err := os.Remove(unitPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("packaging: remove unit file: %w", err)
	}
	ins.logger.Info("unit file removed", "path", unitPath)

	if err := ins.systemd.DaemonReload(); err != nil {
		return fmt.Errorf("packaging: daemon-reload: %w", err)
	}

	if purge {
		if err := os.RemoveAll(ins.cfg.ConfigDir); err != nil {
			return fmt.Errorf("packaging: remove directory %s: %w", ins.cfg.ConfigDir, err)
		}
		ins.logger.Info("directory removed", "path", ins.cfg.ConfigDir)
	}

	return nil
}

func (ins *Installer) copyUnitFile() error {
	src, err := os.Open(ins.cfg.SourcePath)
	if err != nil {
		return fmt.Errorf("packaging: open unit file: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(ins.cfg.UnitPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, UnitFileMode)
	if err != nil {
		return fmt.Errorf("packaging: create installed unit file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("packaging: copy unit file: %w", err)
	}
	return nil
}

func (ins *Installer) writeDefaultConfig() error {
	configPath := filepath.Join(ins.cfg.ConfigDir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		ins.logger.Info("existing config preserved", "path", configPath)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("packaging: stat config: %w", err)
	}

	if err := os.MkdirAll(ins.cfg.ConfigDir, 0o755); err != nil {
		return fmt.Errorf("packaging: create config directory: %w", err)
	}

	content := GenerateDefaultConfig(ins.cfg.ListenHost)
	if err := fsutil.WriteFileAtomic(ins.cfg.ConfigDir, "config.yaml", []byte(content), 0o644); err != nil {
		return fmt.Errorf("packaging: write config: %w", err)
	}
	ins.logger.Info("default config written", "path", configPath)
	return nil
}

// Instructions returns the operator guidance printed after a successful
// install. It has no effect on system state.
func Instructions(cfg InstallConfig) string {
	cfg.ApplyDefaults()
	name := cfg.ServiceName()
	return fmt.Sprintf(`%s installed and enabled for boot.

Next steps:
  sudo systemctl start %s
  sudo systemctl status %s
  sudo journalctl -u %s -f

To push WiFi credentials, run the companion client from the control
machine (not this one):
  wifibridged set-wifi --host <listener-ip> <SSID> <password>
`, name, name, name, name)
}
