package packaging

import "fmt"

// GenerateDefaultConfig produces a minimal default config.yaml for the
// listener. If listenHost is empty, a placeholder comment is written instead.
func GenerateDefaultConfig(listenHost string) string {
	hostLine := "  # host: 10.10.0.1"
	if listenHost != "" {
		hostLine = fmt.Sprintf("  host: %s", listenHost)
	}

	return fmt.Sprintf(`# wifi-bridge-listener configuration
# See documentation for all available options.

log_level: info
listener:
%s
  port: 12345
netman:
  interface: wlan0
  profile: ListenerManagedWifi
`, hostLine)
}
