package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/bridgekit/wifibridge/internal/netman"
	"github.com/bridgekit/wifibridge/internal/protocol"
)

// Configurator abstracts the NetworkManager operations a connection handler
// needs, for testability.
type Configurator interface {
	DeleteProfile(ctx context.Context, profile string) error
	AddWifiProfile(ctx context.Context, profile, ssid, password string) error
	Activate(ctx context.Context, profile string) error
	WaitForConnection(ctx context.Context, profile, ssid string) (string, error)
}

// Handler processes one client connection: read the request packet, apply it
// through NetworkManager, and write back exactly one response.
type Handler struct {
	nm          Configurator
	logger      *slog.Logger
	readLimit   int
	readTimeout time.Duration
	settleDelay time.Duration

	mu             sync.RWMutex
	defaultProfile string
}

// NewHandler creates a Handler. The default profile is used for SET_WIFI
// requests that carry no profile of their own.
func NewHandler(cfg Config, nm Configurator, defaultProfile string, logger *slog.Logger) *Handler {
	cfg.ApplyDefaults()
	if defaultProfile == "" {
		defaultProfile = netman.DefaultProfile
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		nm:             nm,
		logger:         logger.With("component", "listener"),
		readLimit:      cfg.ReadLimit,
		readTimeout:    cfg.ReadTimeout,
		settleDelay:    cfg.SettleDelay,
		defaultProfile: defaultProfile,
	}
}

// SetDefaultProfile replaces the default profile name. Safe to call while
// connections are being handled; in-flight requests keep the name they
// resolved at parse time.
func (h *Handler) SetDefaultProfile(profile string) {
	if profile == "" {
		return
	}
	h.mu.Lock()
	h.defaultProfile = profile
	h.mu.Unlock()
}

// DefaultProfile returns the current default profile name.
func (h *Handler) DefaultProfile() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.defaultProfile
}

// Handle serves a single accepted connection. It always attempts to send a
// response before the connection is closed by the caller.
func (h *Handler) Handle(ctx context.Context, conn net.Conn) {
	remote := conn.RemoteAddr().String()
	h.logger.Info("connection accepted", "remote", remote)

	if err := conn.SetReadDeadline(time.Now().Add(h.readTimeout)); err != nil {
		h.logger.Warn("set read deadline", "remote", remote, "error", err)
	}

	buf := make([]byte, h.readLimit)
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		h.logger.Warn("read request", "remote", remote, "error", err)
		return
	}
	data := strings.TrimSpace(string(buf[:n]))

	response := h.process(ctx, remote, data)

	if _, err := conn.Write([]byte(response)); err != nil {
		h.logger.Warn("write response", "remote", remote, "error", err)
	}
}

// process parses and applies one request, returning the wire response. A
// panic anywhere in the apply path is converted into the generic server
// error response so the client is never left without an answer.
func (h *Handler) process(ctx context.Context, remote, data string) (response string) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic processing request", "remote", remote, "panic", fmt.Sprintf("%v", r))
			response = protocol.RespServerError
		}
	}()

	cmd, err := protocol.ParseCommand(data)
	if err != nil {
		h.logger.Warn("invalid request packet", "remote", remote)
		return protocol.RespInvalidPacket
	}

	profile := cmd.Profile
	if profile == "" {
		profile = h.DefaultProfile()
	}

	h.logger.Info("applying wifi configuration",
		"remote", remote,
		"request", cmd.Redacted(),
		"profile", profile,
	)

	return h.apply(ctx, cmd, profile)
}

// apply runs the provisioning sequence and maps each failure to its wire
// response. Ordering mirrors the profile lifecycle: delete, add, activate,
// wait.
func (h *Handler) apply(ctx context.Context, cmd protocol.Command, profile string) string {
	// Best effort, a missing profile is the common case.
	if err := h.nm.DeleteProfile(ctx, profile); err != nil {
		h.logger.Warn("delete profile", "profile", profile, "error", err)
	}
	h.settle(ctx)

	if err := h.nm.AddWifiProfile(ctx, profile, cmd.SSID, cmd.Password); err != nil {
		h.logger.Error("add profile", "profile", profile, "error", err)
		return protocol.RespAddProfileFailed
	}
	h.settle(ctx)

	if err := h.nm.Activate(ctx, profile); err != nil {
		if errors.Is(err, netman.ErrBadPassword) {
			h.logger.Error("activation rejected, likely bad password", "profile", profile)
			return protocol.RespBadPassword
		}
		h.logger.Error("activate profile", "profile", profile, "error", err)
		return protocol.RespActivateFailed
	}

	ip, err := h.nm.WaitForConnection(ctx, profile, cmd.SSID)
	if err != nil {
		h.logger.Error("connection did not come up", "profile", profile, "ssid", cmd.SSID, "error", err)
		return protocol.RespConnectTimeout
	}

	h.logger.Info("wifi connection successful", "profile", profile, "ssid", cmd.SSID, "ipv4", ip)
	return protocol.RespSuccess
}

func (h *Handler) settle(ctx context.Context) {
	if h.settleDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(h.settleDelay):
	}
}
