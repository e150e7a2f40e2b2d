package netman

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

// --- Mock Runner ---

// mockRunner answers each invocation through a respond function and records
// every call.
type mockRunner struct {
	calls   [][]string
	respond func(call []string) (string, string, error)
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	call := append([]string{name}, args...)
	m.calls = append(m.calls, call)
	if m.respond == nil {
		return "", "", nil
	}
	return m.respond(call)
}

func (m *mockRunner) callMatching(t *testing.T, parts ...string) []string {
	t.Helper()
	for _, call := range m.calls {
		joined := strings.Join(call, " ")
		matched := true
		for _, p := range parts {
			if !strings.Contains(joined, p) {
				matched = false
				break
			}
		}
		if matched {
			return call
		}
	}
	return nil
}

// --- Mock AddrReader ---

type mockAddrReader struct {
	ip  string
	err error
}

func (m *mockAddrReader) InterfaceIPv4(string) (string, error) {
	return m.ip, m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(cfg Config, runner Runner, addrs AddrReader) *Manager {
	return NewManager(cfg, runner, addrs, testLogger())
}

// --- DeleteProfile ---

func TestDeleteProfile_DeletesByUUID(t *testing.T) {
	runner := &mockRunner{
		respond: func(call []string) (string, string, error) {
			if strings.Contains(strings.Join(call, " "), "connection show") {
				return "aaaa-1111:SomeOther\nbbbb-2222:ListenerManagedWifi", "", nil
			}
			return "", "", nil
		},
	}
	m := newTestManager(Config{}, runner, &mockAddrReader{})

	if err := m.DeleteProfile(context.Background(), "ListenerManagedWifi"); err != nil {
		t.Fatalf("DeleteProfile() = %v", err)
	}

	del := runner.callMatching(t, "connection delete")
	if del == nil {
		t.Fatal("no connection delete call issued")
	}
	if del[len(del)-1] != "bbbb-2222" {
		t.Errorf("deleted UUID = %q, want bbbb-2222", del[len(del)-1])
	}
}

func TestDeleteProfile_AbsentProfileIsNoop(t *testing.T) {
	runner := &mockRunner{
		respond: func(call []string) (string, string, error) {
			return "aaaa-1111:SomeOther", "", nil
		},
	}
	m := newTestManager(Config{}, runner, &mockAddrReader{})

	if err := m.DeleteProfile(context.Background(), "ListenerManagedWifi"); err != nil {
		t.Fatalf("DeleteProfile() = %v", err)
	}
	if del := runner.callMatching(t, "connection delete"); del != nil {
		t.Errorf("unexpected delete call: %v", del)
	}
}

func TestDeleteProfile_ListFailure(t *testing.T) {
	runner := &mockRunner{
		respond: func(call []string) (string, string, error) {
			return "", "", errors.New("nmcli not found")
		},
	}
	m := newTestManager(Config{}, runner, &mockAddrReader{})

	if err := m.DeleteProfile(context.Background(), "ListenerManagedWifi"); err == nil {
		t.Fatal("DeleteProfile() = nil, want error")
	}
}

// --- AddWifiProfile ---

func TestAddWifiProfile_BuildsNmcliArgs(t *testing.T) {
	runner := &mockRunner{}
	m := newTestManager(Config{Interface: "wlan1"}, runner, &mockAddrReader{})

	if err := m.AddWifiProfile(context.Background(), "GuestWifi", "HomeNet", "hunter2"); err != nil {
		t.Fatalf("AddWifiProfile() = %v", err)
	}

	call := runner.callMatching(t, "connection add")
	if call == nil {
		t.Fatal("no connection add call issued")
	}
	joined := strings.Join(call, " ")
	for _, want := range []string{
		"con-name GuestWifi",
		"ifname wlan1",
		"ssid HomeNet",
		"wifi-sec.key-mgmt wpa-psk",
		"wifi-sec.psk hunter2",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("nmcli call missing %q: %s", want, joined)
		}
	}
}

// --- Activate ---

func TestActivate_BadPassword(t *testing.T) {
	runner := &mockRunner{
		respond: func(call []string) (string, string, error) {
			return "", "Error: Secrets were required, but not provided.", errors.New("exit status 4")
		},
	}
	m := newTestManager(Config{}, runner, &mockAddrReader{})

	err := m.Activate(context.Background(), "ListenerManagedWifi")
	if !errors.Is(err, ErrBadPassword) {
		t.Fatalf("Activate() = %v, want ErrBadPassword", err)
	}
}

func TestActivate_OtherFailure(t *testing.T) {
	runner := &mockRunner{
		respond: func(call []string) (string, string, error) {
			return "", "Error: Connection activation failed.", errors.New("exit status 4")
		},
	}
	m := newTestManager(Config{}, runner, &mockAddrReader{})

	err := m.Activate(context.Background(), "ListenerManagedWifi")
	if err == nil {
		t.Fatal("Activate() = nil, want error")
	}
	if errors.Is(err, ErrBadPassword) {
		t.Errorf("Activate() = ErrBadPassword, want generic failure")
	}
}

func TestActivate_Success(t *testing.T) {
	runner := &mockRunner{}
	m := newTestManager(Config{}, runner, &mockAddrReader{})

	if err := m.Activate(context.Background(), "ListenerManagedWifi"); err != nil {
		t.Fatalf("Activate() = %v", err)
	}
	if call := runner.callMatching(t, "connection up ListenerManagedWifi"); call == nil {
		t.Error("no connection up call issued")
	}
}

// --- findProfileUUID ---

func TestFindProfileUUID(t *testing.T) {
	out := "uuid-1:Wired connection 1\nuuid-2:ListenerManagedWifi\n\nuuid-3:Other"

	if got := findProfileUUID(out, "ListenerManagedWifi"); got != "uuid-2" {
		t.Errorf("findProfileUUID() = %q, want uuid-2", got)
	}
	if got := findProfileUUID(out, "Missing"); got != "" {
		t.Errorf("findProfileUUID() = %q, want empty", got)
	}
	if got := findProfileUUID("", "Anything"); got != "" {
		t.Errorf("findProfileUUID(empty) = %q, want empty", got)
	}
}
