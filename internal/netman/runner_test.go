//go:build linux || darwin

package netman

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestExecRunner_CapturesStdout(t *testing.T) {
	r := NewRunner(5 * time.Second)

	stdout, stderr, err := r.Run(context.Background(), "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if stdout != "hello" {
		t.Errorf("stdout = %q, want hello", stdout)
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want empty", stderr)
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	r := NewRunner(5 * time.Second)

	_, stderr, err := r.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	if err == nil {
		t.Fatal("Run() = nil, want error")
	}
	if !strings.Contains(err.Error(), "exit status 3") {
		t.Errorf("err = %q, want exit status 3", err)
	}
	if stderr != "boom" {
		t.Errorf("stderr = %q, want boom", stderr)
	}
}

func TestExecRunner_Timeout(t *testing.T) {
	r := NewRunner(50 * time.Millisecond)

	start := time.Now()
	_, _, err := r.Run(context.Background(), "sh", "-c", "sleep 5")
	if err == nil {
		t.Fatal("Run() = nil, want timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err = %q, want timed out", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Run() took %s, command was not killed promptly", elapsed)
	}
}

func TestLimitedWriter_CapsOutput(t *testing.T) {
	w := newLimitedWriter(4)

	n, err := w.Write([]byte("abcdefgh"))
	if err != nil {
		t.Fatalf("Write() = %v", err)
	}
	if n != 8 {
		t.Errorf("n = %d, want 8 (all bytes reported as written)", n)
	}
	if w.String() != "abcd" {
		t.Errorf("buffer = %q, want abcd", w.String())
	}
}
