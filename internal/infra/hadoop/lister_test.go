package hadoop

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"scribe-monitor/internal/domain/repository"
)

// writeScript creates an executable shell script standing in for the hadoop CLI.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "hadoop")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestListReturnsLinesAndPassesPatterns(t *testing.T) {
	bin := writeScript(t, `echo "Found 1 items"
echo "-rw-r--r--   3 scribe supergroup       1000 2026-10-17 10:00 /logs/web/web-2026-10-17_00000"
echo "args: $*"
`)

	lines, err := NewLister(bin).List(context.Background(), []string{"/logs/*/*-2026-10-17*"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	if lines[2] != "args: fs -ls /logs/*/*-2026-10-17*" {
		t.Errorf("unexpected arguments line %q", lines[2])
	}
}

func TestListToleratesNonZeroExit(t *testing.T) {
	bin := writeScript(t, `echo "-rw-r--r--   3 scribe supergroup 42 2026-10-17 10:00 /logs/a/a-2026-10-17_00000"
echo "ls: No such file or directory" >&2
exit 1
`)

	lines, err := NewLister(bin).List(context.Background(), []string{"x", "y"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(lines) != 1 || !strings.Contains(lines[0], " 42 ") {
		t.Errorf("unexpected lines %q", lines)
	}
}

func TestListMissingBinary(t *testing.T) {
	_, err := NewLister("scribe-monitor-no-such-hadoop").List(context.Background(), []string{"p"})
	if !errors.Is(err, repository.ErrListerUnavailable) {
		t.Fatalf("expected ErrListerUnavailable, got %v", err)
	}
}

func TestNewListerDefaultBinary(t *testing.T) {
	if got := NewLister("").binary; got != DefaultBinary {
		t.Errorf("binary = %q, want %q", got, DefaultBinary)
	}
}

func TestListMissingBinaryPath(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "absent", "hadoop")
	_, err := NewLister(bin).List(context.Background(), []string{"p"})
	if !errors.Is(err, repository.ErrListerUnavailable) {
		t.Fatalf("expected ErrListerUnavailable, got %v", err)
	}
}

func TestListCancelledReturnsError(t *testing.T) {
	bin := writeScript(t, `echo "-rw-r--r--   3 scribe supergroup 100 2026-10-17 10:00 /logs/a/a-2026-10-17_00000"
sleep 5
echo "-rw-r--r--   3 scribe supergroup 200 2026-10-17 10:00 /logs/a/a-2026-10-17_00001"
`)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	lines, err := NewLister(bin).List(ctx, []string{"p"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got lines=%q err=%v", lines, err)
	}
	if lines != nil {
		t.Errorf("expected no lines from an interrupted listing, got %q", lines)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("List blocked for %s after cancellation", elapsed)
	}
}
