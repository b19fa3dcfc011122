package hadoop

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"

	"scribe-monitor/internal/domain/repository"
	"scribe-monitor/pkg/log"
)

// DefaultBinary is the hadoop CLI looked up in PATH.
const DefaultBinary = "hadoop"

// waitDelay bounds how long List waits for the output pipes after the command
// is killed; the hadoop wrapper's JVM can keep them open.
const waitDelay = time.Second

// Lister runs `hadoop fs -ls` against glob patterns.
type Lister struct {
	binary string
}

// NewLister returns a Lister using binary, or DefaultBinary when empty.
func NewLister(binary string) *Lister {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Lister{binary: binary}
}

// List implements repository.StorageLister.
//
// `hadoop fs -ls` exits non-zero when any of several globs matches nothing,
// while still printing the matches of the others, so a non-zero exit status
// is logged and the captured stdout is returned.
func (l *Lister) List(ctx context.Context, patterns []string) ([]string, error) {
	args := append([]string{"fs", "-ls"}, patterns...)
	cmd := exec.CommandContext(ctx, l.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s fs -ls interrupted: %w", l.binary, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%s: %w", l.binary, repository.ErrListerUnavailable)
		case errors.As(err, &exitErr):
			log.Debug("hadoop listing exited non-zero", "args", args, "exit_code", exitErr.ExitCode(), "stderr", stderr.String())
		default:
			return nil, fmt.Errorf("%s fs -ls failed: %w", l.binary, err)
		}
	}

	var lines []string
	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s output: %w", l.binary, err)
	}

	log.Debug("hadoop listing executed", "args", args, "lines", len(lines))
	return lines, nil
}
