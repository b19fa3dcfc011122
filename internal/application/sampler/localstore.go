package sampler

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"scribe-monitor/pkg/log"
	"scribe-monitor/pkg/metrics"
)

// LocalStoreSampler reports the size of a local file store in kilobytes.
// The value is the full total on every cycle, not a delta.
type LocalStoreSampler struct {
	root     string
	sink     metrics.Emitter
	interval time.Duration
}

// NewLocalStoreSampler returns a LocalStoreSampler. An empty root disables it.
func NewLocalStoreSampler(root string, sink metrics.Emitter, interval time.Duration) *LocalStoreSampler {
	if interval <= 0 {
		interval = DefaultFileStoreInterval
	}
	return &LocalStoreSampler{
		root:     root,
		sink:     sink,
		interval: interval,
	}
}

func (s *LocalStoreSampler) Name() string            { return "file_store" }
func (s *LocalStoreSampler) Interval() time.Duration { return s.interval }
func (s *LocalStoreSampler) Enabled() bool           { return s.root != "" }

// Poll implements Sampler.
func (s *LocalStoreSampler) Poll(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	size, err := s.storeSizeKB(ctx)
	if err != nil {
		log.Debug("File store walk interrupted", "root", s.root, "error", err)
		return
	}
	s.sink.Incr(MetricFileStoreSize, size)
}

// storeSizeKB walks the store and sums per-file sizes, each rounded to KB.
// Entries that cannot be read are logged and skipped; only cancellation of
// ctx aborts the walk.
func (s *LocalStoreSampler) storeSizeKB(ctx context.Context) (int64, error) {
	var total int64

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			log.Warn("Invalid path in file store", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}

		// Stat follows symlinks; a dangling link is reported like any unreadable file.
		info, err := os.Stat(path)
		if err != nil {
			log.Warn("Invalid file", "path", path, "error", err)
			return nil
		}
		if info.IsDir() {
			return nil
		}
		total += toKB(info.Size())
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
