package sampler

import (
	"context"
	"math"
	"time"

	"github.com/sourcegraph/conc/panics"

	"scribe-monitor/pkg/log"
)

// Metric names emitted by the samplers.
const (
	MetricStatus        = "status"
	MetricFileStoreSize = "file_store_size"
	MetricHDFSWrite     = "hdfs_write"
)

// Default poll cadences.
const (
	DefaultStatusInterval    = 1 * time.Second
	DefaultFileStoreInterval = 1 * time.Second
	DefaultHDFSInterval      = 30 * time.Second
)

// Sampler is one periodic probe owning its own delta state.
type Sampler interface {
	Name() string
	Interval() time.Duration
	// Enabled reports whether the sampler has anything to observe.
	Enabled() bool
	// Poll runs exactly one cycle. It never returns an error: failures are
	// reported as metrics or logged.
	Poll(ctx context.Context)
}

// Run polls s immediately and then once per interval until ctx is done.
// A panicking cycle is logged and the loop carries on with the next tick.
func Run(ctx context.Context, s Sampler, runID string) {
	if !s.Enabled() {
		log.Info("Sampler disabled", "sampler", s.Name())
		return
	}

	log.Info("Sampler started", "sampler", s.Name(), "interval", s.Interval().String(), "run_id", runID)

	ticker := time.NewTicker(s.Interval())
	defer ticker.Stop()

	for {
		pollOnce(ctx, s, runID)

		select {
		case <-ctx.Done():
			log.Info("Sampler stopping due to context cancellation", "sampler", s.Name())
			return
		case <-ticker.C:
		}
	}
}

func pollOnce(ctx context.Context, s Sampler, runID string) {
	start := time.Now()

	var pc panics.Catcher
	pc.Try(func() { s.Poll(ctx) })
	if r := pc.Recovered(); r != nil {
		log.Error("Sampler cycle panicked", "sampler", s.Name(), "run_id", runID, "panic", r.String())
		return
	}

	log.Debug("Sampler cycle finished", "sampler", s.Name(), "run_id", runID, "duration", time.Since(start).String())
}

// toKB converts bytes to kilobytes (1000 bytes), rounding half away from zero.
func toKB(bytes int64) int64 {
	return int64(math.Round(float64(bytes) / 1e3))
}
