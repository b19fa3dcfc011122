package sampler

import (
	"context"
	"maps"
	"slices"
	"time"

	"scribe-monitor/internal/domain/model"
	"scribe-monitor/internal/domain/repository"
	"scribe-monitor/pkg/log"
	"scribe-monitor/pkg/metrics"
)

// StatusSampler reports the collector health and the per-cycle increase of
// each of its fb303 counters.
type StatusSampler struct {
	dialer   repository.StatusDialer
	sink     metrics.Emitter
	interval time.Duration

	// counters is nil until the first successful counters read.
	counters model.CounterSnapshot
}

// NewStatusSampler returns a StatusSampler. A non-positive interval falls
// back to DefaultStatusInterval.
func NewStatusSampler(dialer repository.StatusDialer, sink metrics.Emitter, interval time.Duration) *StatusSampler {
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	return &StatusSampler{
		dialer:   dialer,
		sink:     sink,
		interval: interval,
	}
}

func (s *StatusSampler) Name() string            { return "status" }
func (s *StatusSampler) Interval() time.Duration { return s.interval }
func (s *StatusSampler) Enabled() bool           { return s.dialer != nil }

// Poll implements Sampler.
func (s *StatusSampler) Poll(ctx context.Context) {
	conn, err := s.dialer.Dial(ctx)
	if err != nil {
		s.reportFailure("Failed to open status connection", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Debug("Failed to close status connection", "error", err)
		}
	}()

	status, err := conn.GetStatus(ctx)
	if err != nil {
		s.reportFailure("Failed to query collector status", err)
		return
	}
	health := model.HealthFromRemote(status)
	log.Debug("Collector status", "remote", status.String(), "health", health.String())
	s.sink.Gauge(MetricStatus, int64(health))

	raw, err := conn.GetCounters(ctx)
	if err != nil {
		s.reportFailure("Failed to query collector counters", err)
		return
	}
	s.updateCounters(model.NewCounterSnapshot(raw))
}

func (s *StatusSampler) reportFailure(msg string, err error) {
	log.Error(msg, "sampler", s.Name(), "error", err)
	s.sink.Gauge(MetricStatus, int64(model.HealthError))
}

// updateCounters emits deltas against the held snapshot and then replaces it.
// The first snapshot only establishes the baseline.
func (s *StatusSampler) updateCounters(next model.CounterSnapshot) {
	if s.counters == nil {
		log.Debug("Counter baseline recorded", "counters", len(next))
		s.counters = next
		return
	}

	deltas := s.counters.Deltas(next)
	for _, name := range slices.Sorted(maps.Keys(deltas)) {
		s.sink.Incr(name, deltas[name])
	}
	s.counters = next
}
