package sampler

import (
	"context"
	"errors"
	"path"
	"strconv"
	"strings"
	"time"

	"scribe-monitor/internal/domain/model"
	"scribe-monitor/internal/domain/repository"
	"scribe-monitor/pkg/log"
	"scribe-monitor/pkg/metrics"
)

// Column positions in `hadoop fs -ls` output:
// permissions replication owner group size date time path
const (
	listingSizeField = 4
	listingPathField = 7
	listingMinFields = 8
)

// RemoteStoreSampler reports how much was written to a date-partitioned
// remote store since the previous cycle.
type RemoteStoreSampler struct {
	root     string
	lister   repository.StorageLister
	sink     metrics.Emitter
	interval time.Duration
	now      func() time.Time

	state model.StoreSizeState
}

// RemoteStoreOption customises a RemoteStoreSampler.
type RemoteStoreOption func(*RemoteStoreSampler)

// WithClock overrides the clock used to determine today's partition.
func WithClock(now func() time.Time) RemoteStoreOption {
	return func(s *RemoteStoreSampler) {
		s.now = now
	}
}

// NewRemoteStoreSampler returns a RemoteStoreSampler. An empty root disables it.
func NewRemoteStoreSampler(root string, lister repository.StorageLister, sink metrics.Emitter, interval time.Duration, opts ...RemoteStoreOption) *RemoteStoreSampler {
	if interval <= 0 {
		interval = DefaultHDFSInterval
	}
	s := &RemoteStoreSampler{
		root:     root,
		lister:   lister,
		sink:     sink,
		interval: interval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RemoteStoreSampler) Name() string            { return "hdfs" }
func (s *RemoteStoreSampler) Interval() time.Duration { return s.interval }
func (s *RemoteStoreSampler) Enabled() bool           { return s.root != "" && s.lister != nil }

// Poll implements Sampler.
func (s *RemoteStoreSampler) Poll(ctx context.Context) {
	if !s.Enabled() {
		return
	}

	today := s.now().Format(model.DateLayout)

	lines, err := s.lister.List(ctx, s.searchPatterns(today))
	if err != nil {
		if errors.Is(err, repository.ErrListerUnavailable) {
			log.Error("Hadoop command not found", "sampler", s.Name(), "error", err)
			s.sink.Incr(MetricHDFSWrite, 0)
			return
		}
		if ctx.Err() != nil {
			log.Debug("Remote store listing interrupted", "sampler", s.Name(), "error", err)
			return
		}
		log.Error("Failed to list remote store", "sampler", s.Name(), "error", err)
		return
	}

	totals := s.parseListing(lines, today)
	if totals.Skipped > 0 {
		log.Debug("Skipped malformed listing lines", "sampler", s.Name(), "count", totals.Skipped)
	}

	if !s.state.Bootstrapped() {
		log.Debug("Remote store baseline recorded", "date", today, "size_today", totals.SizeToday)
		s.state = model.StoreSizeState{
			LastObservedDate:             today,
			CumulativeWrittenBeforeToday: totals.SizeToday,
			TotalBytesTodaySoFar:         totals.SizeToday,
		}
		return
	}

	delta := totals.Size - s.state.CumulativeWrittenBeforeToday
	s.state = model.StoreSizeState{
		LastObservedDate:             today,
		CumulativeWrittenBeforeToday: totals.SizeToday,
		TotalBytesTodaySoFar:         totals.SizeToday,
	}

	s.sink.Incr(MetricHDFSWrite, toKB(delta))
}

// searchPatterns returns today's partition glob, plus the last observed
// day's while it differs, so files still being finalized under yesterday's
// partition after midnight are counted.
func (s *RemoteStoreSampler) searchPatterns(today string) []string {
	patterns := []string{s.searchPattern(today)}
	if s.state.Bootstrapped() && s.state.LastObservedDate != today {
		patterns = append(patterns, s.searchPattern(s.state.LastObservedDate))
	}
	return patterns
}

func (s *RemoteStoreSampler) searchPattern(date string) string {
	return path.Join(s.root, "*", "*-"+date+"*")
}

// parseListing sums file sizes of lines under the configured root. Lines that
// do not have enough columns or carry a non-numeric size are counted as
// skipped.
func (s *RemoteStoreSampler) parseListing(lines []string, today string) model.ListingTotals {
	var totals model.ListingTotals

	for _, line := range lines {
		if !strings.Contains(line, s.root) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < listingMinFields {
			log.Debug("Malformed listing line", "line", line)
			totals.Skipped++
			continue
		}

		size, err := strconv.ParseInt(fields[listingSizeField], 10, 64)
		if err != nil {
			log.Debug("Malformed listing size", "line", line, "error", err)
			totals.Skipped++
			continue
		}

		totals.Size += size
		if strings.Contains(fields[listingPathField], today) {
			totals.SizeToday += size
		}
	}

	return totals
}
