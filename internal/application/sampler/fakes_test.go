package sampler

import (
	"context"
	"errors"
	"sync"
	"time"

	"scribe-monitor/internal/domain/model"
	"scribe-monitor/internal/domain/repository"
	"scribe-monitor/pkg/metrics"
)

type recorded struct {
	kind  metrics.Kind
	name  string
	value int64
}

// recorder captures emitted metrics in order.
type recorder struct {
	mu     sync.Mutex
	events []recorded
}

func (r *recorder) Timer(name string, d time.Duration) {
	r.add(metrics.KindTimer, name, d.Milliseconds())
}

func (r *recorder) Incr(name string, value int64) {
	r.add(metrics.KindCounter, name, value)
}

func (r *recorder) Gauge(name string, value int64) {
	r.add(metrics.KindGauge, name, value)
}

func (r *recorder) add(kind metrics.Kind, name string, value int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recorded{kind: kind, name: name, value: value})
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.events...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

var errConnRefused = errors.New("connection refused")

type fakeConn struct {
	status      model.RemoteStatus
	statusErr   error
	counters    map[string]int64
	countersErr error
	closed      bool
}

func (c *fakeConn) GetStatus(context.Context) (model.RemoteStatus, error) {
	return c.status, c.statusErr
}

func (c *fakeConn) GetCounters(context.Context) (map[string]int64, error) {
	return c.counters, c.countersErr
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

// fakeDialer hands out conn, or fails with err.
type fakeDialer struct {
	conn  *fakeConn
	err   error
	dials int
}

func (d *fakeDialer) Dial(context.Context) (repository.StatusConn, error) {
	d.dials++
	if d.err != nil {
		return nil, d.err
	}
	return d.conn, nil
}

// fakeLister replays canned listing output and records the patterns asked for.
type fakeLister struct {
	lines    []string
	err      error
	patterns [][]string
}

func (l *fakeLister) List(_ context.Context, patterns []string) ([]string, error) {
	l.patterns = append(l.patterns, append([]string(nil), patterns...))
	return l.lines, l.err
}
