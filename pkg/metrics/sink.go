package metrics

import (
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"

	"scribe-monitor/pkg/log"
)

// Emitter is the contract samplers depend on.
type Emitter interface {
	Timer(name string, d time.Duration)
	Incr(name string, value int64)
	Gauge(name string, value int64)
}

// Sink scopes every metric under the reporting host and fans it out to the
// configured backends. Delivery is fire-and-forget.
type Sink struct {
	source   string
	backends []Backend
}

// NewSink returns a sink that prefixes metric names with source.
func NewSink(source string, backends ...Backend) *Sink {
	return &Sink{
		source:   source,
		backends: backends,
	}
}

// HostIdentity returns the local hostname with dots stripped, so that a
// fully qualified name does not add levels to the metric hierarchy.
func HostIdentity() string {
	host, err := os.Hostname()
	if err != nil {
		log.Warn("Failed to resolve hostname", "error", err)
		host = "unknown"
	}
	return strings.ReplaceAll(host, ".", "")
}

// Source returns the host identity used as metric prefix.
func (s *Sink) Source() string { return s.source }

// Timer reports a duration, sent to backends in milliseconds.
func (s *Sink) Timer(name string, d time.Duration) {
	s.emit(KindTimer, name, d.Milliseconds())
}

// Incr reports a counter increment. Negative values are forwarded as is.
func (s *Sink) Incr(name string, value int64) {
	s.emit(KindCounter, name, value)
}

// Gauge reports an absolute value.
func (s *Sink) Gauge(name string, value int64) {
	s.emit(KindGauge, name, value)
}

func (s *Sink) emit(kind Kind, name string, value int64) {
	log.Info("metric", "name", name, "kind", kind.String(), "value", value)

	ev := MetricEvent{
		Name:  s.source + "." + name,
		Kind:  kind,
		Value: value,
	}
	for _, b := range s.backends {
		if err := b.Emit(ev); err != nil {
			log.Debug("Metric delivery failed", "name", ev.Name, "error", err)
		}
	}
}

// Close releases every backend and returns the combined error.
func (s *Sink) Close() error {
	var err error
	for _, b := range s.backends {
		err = multierr.Append(err, b.Close())
	}
	return err
}
