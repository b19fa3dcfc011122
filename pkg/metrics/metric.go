package metrics

import "fmt"

// Kind is the type of a metric event as understood by statsd-like backends.
type Kind int

const (
	KindTimer Kind = iota
	KindCounter
	KindGauge
)

func (k Kind) String() string {
	switch k {
	case KindTimer:
		return "timer"
	case KindCounter:
		return "counter"
	case KindGauge:
		return "gauge"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MetricEvent is a single emission handed to every backend.
// Timer values are in milliseconds, counters are increments and gauges are
// absolute values.
type MetricEvent struct {
	Name  string
	Kind  Kind
	Value int64
}

// Backend delivers metric events to a metrics system.
// Emit is best-effort: callers log the error and move on.
type Backend interface {
	Emit(ev MetricEvent) error
	Close() error
}
