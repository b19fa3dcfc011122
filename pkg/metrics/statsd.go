package metrics

import (
	"fmt"

	"github.com/cactus/go-statsd-client/v5/statsd"
)

// StatsdBackend sends events to a statsd daemon over UDP.
type StatsdBackend struct {
	client statsd.Statter
}

// NewStatsdBackend creates an unbuffered statsd client. Every event is one
// datagram, so nothing is lost if the process is killed between polls.
func NewStatsdBackend(address, prefix string) (*StatsdBackend, error) {
	client, err := statsd.NewClientWithConfig(&statsd.ClientConfig{
		Address: address,
		Prefix:  prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create statsd client for %s: %w", address, err)
	}
	return &StatsdBackend{client: client}, nil
}

// Emit implements Backend.
func (b *StatsdBackend) Emit(ev MetricEvent) error {
	switch ev.Kind {
	case KindTimer:
		return b.client.Timing(ev.Name, ev.Value, 1.0)
	case KindCounter:
		return b.client.Inc(ev.Name, ev.Value, 1.0)
	case KindGauge:
		return b.client.Gauge(ev.Name, ev.Value, 1.0)
	default:
		return fmt.Errorf("statsd: unsupported metric kind %s", ev.Kind)
	}
}

// Close implements Backend.
func (b *StatsdBackend) Close() error {
	return b.client.Close()
}
