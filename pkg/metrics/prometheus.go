package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const promNamespace = "scribe_monitor"

// PrometheusBackend mirrors statsd-style events into a scrapeable registry.
// The statsd metric name becomes the `metric` label. Increments accumulate in
// a gauge because deltas can be negative.
type PrometheusBackend struct {
	registry   *prometheus.Registry
	gauges     *prometheus.GaugeVec
	increments *prometheus.GaugeVec
	timers     *prometheus.HistogramVec
}

// NewPrometheusBackend returns a backend with its own registry.
func NewPrometheusBackend() *PrometheusBackend {
	b := &PrometheusBackend{
		registry: prometheus.NewRegistry(),
		gauges: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: promNamespace,
			Name:      "gauge",
			Help:      "Last value reported for a gauge metric.",
		}, []string{"metric"}),
		increments: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: promNamespace,
			Name:      "increment",
			Help:      "Running sum of increments reported for a counter metric.",
		}, []string{"metric"}),
		timers: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: promNamespace,
			Name:      "timer_seconds",
			Help:      "Durations reported for a timer metric.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"metric"}),
	}
	b.registry.MustRegister(b.gauges, b.increments, b.timers)
	return b
}

// Handler serves the registry in the Prometheus exposition format.
func (b *PrometheusBackend) Handler() http.Handler {
	return promhttp.HandlerFor(b.registry, promhttp.HandlerOpts{})
}

// Emit implements Backend.
func (b *PrometheusBackend) Emit(ev MetricEvent) error {
	switch ev.Kind {
	case KindTimer:
		b.timers.WithLabelValues(ev.Name).Observe(float64(ev.Value) / 1000)
	case KindCounter:
		b.increments.WithLabelValues(ev.Name).Add(float64(ev.Value))
	case KindGauge:
		b.gauges.WithLabelValues(ev.Name).Set(float64(ev.Value))
	default:
		return fmt.Errorf("prometheus: unsupported metric kind %s", ev.Kind)
	}
	return nil
}

// Close implements Backend. The registry holds no external resources.
func (b *PrometheusBackend) Close() error { return nil }
