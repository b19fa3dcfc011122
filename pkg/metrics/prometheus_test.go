package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusBackendMirrorsEvents(t *testing.T) {
	backend := NewPrometheusBackend()
	sink := NewSink("h", backend)

	sink.Gauge("status", 1)
	sink.Gauge("status", 2)
	sink.Incr("hdfs_write", 5)
	sink.Incr("hdfs_write", -2)
	sink.Timer("poll", 250*time.Millisecond)

	if got := testutil.ToFloat64(backend.gauges.WithLabelValues("h.status")); got != 2 {
		t.Errorf("status gauge = %v, want 2", got)
	}
	if got := testutil.ToFloat64(backend.increments.WithLabelValues("h.hdfs_write")); got != 3 {
		t.Errorf("hdfs_write increments = %v, want 3", got)
	}
	if got := testutil.CollectAndCount(backend.timers); got != 1 {
		t.Errorf("timer series = %d, want 1", got)
	}
}

func TestPrometheusBackendHandler(t *testing.T) {
	backend := NewPrometheusBackend()
	if err := backend.Emit(MetricEvent{Name: "h.status", Kind: KindGauge, Value: 2}); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	srv := httptest.NewServer(backend.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	if !strings.Contains(string(body), `scribe_monitor_gauge{metric="h.status"} 2`) {
		t.Errorf("exposition missing status gauge:\n%s", body)
	}
}
