package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"scribe-monitor/internal/application/sampler"
	"scribe-monitor/internal/config"
	"scribe-monitor/internal/domain/repository"
	"scribe-monitor/internal/infra/fb303"
	"scribe-monitor/internal/infra/grpcstatus"
	"scribe-monitor/internal/infra/hadoop"
	"scribe-monitor/pkg/log"
	"scribe-monitor/pkg/metrics"
)

const metricsShutdownTimeout = 5 * time.Second

// Sink is the metrics sink shared by every sampler.
type Sink interface {
	metrics.Emitter
	Close() error
}

// Monitor runs the samplers side by side until its context is cancelled.
type Monitor struct {
	runID    string
	sink     Sink
	samplers []sampler.Sampler

	metricsListen  string
	metricsHandler http.Handler
}

// New returns a Monitor over already constructed samplers sharing sink.
func New(sink Sink, samplers ...sampler.Sampler) *Monitor {
	return &Monitor{
		runID:    uuid.NewString(),
		sink:     sink,
		samplers: samplers,
	}
}

// NewMonitor wires the sink, transports and samplers described by cfg.
func NewMonitor(cfg *config.Config) (*Monitor, error) {
	statsdBackend, err := metrics.NewStatsdBackend(cfg.StatsdAddress(), cfg.Statsd.Prefix)
	if err != nil {
		return nil, log.Errorf("failed to create statsd backend: %w", err)
	}
	backends := []metrics.Backend{statsdBackend}

	var prom *metrics.PrometheusBackend
	if cfg.PrometheusListen != "" {
		prom = metrics.NewPrometheusBackend()
		backends = append(backends, prom)
	}

	source := cfg.Source
	if source == "" {
		source = metrics.HostIdentity()
	}
	sink := metrics.NewSink(source, backends...)

	dialer, err := newStatusDialer(cfg)
	if err != nil {
		_ = sink.Close()
		return nil, err
	}

	m := New(sink,
		sampler.NewStatusSampler(dialer, sink, cfg.StatusInterval),
		sampler.NewLocalStoreSampler(cfg.FileStorePath, sink, cfg.FileStoreInterval),
		sampler.NewRemoteStoreSampler(cfg.HDFSPath, hadoop.NewLister(cfg.HadoopBin), sink, cfg.HDFSInterval),
	)
	if prom != nil {
		m.metricsListen = cfg.PrometheusListen
		m.metricsHandler = prom.Handler()
	}

	log.Debug("Monitor created", "source", sink.Source(), "statsd", cfg.StatsdAddress(), "ctrl", cfg.CtrlAddress(), "transport", string(cfg.Ctrl.Transport))
	return m, nil
}

func newStatusDialer(cfg *config.Config) (repository.StatusDialer, error) {
	switch cfg.Ctrl.Transport {
	case config.TransportThrift:
		return fb303.NewDialer(fb303.Config{
			Host:           cfg.Ctrl.Host,
			Port:           cfg.Ctrl.Port,
			ConnectTimeout: cfg.Ctrl.ConnectTimeout,
		}), nil
	case config.TransportGRPC:
		return grpcstatus.NewDialer(grpcstatus.Config{
			Address:        cfg.CtrlAddress(),
			Service:        cfg.Ctrl.HealthService,
			CountersMethod: cfg.Ctrl.CountersMethod,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported ctrl transport %q", cfg.Ctrl.Transport)
	}
}

// RunID identifies this monitor instance in logs.
func (m *Monitor) RunID() string { return m.runID }

// Samplers returns the samplers the monitor drives.
func (m *Monitor) Samplers() []sampler.Sampler { return m.samplers }

// Run starts one worker per sampler and blocks until ctx is cancelled and
// every worker has returned. The sink is closed before Run returns.
func (m *Monitor) Run(ctx context.Context) error {
	log.Info("Starting monitor", "run_id", m.runID, "samplers", len(m.samplers))

	var wg conc.WaitGroup

	if m.metricsHandler != nil {
		srv, ln, err := m.listenMetrics()
		if err != nil {
			_ = m.sink.Close()
			return err
		}
		wg.Go(func() { serveMetrics(ctx, srv, ln) })
	}

	for _, s := range m.samplers {
		wg.Go(func() { sampler.Run(ctx, s, m.runID) })
	}

	wg.Wait()

	log.Info("Monitor stopped", "run_id", m.runID)
	if err := m.sink.Close(); err != nil {
		return log.Errorf("failed to close metrics sink: %w", err)
	}
	return nil
}

func (m *Monitor) listenMetrics() (*http.Server, net.Listener, error) {
	ln, err := net.Listen("tcp", m.metricsListen)
	if err != nil {
		return nil, nil, log.Errorf("failed to listen for metrics on %s: %w", m.metricsListen, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.metricsHandler)

	return &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}, ln, nil
}

// serveMetrics serves until ctx is cancelled, then shuts the server down.
func serveMetrics(ctx context.Context, srv *http.Server, ln net.Listener) {
	errCh := make(chan error, 1)
	go func() {
		log.Info("Serving Prometheus metrics", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Prometheus metrics server failed", "error", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("Prometheus metrics server shutdown failed", "error", err)
		}
	}
}
