package grpcstatus

import (
	"context"
	"fmt"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"scribe-monitor/internal/domain/model"
	"scribe-monitor/internal/domain/repository"
)

// Config describes a collector reachable over gRPC.
type Config struct {
	Address string
	// Service is the name passed to grpc.health.v1.Health/Check. Empty means
	// overall server health.
	Service string
	// CountersMethod is the full unary method returning a google.protobuf.Struct
	// of counters, e.g. "/fb303.FacebookService/GetCounters". Empty disables
	// counters.
	CountersMethod string
	// DialOptions are appended after the default insecure credentials.
	DialOptions []grpc.DialOption
}

// Dialer creates one gRPC client connection per poll cycle.
type Dialer struct {
	cfg Config
}

// NewDialer returns a Dialer for the given endpoint.
func NewDialer(cfg Config) *Dialer {
	return &Dialer{cfg: cfg}
}

// Dial implements repository.StatusDialer. grpc.NewClient connects lazily, so
// an unreachable server surfaces on the first call.
func (d *Dialer) Dial(ctx context.Context) (repository.StatusConn, error) {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, d.cfg.DialOptions...)

	conn, err := grpc.NewClient(d.cfg.Address, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client for %s: %w", d.cfg.Address, err)
	}

	return &Conn{
		conn:           conn,
		health:         healthpb.NewHealthClient(conn),
		service:        d.cfg.Service,
		countersMethod: d.cfg.CountersMethod,
	}, nil
}

// Conn is one gRPC status session.
type Conn struct {
	conn           *grpc.ClientConn
	health         healthpb.HealthClient
	service        string
	countersMethod string
}

// GetStatus implements repository.StatusConn.
func (c *Conn) GetStatus(ctx context.Context) (model.RemoteStatus, error) {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: c.service})
	if err != nil {
		return model.RemoteStatusDead, fmt.Errorf("health check failed: %w", err)
	}
	return statusFromHealth(resp.GetStatus()), nil
}

// GetCounters implements repository.StatusConn. Numeric struct fields become
// counters; other value kinds are ignored.
func (c *Conn) GetCounters(ctx context.Context) (map[string]int64, error) {
	counters := make(map[string]int64)
	if c.countersMethod == "" {
		return counters, nil
	}

	out := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, c.countersMethod, &emptypb.Empty{}, out); err != nil {
		return nil, fmt.Errorf("%s failed: %w", c.countersMethod, err)
	}

	for k, v := range out.GetFields() {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			continue
		}
		counters[k] = int64(math.Round(n.NumberValue))
	}
	return counters, nil
}

// Close implements repository.StatusConn.
func (c *Conn) Close() error {
	return c.conn.Close()
}

func statusFromHealth(s healthpb.HealthCheckResponse_ServingStatus) model.RemoteStatus {
	switch s {
	case healthpb.HealthCheckResponse_SERVING:
		return model.RemoteStatusAlive
	case healthpb.HealthCheckResponse_NOT_SERVING:
		return model.RemoteStatusStopped
	case healthpb.HealthCheckResponse_UNKNOWN:
		return model.RemoteStatusStarting
	default:
		return model.RemoteStatusDead
	}
}
