package repository

import (
	"context"

	"scribe-monitor/internal/domain/model"
)

// StatusDialer opens a fresh connection to the collector's status endpoint.
type StatusDialer interface {
	Dial(ctx context.Context) (StatusConn, error)
}

// StatusConn is one open status session. Callers must Close it.
type StatusConn interface {
	GetStatus(ctx context.Context) (model.RemoteStatus, error)

	// GetCounters returns raw (not normalized) counter names.
	GetCounters(ctx context.Context) (map[string]int64, error)

	Close() error
}
