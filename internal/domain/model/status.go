package model

// RemoteStatus is the raw fb303 fb_status value reported by the collector.
type RemoteStatus int32

const (
	RemoteStatusDead     RemoteStatus = 0
	RemoteStatusStarting RemoteStatus = 1
	RemoteStatusAlive    RemoteStatus = 2
	RemoteStatusStopping RemoteStatus = 3
	RemoteStatusStopped  RemoteStatus = 4
	RemoteStatusWarning  RemoteStatus = 5
)

func (s RemoteStatus) String() string {
	switch s {
	case RemoteStatusDead:
		return "DEAD"
	case RemoteStatusStarting:
		return "STARTING"
	case RemoteStatusAlive:
		return "ALIVE"
	case RemoteStatusStopping:
		return "STOPPING"
	case RemoteStatusStopped:
		return "STOPPED"
	case RemoteStatusWarning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// HealthStatus is the bounded status code published as the `status` gauge.
type HealthStatus int64

const (
	HealthOK      HealthStatus = 0
	HealthWarning HealthStatus = 1
	HealthError   HealthStatus = 2
)

func (h HealthStatus) String() string {
	switch h {
	case HealthOK:
		return "OK"
	case HealthWarning:
		return "WARNING"
	default:
		return "ERROR"
	}
}

// HealthFromRemote maps the collector status onto a health code.
// Only ALIVE and WARNING are recognised; every other value is an error.
func HealthFromRemote(s RemoteStatus) HealthStatus {
	switch s {
	case RemoteStatusAlive:
		return HealthOK
	case RemoteStatusWarning:
		return HealthWarning
	default:
		return HealthError
	}
}
