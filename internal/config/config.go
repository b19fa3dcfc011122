package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"

	"scribe-monitor/pkg/yaml"
)

// Transport selects how the collector status endpoint is reached.
type Transport string

const (
	TransportThrift Transport = "thrift"
	TransportGRPC   Transport = "grpc"
)

const (
	defaultCtrlHost      = "localhost"
	defaultCtrlPort      = 1463
	defaultCtrlTransport = TransportThrift
	defaultHadoopBin     = "hadoop"
	defaultStatsdHost    = "localhost"
	defaultStatsdPort    = 8125
	defaultStatsdPrefix  = "scribe"
	defaultLogLevel      = "error"

	defaultStatusInterval    = 1 * time.Second
	defaultFileStoreInterval = 1 * time.Second
	defaultHDFSInterval      = 30 * time.Second
)

// CtrlConfig describes the collector's status endpoint.
type CtrlConfig struct {
	Host      string    `yaml:"host"`
	Port      int       `yaml:"port"`
	Transport Transport `yaml:"transport"`
	// ConnectTimeout bounds the TCP connect of the thrift transport. Zero means no timeout.
	ConnectTimeout time.Duration `yaml:"connect_timeout,omitempty"`
	// HealthService is the service name sent in gRPC health checks.
	HealthService string `yaml:"health_service,omitempty"`
	// CountersMethod is the full gRPC method returning counters. Empty disables counters over gRPC.
	CountersMethod string `yaml:"counters_method,omitempty"`
}

// StatsdConfig describes the statsd daemon metrics are sent to.
type StatsdConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Prefix string `yaml:"prefix"`
}

// Config holds the monitor configuration.
type Config struct {
	// FileStorePath is the local store root. Empty disables the file store sampler.
	FileStorePath string `yaml:"file_store_path"`
	// HDFSPath is the remote store root. Empty disables the hdfs sampler.
	HDFSPath  string `yaml:"hdfs_path"`
	HadoopBin string `yaml:"hadoop_bin"`

	Ctrl   CtrlConfig   `yaml:"ctrl"`
	Statsd StatsdConfig `yaml:"statsd"`
	// PrometheusListen enables the /metrics endpoint when set, e.g. ":9125".
	PrometheusListen string `yaml:"prometheus_listen,omitempty"`
	// Source overrides the host identity used as metric prefix.
	Source string `yaml:"source,omitempty"`

	LogLevel string `yaml:"logger"`

	StatusInterval    time.Duration `yaml:"status_interval"`
	FileStoreInterval time.Duration `yaml:"file_store_interval"`
	HDFSInterval      time.Duration `yaml:"hdfs_interval"`
}

// NewConfig returns a configuration with every default applied.
func NewConfig() *Config {
	cfg := &Config{}
	prepareConfig(cfg)
	return cfg
}

// prepareConfig fills unset fields with their defaults.
func prepareConfig(cfg *Config) {
	if cfg.Ctrl.Host == "" {
		cfg.Ctrl.Host = defaultCtrlHost
	}
	if cfg.Ctrl.Port == 0 {
		cfg.Ctrl.Port = defaultCtrlPort
	}
	if cfg.Ctrl.Transport == "" {
		cfg.Ctrl.Transport = defaultCtrlTransport
	}
	if cfg.HadoopBin == "" {
		cfg.HadoopBin = defaultHadoopBin
	}
	if cfg.Statsd.Host == "" {
		cfg.Statsd.Host = defaultStatsdHost
	}
	if cfg.Statsd.Port == 0 {
		cfg.Statsd.Port = defaultStatsdPort
	}
	if cfg.Statsd.Prefix == "" {
		cfg.Statsd.Prefix = defaultStatsdPrefix
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.StatusInterval == 0 {
		cfg.StatusInterval = defaultStatusInterval
	}
	if cfg.FileStoreInterval == 0 {
		cfg.FileStoreInterval = defaultFileStoreInterval
	}
	if cfg.HDFSInterval == 0 {
		cfg.HDFSInterval = defaultHDFSInterval
	}
}

// LoadConfig reads the YAML file at configPath on top of the defaults.
// An empty path yields the defaults alone.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.UnmarshalYAML(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	prepareConfig(cfg)
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error

	if c.Ctrl.Host == "" {
		err = multierr.Append(err, fmt.Errorf("ctrl host must not be empty"))
	}
	if !validPort(c.Ctrl.Port) {
		err = multierr.Append(err, fmt.Errorf("ctrl port %d out of range", c.Ctrl.Port))
	}
	switch c.Ctrl.Transport {
	case TransportThrift, TransportGRPC:
	default:
		err = multierr.Append(err, fmt.Errorf("unknown ctrl transport %q (want %q or %q)", c.Ctrl.Transport, TransportThrift, TransportGRPC))
	}
	if c.Ctrl.ConnectTimeout < 0 {
		err = multierr.Append(err, fmt.Errorf("ctrl connect timeout must not be negative"))
	}
	if c.Statsd.Host == "" {
		err = multierr.Append(err, fmt.Errorf("statsd host must not be empty"))
	}
	if !validPort(c.Statsd.Port) {
		err = multierr.Append(err, fmt.Errorf("statsd port %d out of range", c.Statsd.Port))
	}

	for name, d := range map[string]time.Duration{
		"status_interval":     c.StatusInterval,
		"file_store_interval": c.FileStoreInterval,
		"hdfs_interval":       c.HDFSInterval,
	} {
		if d <= 0 {
			err = multierr.Append(err, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}

	return err
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.MarshalYAML(c)
}

// CtrlAddress returns host:port of the status endpoint.
func (c *Config) CtrlAddress() string {
	return fmt.Sprintf("%s:%d", c.Ctrl.Host, c.Ctrl.Port)
}

// StatsdAddress returns host:port of the statsd daemon.
func (c *Config) StatsdAddress() string {
	return fmt.Sprintf("%s:%d", c.Statsd.Host, c.Statsd.Port)
}

func validPort(p int) bool {
	return p > 0 && p <= 65535
}
