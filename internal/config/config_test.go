package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"

	"scribe-monitor/pkg/yaml"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("scribe-monitor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.CtrlAddress() != "localhost:1463" {
		t.Errorf("ctrl address = %q", cfg.CtrlAddress())
	}
	if cfg.StatsdAddress() != "localhost:8125" {
		t.Errorf("statsd address = %q", cfg.StatsdAddress())
	}
	if cfg.Statsd.Prefix != "scribe" {
		t.Errorf("statsd prefix = %q", cfg.Statsd.Prefix)
	}
	if cfg.Ctrl.Transport != TransportThrift {
		t.Errorf("transport = %q", cfg.Ctrl.Transport)
	}
	if cfg.HadoopBin != "hadoop" {
		t.Errorf("hadoop bin = %q", cfg.HadoopBin)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if cfg.StatusInterval != time.Second || cfg.FileStoreInterval != time.Second || cfg.HDFSInterval != 30*time.Second {
		t.Errorf("intervals = %s/%s/%s", cfg.StatusInterval, cfg.FileStoreInterval, cfg.HDFSInterval)
	}
	if cfg.FileStorePath != "" || cfg.HDFSPath != "" {
		t.Error("store samplers must be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
file_store_path: /var/scribe
hdfs_path: /scribe/logs
ctrl:
  host: collector01
  port: 1464
  transport: grpc
  counters_method: /scribe.Counters/Get
statsd:
  prefix: collectors
logger: debug
hdfs_interval: 1m
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.FileStorePath != "/var/scribe" || cfg.HDFSPath != "/scribe/logs" {
		t.Errorf("paths = %q, %q", cfg.FileStorePath, cfg.HDFSPath)
	}
	if cfg.CtrlAddress() != "collector01:1464" || cfg.Ctrl.Transport != TransportGRPC {
		t.Errorf("ctrl = %+v", cfg.Ctrl)
	}
	if cfg.Ctrl.CountersMethod != "/scribe.Counters/Get" {
		t.Errorf("counters method = %q", cfg.Ctrl.CountersMethod)
	}
	if cfg.Statsd.Prefix != "collectors" || cfg.StatsdAddress() != "localhost:8125" {
		t.Errorf("statsd = %+v", cfg.Statsd)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if cfg.HDFSInterval != time.Minute || cfg.StatusInterval != time.Second {
		t.Errorf("intervals = %s/%s", cfg.StatusInterval, cfg.HDFSInterval)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "ctrl: [unterminated\n")
		if _, err := LoadConfig(path); err == nil {
			t.Fatal("expected parse error")
		}
	})
	t.Run("empty path", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Ctrl.Port != defaultCtrlPort {
			t.Errorf("port = %d", cfg.Ctrl.Port)
		}
	})
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := NewConfig()
	cfg.Ctrl.Port = 70000
	cfg.Ctrl.Transport = "carrier-pigeon"
	cfg.Statsd.Host = ""
	cfg.HDFSInterval = -time.Second

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := len(multierr.Errors(err)); got != 4 {
		t.Fatalf("expected 4 problems, got %d: %v", got, err)
	}
	for _, want := range []string{"ctrl port", "carrier-pigeon", "statsd host", "hdfs_interval"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	path := writeConfig(t, `
ctrl:
  host: collector01
  port: 1464
statsd:
  host: statsd01
`)

	flags, err := ParseFlags(newFlagSet(), []string{
		"--config", path,
		"--ctrl-port", "1500",
		"--hdfs-path", "/scribe/logs",
		"--logger", "info",
	})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if flags.ConfigPath != path {
		t.Fatalf("config path = %q", flags.ConfigPath)
	}

	cfg, err := LoadConfig(flags.ConfigPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	flags.Apply(cfg)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"ctrl host from file", cfg.Ctrl.Host, "collector01"},
		{"ctrl port from flag", cfg.Ctrl.Port, 1500},
		{"statsd host from file", cfg.Statsd.Host, "statsd01"},
		{"statsd port default", cfg.Statsd.Port, defaultStatsdPort},
		{"hdfs path from flag", cfg.HDFSPath, "/scribe/logs"},
		{"logger from flag", cfg.LogLevel, "info"},
		{"transport default", cfg.Ctrl.Transport, TransportThrift},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestParseFlagsModes(t *testing.T) {
	flags, err := ParseFlags(newFlagSet(), []string{"--version", "--print-config"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if !flags.ShowVersion || !flags.PrintConfig || flags.ShowHelp {
		t.Errorf("flags = %+v", flags)
	}

	if _, err := ParseFlags(newFlagSet(), []string{"--ctrl-port", "nope"}); err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.HDFSPath = "/scribe/logs"

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), "hdfs_path: /scribe/logs") {
		t.Errorf("unexpected YAML:\n%s", data)
	}

	var back Config
	if err := yaml.UnmarshalYAML(data, &back); err != nil {
		t.Fatalf("UnmarshalYAML: %v", err)
	}
	if back.HDFSPath != cfg.HDFSPath || back.HDFSInterval != cfg.HDFSInterval {
		t.Errorf("round trip lost values: %+v", back)
	}
}
