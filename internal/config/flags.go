package config

import (
	"flag"
	"time"
)

// Flags is the parsed command line. Option flags only override the file
// configuration when given explicitly.
type Flags struct {
	ConfigPath  string
	ShowVersion bool
	ShowHelp    bool
	PrintConfig bool

	values Config
	set    map[string]bool
}

// ParseFlags registers the monitor options on fs and parses args.
func ParseFlags(fs *flag.FlagSet, args []string) (*Flags, error) {
	f := &Flags{set: make(map[string]bool)}
	defaults := NewConfig()

	fs.StringVar(&f.ConfigPath, "config", "", "Path to a YAML configuration file")
	fs.BoolVar(&f.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&f.ShowHelp, "help", false, "Show help information")
	fs.BoolVar(&f.PrintConfig, "print-config", false, "Print the effective configuration and exit")

	fs.StringVar(&f.values.FileStorePath, "file-store-path", "", "Local file store root (empty disables)")
	fs.StringVar(&f.values.Ctrl.Host, "ctrl-host", defaults.Ctrl.Host, "Collector status host")
	fs.IntVar(&f.values.Ctrl.Port, "ctrl-port", defaults.Ctrl.Port, "Collector status port")
	fs.StringVar((*string)(&f.values.Ctrl.Transport), "ctrl-transport", string(defaults.Ctrl.Transport), "Status transport: thrift or grpc")
	fs.DurationVar(&f.values.Ctrl.ConnectTimeout, "ctrl-connect-timeout", 0, "Status connect timeout (0 means none)")
	fs.StringVar(&f.values.HDFSPath, "hdfs-path", "", "HDFS store root (empty disables)")
	fs.StringVar(&f.values.HadoopBin, "hadoop-bin", defaults.HadoopBin, "Hadoop command used to list HDFS")
	fs.StringVar(&f.values.Statsd.Host, "statsd-host", defaults.Statsd.Host, "Statsd host")
	fs.IntVar(&f.values.Statsd.Port, "statsd-port", defaults.Statsd.Port, "Statsd port")
	fs.StringVar(&f.values.Statsd.Prefix, "statsd-prefix", defaults.Statsd.Prefix, "Statsd metric prefix")
	fs.StringVar(&f.values.PrometheusListen, "prometheus-listen", "", "Address to serve Prometheus metrics on (empty disables)")
	fs.StringVar(&f.values.LogLevel, "logger", defaults.LogLevel, "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})
	return f, nil
}

// Apply copies explicitly given option flags onto cfg.
func (f *Flags) Apply(cfg *Config) {
	setString := func(name string, dst *string, v string) {
		if f.set[name] {
			*dst = v
		}
	}
	setInt := func(name string, dst *int, v int) {
		if f.set[name] {
			*dst = v
		}
	}
	setDuration := func(name string, dst *time.Duration, v time.Duration) {
		if f.set[name] {
			*dst = v
		}
	}

	setString("file-store-path", &cfg.FileStorePath, f.values.FileStorePath)
	setString("ctrl-host", &cfg.Ctrl.Host, f.values.Ctrl.Host)
	setInt("ctrl-port", &cfg.Ctrl.Port, f.values.Ctrl.Port)
	setString("ctrl-transport", (*string)(&cfg.Ctrl.Transport), string(f.values.Ctrl.Transport))
	setDuration("ctrl-connect-timeout", &cfg.Ctrl.ConnectTimeout, f.values.Ctrl.ConnectTimeout)
	setString("hdfs-path", &cfg.HDFSPath, f.values.HDFSPath)
	setString("hadoop-bin", &cfg.HadoopBin, f.values.HadoopBin)
	setString("statsd-host", &cfg.Statsd.Host, f.values.Statsd.Host)
	setInt("statsd-port", &cfg.Statsd.Port, f.values.Statsd.Port)
	setString("statsd-prefix", &cfg.Statsd.Prefix, f.values.Statsd.Prefix)
	setString("prometheus-listen", &cfg.PrometheusListen, f.values.PrometheusListen)
	setString("logger", &cfg.LogLevel, f.values.LogLevel)
}
