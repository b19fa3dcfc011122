package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scribe-monitor/internal/application/monitor"
	"scribe-monitor/internal/config"
	"scribe-monitor/pkg/log"
	"scribe-monitor/pkg/version"
)

// shutdownGrace bounds how long a stuck sampler may delay exit after a signal.
const shutdownGrace = 5 * time.Second

func main() {
	fs := flag.NewFlagSet("scribe-monitor", flag.ContinueOnError)
	flags, err := config.ParseFlags(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if flags.ShowVersion {
		fmt.Printf("Scribe monitor version: %s (#%d)\n", version.GetVersion(), version.GetNumericVersion())
		os.Exit(0)
	}

	if flags.ShowHelp {
		fmt.Println("Scribe monitor")
		fmt.Println("Usage: scribe-monitor [options]")
		fmt.Println("Options:")
		fs.SetOutput(os.Stdout)
		fs.PrintDefaults()
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	flags.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if flags.PrintConfig {
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render configuration: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(string(data))
		os.Exit(0)
	}

	log.InitLog(cfg.LogLevel)

	m, err := monitor.NewMonitor(cfg)
	if err != nil {
		log.Fatalf("Failed to create monitor: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("Received signal", "signal", sig.String())
		cancel()

		time.Sleep(shutdownGrace)
		log.Warn("Monitor did not stop in time, exiting")
		os.Exit(1)
	}()

	if err := m.Run(ctx); err != nil {
		log.Fatalf("Monitor failed: %v", err)
	}
}
