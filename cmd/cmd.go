// Package cmd parse args to configure application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iSubhamMani/airwave/airwave"
	"github.com/iSubhamMani/airwave/metric"
	"github.com/iSubhamMani/airwave/registry"
	"github.com/iSubhamMani/airwave/signal"
)

// Run starts the application.
func Run() {
	config, err := SetupConfig(os.Stdout, os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	a := airwave.New(config)
	if err = a.Start(); err != nil {
		os.Exit(1)
	}
}

// SetupConfig sets up and returns the configuration.
func SetupConfig(w io.Writer, args []string) (airwave.Config, error) {
	config, err := Parse(w, args)
	if err != nil {
		return config, err
	}
	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Parse parses the command line arguments.
func Parse(w io.Writer, args []string) (airwave.Config, error) {
	con := airwave.Config{}

	fs := flag.NewFlagSet("airwave", flag.ContinueOnError)
	fs.SetOutput(w)
	fs.IntVar(&con.Signal.Port, "port", signal.DefaultPort, "listening port")
	fs.BoolVar(&con.Signal.Debug, "debug", false, "debug mode")
	fs.StringVar(&con.Signal.KeyFile, "key", "", "key file path")
	fs.StringVar(&con.Signal.CertFile, "cert", "", "cert file path")
	fs.IntVar(&con.Metrics.Port, "metric-port", metric.DefaultMetricsPort, "metrics listening port")
	fs.StringVar(&con.Metrics.Path, "metric-path", metric.DefaultMetricsPath, "metrics endpoint path")
	fs.DurationVar(&con.Registry.RoomTTL, "room-ttl", registry.DefaultRoomTTL, "time before an abandoned room is reaped")
	fs.DurationVar(&con.Registry.ReapInterval, "reap-interval", registry.DefaultReapInterval, "interval between abandoned room sweeps")

	err := fs.Parse(args)
	if err != nil {
		return airwave.Config{}, fmt.Errorf("failed to parse args: %w", err)
	}

	if fs.NArg() != 0 {
		return airwave.Config{}, errors.New("some args are not parsed")
	}

	return con, nil
}
