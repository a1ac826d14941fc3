// Package airwave wires the signalling server for two-party audio/video calls.
package airwave

import (
	"github.com/iSubhamMani/airwave/metric"
	"github.com/iSubhamMani/airwave/registry"
	"github.com/iSubhamMani/airwave/signal"
)

// Config contains the configuration for the Airwave server.
type Config struct {
	Signal   signal.Config
	Registry registry.Config
	Metrics  metric.Config
}

// Validate validates the configuration.
func (c Config) Validate() error {
	return c.Signal.Validate()
}
