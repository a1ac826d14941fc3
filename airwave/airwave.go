// Package airwave wires the signalling server for two-party audio/video calls.
package airwave

import (
	"fmt"

	"github.com/iSubhamMani/airwave/broker"
	"github.com/iSubhamMani/airwave/database"
	"github.com/iSubhamMani/airwave/database/memory"
	"github.com/iSubhamMani/airwave/metric"
	"github.com/iSubhamMani/airwave/registry"
	"github.com/iSubhamMani/airwave/relay"
	"github.com/iSubhamMani/airwave/signal"
)

// Airwave contains servers and configuration.
type Airwave struct {
	broker   *broker.Broker
	database database.Database
	registry *registry.Registry
	relay    *relay.Relay
	signal   *signal.Signal
	metric   *metric.Metrics
}

// New creates a new instance of Airwave.
func New(config Config) *Airwave {
	brk := broker.New()
	db := memory.New()
	met := metric.New(config.Metrics)
	reg := registry.New(config.Registry, brk, db, met)
	rel := relay.New(brk, db, met)
	sig := signal.New(config.Signal, db, brk, met)

	return &Airwave{
		broker:   brk,
		database: db,
		registry: reg,
		relay:    rel,
		signal:   sig,
		metric:   met,
	}
}

// Start runs the signal server and metrics server.
func (a *Airwave) Start() error {
	a.metric.RegisterMetrics()
	a.metric.Start()
	a.metric.UpdateSystemMetrics()
	go a.registry.Start()
	go a.relay.Start()
	if err := a.signal.Start(); err != nil {
		return fmt.Errorf("failed to start signal server: %w", err)
	}
	return nil
}
