// Package signal exposes the socket endpoint for two-party call signalling.
package signal

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/iSubhamMani/airwave/broker"
	"github.com/iSubhamMani/airwave/database"
	"github.com/iSubhamMani/airwave/metric"
	"github.com/iSubhamMani/airwave/signal/controller"
	"github.com/iSubhamMani/airwave/signal/handler"
	"github.com/iSubhamMani/airwave/signal/middleware"
)

// Signal contains the server and configuration.
type Signal struct {
	server *http.Server
	conf   Config
}

// New creates a new instance of Signal.
func New(config Config, db database.Database, brk *broker.Broker, met *metric.Metrics) *Signal {
	con := controller.New(brk, met)

	mux := http.NewServeMux()
	mux.Handle("/ws", handler.New(con))
	mux.Handle("GET /room/{id}", controller.NewRoomLookup(db, config.Debug))

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", config.Port),
		ReadTimeout: 2 * time.Second,
		Handler:     middleware.Set(mux, middleware.NewCORS(), middleware.NewLogger()),
	}
	return &Signal{
		server: srv,
		conf:   config,
	}
}

// Start runs the signal server.
func (s *Signal) Start() error {
	if s.conf.CertFile == "" || s.conf.KeyFile == "" {
		log.Printf("Starting server port on %d, without TLS", s.conf.Port)
		if err := s.server.ListenAndServe(); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	}

	log.Printf("Starting server port on %d, with TLS", s.conf.Port)
	if err := s.server.ListenAndServeTLS(s.conf.CertFile, s.conf.KeyFile); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
