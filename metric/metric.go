// Package metric provides Prometheus metrics collection and monitoring.
package metric

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/cpu"
)

// Metrics contains the Prometheus metrics server and registered custom metrics.
type Metrics struct {
	httpServer           *http.Server
	config               Config
	webSocketConnections prometheus.Gauge
	activeRooms          prometheus.Gauge
	joinRejections       prometheus.Counter
	relayDrops           prometheus.Counter
	cpuUsage             prometheus.Gauge
	memoryUsage          prometheus.Gauge
}

// Config defines the configuration for the metrics server.
type Config struct {
	Port int    // Port for metrics server
	Path string // Path for metrics endpoint
}

// Default values for metrics configuration.
const (
	DefaultMetricsPort = 9090
	DefaultMetricsPath = "/metrics"

	systemSampleInterval = 5 * time.Second
)

// New creates a new Metrics instance with the specified configuration.
func New(config Config) *Metrics {
	return &Metrics{
		config: config,
		webSocketConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of WebSocket connections.",
		}),
		activeRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "active_rooms_total",
			Help: "Current number of stored rooms.",
		}),
		joinRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "room_join_rejections_total",
			Help: "Number of rejected room join requests.",
		}),
		relayDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_dropped_messages_total",
			Help: "Number of negotiation messages dropped for unbound destinations.",
		}),
		cpuUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cpu_usage_percentage",
			Help: "CPU usage percentage.",
		}),
		memoryUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "memory_usage_bytes",
			Help: "Current memory usage in bytes.",
		}),
	}
}

// RegisterMetrics registers custom metrics with Prometheus.
func (m *Metrics) RegisterMetrics() {
	prometheus.MustRegister(m.webSocketConnections)
	prometheus.MustRegister(m.activeRooms)
	prometheus.MustRegister(m.joinRejections)
	prometheus.MustRegister(m.relayDrops)
	prometheus.MustRegister(m.cpuUsage)
	prometheus.MustRegister(m.memoryUsage)
}

// Start initializes and starts the metrics HTTP server.
func (m *Metrics) Start() {
	mux := http.NewServeMux()
	mux.Handle(m.config.Path, promhttp.Handler())
	m.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", m.config.Port),
		Handler: mux,
	}

	go func() {
		log.Printf("Starting metrics server on port %d at path %s", m.config.Port, m.config.Path)
		if err := m.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting metrics server: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (m *Metrics) Stop() error {
	if m.httpServer != nil {
		log.Printf("Stopping metrics server on port %d", m.config.Port)
		return m.httpServer.Close()
	}
	return nil
}

// UpdateSystemMetrics collects and updates system-level metrics.
func (m *Metrics) UpdateSystemMetrics() {
	go func() {
		for {
			var memStats runtime.MemStats
			runtime.ReadMemStats(&memStats)
			m.memoryUsage.Set(float64(memStats.Alloc))

			percents, err := cpu.Percent(0, false)
			if err == nil && len(percents) > 0 {
				m.cpuUsage.Set(percents[0])
			}

			time.Sleep(systemSampleInterval)
		}
	}()
}

// IncrementWebSocketConnections increments the WebSocket connection count.
func (m *Metrics) IncrementWebSocketConnections() {
	m.webSocketConnections.Inc()
}

// DecrementWebSocketConnections decrements the WebSocket connection count.
func (m *Metrics) DecrementWebSocketConnections() {
	m.webSocketConnections.Dec()
}

// IncrementActiveRooms increments the stored room count.
func (m *Metrics) IncrementActiveRooms() {
	m.activeRooms.Inc()
}

// DecrementActiveRooms decrements the stored room count.
func (m *Metrics) DecrementActiveRooms() {
	m.activeRooms.Dec()
}

// IncrementJoinRejections counts a rejected join request.
func (m *Metrics) IncrementJoinRejections() {
	m.joinRejections.Inc()
}

// IncrementRelayDrops counts a dropped negotiation message.
func (m *Metrics) IncrementRelayDrops() {
	m.relayDrops.Inc()
}
