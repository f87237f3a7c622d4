package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Stack metrics
	StackOps      *prometheus.CounterVec
	StackDepth    prometheus.Gauge
	StackCapacity prometheus.Gauge

	// Gate metrics
	GateAvailable   prometheus.Gauge
	GateTransitions *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector. A nil registerer falls back to
// the default Prometheus registry; tests pass their own to avoid duplicate
// registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stackd_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stackd_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		StackOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stackd_stack_operations_total",
				Help: "Total number of stack operations by outcome",
			},
			[]string{"op", "outcome"},
		),
		StackDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stackd_stack_depth",
				Help: "Number of currently occupied slots",
			},
		),
		StackCapacity: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stackd_stack_capacity",
				Help: "Current maximum number of storable elements",
			},
		),

		GateAvailable: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stackd_gate_available",
				Help: "Whether the device is currently available (1) or not (0)",
			},
		),
		GateTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stackd_gate_transitions_total",
				Help: "Total number of gate transitions",
			},
			[]string{"to"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stackd_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stackd_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOp records a stack operation outcome
func (m *Metrics) RecordOp(op, outcome string) {
	m.StackOps.WithLabelValues(op, outcome).Inc()
}

// SetStack updates the depth and capacity gauges
func (m *Metrics) SetStack(depth, capacity uint) {
	m.StackDepth.Set(float64(depth))
	m.StackCapacity.Set(float64(capacity))
}

// RecordTransition records a gate transition
func (m *Metrics) RecordTransition(to string, available bool) {
	m.GateTransitions.WithLabelValues(to).Inc()
	if available {
		m.GateAvailable.Set(1)
	} else {
		m.GateAvailable.Set(0)
	}
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}
