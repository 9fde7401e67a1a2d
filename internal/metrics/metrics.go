// Package metrics owns the process counters exposed through /debug and the
// optional Prometheus endpoint. The set is instantiated per process (and per
// test) instead of living in package-level mutable state.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates bot counters around a private registry.
type Metrics struct {
	registry  *prometheus.Registry
	startedAt time.Time

	// processed mirrors the Prometheus counter so /debug can read it back.
	processed atomic.Uint64

	photosProcessed prometheus.Counter
	uploadFailures  *prometheus.CounterVec
	commandsTotal   *prometheus.CounterVec
	messagesSent    prometheus.Counter
}

// New creates a fresh metrics set with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry:  prometheus.NewRegistry(),
		startedAt: time.Now(),
		photosProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bot_photos_processed_total",
			Help: "Count of photos accepted for upload",
		}),
		uploadFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_upload_failures_total",
				Help: "Count of failed photo uploads",
			},
			[]string{"kind"},
		),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_commands_total",
				Help: "Count of processed commands",
			},
			[]string{"command", "status"},
		),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bot_messages_sent_total",
			Help: "Count of sent messages",
		}),
	}

	m.registry.MustRegister(
		m.photosProcessed,
		m.uploadFailures,
		m.commandsTotal,
		m.messagesSent,
	)
	return m
}

// PhotoProcessed increments the processed photo counter.
func (m *Metrics) PhotoProcessed() {
	m.processed.Add(1)
	m.photosProcessed.Inc()
}

// PhotosProcessed returns the number of photos processed since start.
func (m *Metrics) PhotosProcessed() uint64 {
	return m.processed.Load()
}

// UploadFailed records a failed upload by failure kind (fetch, transfer).
func (m *Metrics) UploadFailed(kind string) {
	m.uploadFailures.WithLabelValues(kind).Inc()
}

// CommandHandled records a processed command with its status.
func (m *Metrics) CommandHandled(command, status string) {
	m.commandsTotal.WithLabelValues(command, status).Inc()
}

// MessageSent increments the outbound message counter.
func (m *Metrics) MessageSent() {
	m.messagesSent.Inc()
}

// StartedAt reports when this metrics set (and hence the process) started.
func (m *Metrics) StartedAt() time.Time {
	return m.startedAt
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
