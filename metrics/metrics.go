// Package metrics exposes Prometheus collectors for pending operations and trigger streams.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the registry and the bridge meters.
type Metrics struct {
	Registry          *prometheus.Registry
	PendingOperations *prometheus.GaugeVec
	Resolutions       *prometheus.CounterVec
	TriggerUpdates    *prometheus.CounterVec
	ActiveTriggers    prometheus.Gauge
}

// New creates a custom registry with the bridge metrics registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	pending := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "capbridge_pending_operations",
		Help: "Operations waiting for a host completion.",
	}, []string{"kind"})

	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "capbridge_operation_resolutions_total",
		Help: "Resolved pending operations by outcome.",
	}, []string{"kind", "outcome"})

	updates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "capbridge_trigger_updates_total",
		Help: "Trigger updates emitted to the sink.",
	}, []string{"kind", "terminal"})

	active := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "capbridge_active_triggers",
		Help: "Trigger streams that have not delivered a terminal update.",
	})

	reg.MustRegister(pending, resolutions, updates, active)

	return &Metrics{
		Registry:          reg,
		PendingOperations: pending,
		Resolutions:       resolutions,
		TriggerUpdates:    updates,
		ActiveTriggers:    active,
	}
}

// Created records a newly pending operation.
func (m *Metrics) Created(kind string) {
	if m == nil {
		return
	}
	m.PendingOperations.WithLabelValues(kind).Inc()
}

// Resolved records the resolution of a pending operation.
func (m *Metrics) Resolved(kind, outcome string) {
	if m == nil {
		return
	}
	m.PendingOperations.WithLabelValues(kind).Dec()
	m.Resolutions.WithLabelValues(kind, outcome).Inc()
}

// TriggerUpdate counts an emitted trigger update.
func (m *Metrics) TriggerUpdate(kind string, terminal bool) {
	if m == nil {
		return
	}
	m.TriggerUpdates.WithLabelValues(kind, strconv.FormatBool(terminal)).Inc()
}

// SetActiveTriggers sets the number of open trigger streams.
func (m *Metrics) SetActiveTriggers(n int) {
	if m == nil {
		return
	}
	m.ActiveTriggers.Set(float64(n))
}
