// ABOUTME: Prometheus counters for analyzer traffic and persistence health
// ABOUTME: A nil *Metrics is valid and records nothing
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the workspace.
type Metrics struct {
	// Registry owns these metrics and backs the /metrics endpoint.
	Registry *prometheus.Registry

	inbound          *prometheus.CounterVec
	outbound         *prometheus.CounterVec
	sendFailures     *prometheus.CounterVec
	skippedEntries   *prometheus.CounterVec
	debounceCollapse prometheus.Counter
	persistFailures  prometheus.Counter
}

// NewMetrics creates a private registry so repeated calls in tests never
// collide on collector names.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		inbound: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acctnotes_analyzer_inbound_total",
				Help: "Inbound analyzer messages by type and outcome.",
			},
			[]string{"type", "outcome"},
		),
		outbound: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acctnotes_analyzer_outbound_total",
				Help: "Outbound analyzer messages by type.",
			},
			[]string{"type"},
		),
		sendFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acctnotes_analyzer_send_failures_total",
				Help: "Outbound analyzer messages that failed to send.",
			},
			[]string{"type"},
		),
		skippedEntries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acctnotes_analyzer_skipped_entries_total",
				Help: "Inbound array entries dropped because they did not decode.",
			},
			[]string{"type"},
		),
		debounceCollapse: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "acctnotes_sync_debounce_collapsed_total",
				Help: "Change notifications folded into a pending dispatch.",
			},
		),
		persistFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "acctnotes_persist_failures_total",
				Help: "Failed writes of the customer document.",
			},
		),
	}
}

// IncrInbound counts one inbound message.
func (m *Metrics) IncrInbound(msgType, outcome string) {
	if m == nil {
		return
	}
	m.inbound.WithLabelValues(msgType, outcome).Inc()
}

// IncrOutbound counts one delivered outbound message.
func (m *Metrics) IncrOutbound(msgType string) {
	if m == nil {
		return
	}
	m.outbound.WithLabelValues(msgType).Inc()
}

// IncrSendFailure counts one outbound message the channel rejected.
func (m *Metrics) IncrSendFailure(msgType string) {
	if m == nil {
		return
	}
	m.sendFailures.WithLabelValues(msgType).Inc()
}

// IncrSkippedEntries counts inbound array entries that failed to decode.
func (m *Metrics) IncrSkippedEntries(msgType string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.skippedEntries.WithLabelValues(msgType).Add(float64(n))
}

// IncrDebounceCollapse counts a notification absorbed by a pending dispatch.
func (m *Metrics) IncrDebounceCollapse() {
	if m == nil {
		return
	}
	m.debounceCollapse.Inc()
}

// IncrPersistFailure counts a failed document write.
func (m *Metrics) IncrPersistFailure() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

// InboundCount returns the current inbound count for a type and outcome.
func (m *Metrics) InboundCount(msgType, outcome string) float64 {
	if m == nil {
		return 0
	}
	return counterValue(m.inbound.WithLabelValues(msgType, outcome))
}

// OutboundCount returns the current outbound count for a type.
func (m *Metrics) OutboundCount(msgType string) float64 {
	if m == nil {
		return 0
	}
	return counterValue(m.outbound.WithLabelValues(msgType))
}

// SkippedEntries returns the number of dropped inbound entries for a type.
func (m *Metrics) SkippedEntries(msgType string) float64 {
	if m == nil {
		return 0
	}
	return counterValue(m.skippedEntries.WithLabelValues(msgType))
}

// PersistFailures returns the number of failed document writes.
func (m *Metrics) PersistFailures() float64 {
	if m == nil {
		return 0
	}
	return counterValue(m.persistFailures)
}

// DebounceCollapsed returns the number of absorbed notifications.
func (m *Metrics) DebounceCollapsed() float64 {
	if m == nil {
		return 0
	}
	return counterValue(m.debounceCollapse)
}

func counterValue(c prometheus.Counter) float64 {
	pb := &dto.Metric{}
	if err := c.Write(pb); err != nil {
		return 0
	}
	if pb.Counter != nil && pb.Counter.Value != nil {
		return *pb.Counter.Value
	}
	return 0
}
