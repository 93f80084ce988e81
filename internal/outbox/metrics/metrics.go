package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the outbox module's Prometheus metrics.
type Metrics struct {
	DocumentsCreated         prometheus.Counter
	DestinationsPlanned      prometheus.Counter
	Transitions              *prometheus.CounterVec
	DuplicateSequenceRetries prometheus.Counter
	SLAMisses                prometheus.Counter
}

// New creates and registers the outbox metrics.
func New() *Metrics {
	return &Metrics{
		DocumentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doctrack_documents_created_total",
			Help: "Documents created with their initial routing slip",
		}),
		DestinationsPlanned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doctrack_destinations_planned_total",
			Help: "Routing slip entries produced by the planner",
		}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "doctrack_destination_transitions_total",
			Help: "Destination state transitions by kind",
		}, []string{"transition"}),
		DuplicateSequenceRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doctrack_duplicate_sequence_retries_total",
			Help: "Add-destination retries after a sequence collision",
		}),
		SLAMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "doctrack_sla_misses_total",
			Help: "Planned destinations whose action has no SLA entry",
		}),
	}
}
