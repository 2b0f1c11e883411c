// Package metrics exposes Prometheus counters for ledger activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operations counts ledger mutations by entity, action, and outcome.
// Result is "applied" when the mutation changed state and "noop" when it
// was silently absorbed (missing field, unknown id, self-removal).
var Operations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "choreboard_ledger_operations_total",
		Help: "Ledger mutations by entity, action, and result.",
	},
	[]string{"entity", "action", "result"},
)

// RecordOperation increments the operation counter.
func RecordOperation(entity, action string, applied bool) {
	result := "noop"
	if applied {
		result = "applied"
	}
	Operations.WithLabelValues(entity, action, result).Inc()
}
