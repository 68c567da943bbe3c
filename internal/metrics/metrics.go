// Package metrics exposes Prometheus instrumentation for the intent ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IntentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbintent_intents_created_total",
		Help: "The total number of intents created",
	})

	IntentStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arbintent_intent_status_changes_total",
		Help: "The total number of intent status transitions by target status",
	}, []string{"status"})

	ExecutionsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbintent_executions_recorded_total",
		Help: "The total number of arbitrage executions recorded",
	})

	RejectedCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arbintent_rejected_calls_total",
		Help: "The total number of rejected ledger calls by operation and reason",
	}, []string{"operation", "reason"})

	SettlementsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbintent_settlements_issued_total",
		Help: "The total number of fire-and-forget settlement calls issued",
	})

	SignaturesStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbintent_signatures_stored_total",
		Help: "The total number of cross-chain signature records stored",
	})
)
