package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var initOnce sync.Once

var (
	ExecutionsTotal          *prometheus.CounterVec
	CreditsConsumedTotal     prometheus.Counter
	CreditsRefundedTotal     prometheus.Counter
	PurchasesCompletedTotal  *prometheus.CounterVec
	ReconciliationAnomalies  prometheus.Counter
	UsageRecordFailuresTotal prometheus.Counter
)

// Init registers all collectors. Safe to call more than once; only the
// first call registers.
func Init() {
	initOnce.Do(registerAll)
}

func registerAll() {
	ExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stackdroid",
			Name:      "executions_total",
			Help:      "Total number of product executions.",
		},
		[]string{"kind", "outcome"},
	)
	CreditsConsumedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stackdroid",
			Name:      "credits_consumed_total",
			Help:      "Total number of credits debited for metered use.",
		},
	)
	CreditsRefundedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stackdroid",
			Name:      "credits_refunded_total",
			Help:      "Total number of credits returned after failed executions.",
		},
	)
	PurchasesCompletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stackdroid",
			Name:      "purchases_completed_total",
			Help:      "Total number of completed purchases.",
		},
		[]string{"mode"},
	)
	ReconciliationAnomalies = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stackdroid",
			Name:      "reconciliation_anomalies_total",
			Help:      "Detected mismatches between usage and balance debits needing out-of-band correction.",
		},
	)
	UsageRecordFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stackdroid",
			Name:      "usage_record_failures_total",
			Help:      "Usage metering writes that failed and were skipped.",
		},
	)
	prometheus.MustRegister(
		ExecutionsTotal,
		CreditsConsumedTotal,
		CreditsRefundedTotal,
		PurchasesCompletedTotal,
		ReconciliationAnomalies,
		UsageRecordFailuresTotal,
	)
}
