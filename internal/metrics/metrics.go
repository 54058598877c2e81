package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SubscriptionTransitionsTotal counts subscription transitions by action.
	SubscriptionTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "subscription_transitions_total",
			Help:      "Total subscription state transitions by history action.",
		},
		[]string{"action"},
	)

	// WalletOpsTotal counts wallet ledger operations by transaction type.
	WalletOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "wallet_operations_total",
			Help:      "Total wallet ledger operations by type.",
		},
		[]string{"type"},
	)

	// WalletOpDuration observes ledger operation latency by type.
	WalletOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "backoffice",
			Name:      "wallet_operation_duration_seconds",
			Help:      "Wallet ledger operation duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(
		SubscriptionTransitionsTotal,
		WalletOpsTotal,
		WalletOpDuration,
	)
}

// ObserveWalletOp increments the operation counter and returns a function to
// observe duration when the operation completes.
func ObserveWalletOp(opType string) func() {
	start := time.Now()
	WalletOpsTotal.WithLabelValues(opType).Inc()
	return func() {
		WalletOpDuration.WithLabelValues(opType).Observe(time.Since(start).Seconds())
	}
}
