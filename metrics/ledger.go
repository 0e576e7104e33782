// Package metrics exposes Prometheus collectors for ledger operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ledgerAppendTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hashledger",
		Subsystem: "ledger",
		Name:      "append_total",
		Help:      "Count of append attempts.",
	}, []string{"ledger", "status"})

	ledgerAppendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hashledger",
		Subsystem: "ledger",
		Name:      "append_duration_seconds",
		Help:      "Duration of linking and appending a block.",
		Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10),
	}, []string{"ledger", "status"})

	ledgerVerifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hashledger",
		Subsystem: "ledger",
		Name:      "verify_total",
		Help:      "Count of chain verifications by result.",
	}, []string{"ledger", "result"})

	ledgerVerifyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hashledger",
		Subsystem: "ledger",
		Name:      "verify_duration_seconds",
		Help:      "Duration of a full chain verification.",
		Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 12),
	}, []string{"ledger", "result"})

	ledgerChainLength = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "hashledger",
		Subsystem: "ledger",
		Name:      "chain_length",
		Help:      "Number of blocks in the chain, genesis included.",
	}, []string{"ledger"})
)

// Ledger records ledger operations under a ledger name label. It satisfies
// ledger.Observer.
type Ledger struct {
	name string
}

// NewLedger returns an observer labelling its samples with name, or
// "unknown" when name is empty.
func NewLedger(name string) *Ledger {
	if name == "" {
		name = "unknown"
	}
	return &Ledger{name: name}
}

// ObserveAppend counts an append attempt, records its duration and sets the
// chain length gauge.
func (m Ledger) ObserveAppend(length int, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ledgerAppendTotal.WithLabelValues(m.name, status).Inc()
	ledgerAppendDuration.WithLabelValues(m.name, status).Observe(time.Since(started).Seconds())
	ledgerChainLength.WithLabelValues(m.name).Set(float64(length))
}

// ObserveVerify counts a verification by result and records its duration.
func (m Ledger) ObserveVerify(length int, err error, started time.Time) {
	result := "valid"
	if err != nil {
		result = "invalid"
	}
	ledgerVerifyTotal.WithLabelValues(m.name, result).Inc()
	ledgerVerifyDuration.WithLabelValues(m.name, result).Observe(time.Since(started).Seconds())
	ledgerChainLength.WithLabelValues(m.name).Set(float64(length))
}
