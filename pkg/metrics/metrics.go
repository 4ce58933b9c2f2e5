package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SaleMetrics records counters for the sale pipeline and gauges for
// backend liveness.
type SaleMetrics struct {
	recorded    *prometheus.CounterVec
	failed      *prometheus.CounterVec
	txnDuration *prometheus.HistogramVec
	liveness    *prometheus.GaugeVec
}

// NewSaleMetrics registers the sale metrics on the provided registerer.
func NewSaleMetrics(reg prometheus.Registerer) *SaleMetrics {
	if reg == nil {
		return &SaleMetrics{}
	}
	recorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_recorded_total",
		Help: "Sales committed successfully.",
	}, []string{"unit"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sale_transactions_failed_total",
		Help: "Sale transactions rolled back, by failure reason.",
	}, []string{"reason"})
	txnDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sale_transaction_duration_seconds",
		Help:    "Duration of the sale transaction in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	liveness := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dependency_up",
		Help: "Whether a backing dependency answered its last liveness probe.",
	}, []string{"dependency"})
	reg.MustRegister(recorded, failed, txnDuration, liveness)
	return &SaleMetrics{
		recorded:    recorded,
		failed:      failed,
		txnDuration: txnDuration,
		liveness:    liveness,
	}
}

// IncRecorded increments the committed-sale counter for the product unit.
func (s *SaleMetrics) IncRecorded(unit string) {
	if s == nil || s.recorded == nil {
		return
	}
	s.recorded.WithLabelValues(normalizeLabel(unit)).Inc()
}

// IncFailed increments the rolled-back counter for the given reason.
func (s *SaleMetrics) IncFailed(reason string) {
	if s == nil || s.failed == nil {
		return
	}
	s.failed.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveTransaction records how long the sale transaction took.
func (s *SaleMetrics) ObserveTransaction(outcome string, duration time.Duration) {
	if s == nil || s.txnDuration == nil {
		return
	}
	s.txnDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// SetDependencyUp flips the liveness gauge for the named dependency.
func (s *SaleMetrics) SetDependencyUp(dependency string, up bool) {
	if s == nil || s.liveness == nil {
		return
	}
	val := 0.0
	if up {
		val = 1.0
	}
	s.liveness.WithLabelValues(normalizeLabel(dependency)).Set(val)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
