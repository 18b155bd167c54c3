package metrics

import "github.com/prometheus/client_golang/prometheus"

// RetentionMetrics counts what each sweep removed or had to leave behind.
type RetentionMetrics struct {
	deleted prometheus.Counter
	skipped *prometheus.CounterVec
}

// NewRetentionMetrics registers the sweeper counters on reg.
func NewRetentionMetrics(reg prometheus.Registerer) *RetentionMetrics {
	if reg == nil {
		return &RetentionMetrics{}
	}
	deleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "retention_records_deleted_total",
		Help: "Completed pickup assignments removed together with their bills.",
	})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "retention_records_skipped_total",
		Help: "Completed pickup assignments skipped by the sweeper.",
	}, []string{"reason"})
	reg.MustRegister(deleted, skipped)
	return &RetentionMetrics{deleted: deleted, skipped: skipped}
}

// AddDeleted adds n to the deleted counter.
func (r *RetentionMetrics) AddDeleted(n int) {
	if r == nil || r.deleted == nil || n <= 0 {
		return
	}
	r.deleted.Add(float64(n))
}

// IncSkipped records one skipped record for reason.
func (r *RetentionMetrics) IncSkipped(reason string) {
	if r == nil || r.skipped == nil {
		return
	}
	r.skipped.WithLabelValues(normalizeLabel(reason)).Inc()
}
