package metrics

import "github.com/prometheus/client_golang/prometheus"

// TrackerMetrics observes lifecycle fetches served to clients.
type TrackerMetrics struct {
	fetches         *prometheus.CounterVec
	sideDataFailure prometheus.Counter
	staleDiscarded  prometheus.Counter
}

// NewTrackerMetrics registers the tracker metrics on reg.
func NewTrackerMetrics(reg prometheus.Registerer) *TrackerMetrics {
	if reg == nil {
		return &TrackerMetrics{}
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_fetches_total",
		Help: "Lifecycle snapshots computed, by resulting stage.",
	}, []string{"stage"})
	sideData := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_side_data_failures_total",
		Help: "Vendor lookups that failed or timed out.",
	})
	stale := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_stale_results_discarded_total",
		Help: "Watcher fetch results dropped because a newer fetch had started.",
	})
	reg.MustRegister(fetches, sideData, stale)
	return &TrackerMetrics{fetches: fetches, sideDataFailure: sideData, staleDiscarded: stale}
}

// IncFetch counts a computed snapshot for stage.
func (t *TrackerMetrics) IncFetch(stage string) {
	if t == nil || t.fetches == nil {
		return
	}
	t.fetches.WithLabelValues(normalizeLabel(stage)).Inc()
}

// IncSideDataFailure counts a failed vendor lookup.
func (t *TrackerMetrics) IncSideDataFailure() {
	if t == nil || t.sideDataFailure == nil {
		return
	}
	t.sideDataFailure.Inc()
}

// IncStaleDiscarded counts a superseded watcher result.
func (t *TrackerMetrics) IncStaleDiscarded() {
	if t == nil || t.staleDiscarded == nil {
		return
	}
	t.staleDiscarded.Inc()
}
