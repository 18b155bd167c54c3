package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveRunCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	m.now = func() time.Time { return time.Unix(1767225600, 0) }

	m.ObserveRun("pickup_retention", 250*time.Millisecond, nil)
	m.ObserveRun("pickup_retention", time.Millisecond, errors.New("tx failed"))
	m.ObserveRun("pickup_retention", time.Millisecond, nil)

	if got := testutil.ToFloat64(m.runs.WithLabelValues("pickup_retention", outcomeSuccess)); got != 2 {
		t.Fatalf("expected success=2, got %f", got)
	}
	if got := testutil.ToFloat64(m.runs.WithLabelValues("pickup_retention", outcomeFailure)); got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}
	if got := testutil.ToFloat64(m.lastSuccess.WithLabelValues("pickup_retention")); got != 1767225600 {
		t.Fatalf("unexpected last success %f", got)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	h := findHistogram(mfs, "cron_job_duration_seconds")
	if h == nil || h.GetSampleCount() != 3 || h.GetSampleSum() <= 0.25 {
		t.Fatalf("unexpected duration histogram %v", h)
	}
}

func TestObserveRunLabelsBlankJob(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCronJobMetrics(reg).ObserveRun("", time.Second, nil)

	expected := `
# HELP cron_job_runs_total Scheduled job runs by outcome.
# TYPE cron_job_runs_total counter
cron_job_runs_total{job="unknown",outcome="success"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "cron_job_runs_total"); err != nil {
		t.Fatal(err)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	var nilMetrics *CronJobMetrics
	nilMetrics.ObserveRun("job", time.Second, nil)
	NewCronJobMetrics(nil).ObserveRun("job", time.Second, errors.New("x"))
	NewRetentionMetrics(nil).AddDeleted(3)
	NewTrackerMetrics(nil).IncStaleDiscarded()
}

func findHistogram(mfs []*dto.MetricFamily, name string) *dto.Histogram {
	for _, mf := range mfs {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetHistogram()
		}
	}
	return nil
}
