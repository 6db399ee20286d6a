package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lookup-workers/internal/common/metrics"
)

func TestObservability_ExportsLookupCounters(t *testing.T) {
	reg := promclient.NewRegistry()
	o := NewWithRegisterer("lookup-test", reg)
	defer o.Shutdown()

	ctx := context.Background()
	o.RecordLookup(ctx, "phone", "report")
	o.RecordLookupDuration(ctx, 120*time.Millisecond, "phone")
	o.RecordJobProcessed(ctx, "record-lookup", "completed")

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "lookups.processed_total")
	assert.Contains(t, joined, "lookups.duration_milliseconds")
	assert.Contains(t, joined, "jobs.processed_total")
}

func TestObservability_NilSafe(t *testing.T) {
	var o *Observability
	assert.NotPanics(t, func() {
		o.RecordLookup(context.Background(), "person", "report")
		o.RecordLookupDuration(context.Background(), time.Second, "person")
		o.ObserveJob(context.Background(), "classify-query")("")
		o.Shutdown()
	})
}

func TestObservability_ObserveJob(t *testing.T) {
	reg := promclient.NewRegistry()
	o := NewWithRegisterer("lookup-test", reg)
	defer o.Shutdown()

	before := testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues("observe-job-test", "LOOKUP_TIMEOUT"))

	done := o.ObserveJob(context.Background(), "observe-job-test")
	done("LOOKUP_TIMEOUT")

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues("observe-job-test", "LOOKUP_TIMEOUT")))

	families, err := reg.Gather()
	require.NoError(t, err)

	var counted float64
	for _, f := range families {
		if f.GetName() != "jobs.processed_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["task_type"] == "observe-job-test" && labels["status"] == "LOOKUP_TIMEOUT" {
				counted += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, counted)
}
