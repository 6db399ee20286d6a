package observability

import (
	"context"
	"log"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"lookup-workers/internal/common/metrics"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
	lookupCounter  otelmetric.Int64Counter
	lookupDuration otelmetric.Float64Histogram
}

// New registers the exporter with the default prometheus registry and
// installs the provider globally.
func New(serviceName string) *Observability {
	o := NewWithRegisterer(serviceName, promclient.DefaultRegisterer)
	if o.meterProvider != nil {
		otel.SetMeterProvider(o.meterProvider)
	}
	return o
}

// NewWithRegisterer builds instruments exported through reg. A failed
// exporter yields a no-op value.
func NewWithRegisterer(serviceName string, reg promclient.Registerer) *Observability {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	jobCounter, _ := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)

	jobDuration, _ := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)

	lookupCounter, _ := meter.Int64Counter(
		"lookups.processed",
		otelmetric.WithDescription("Number of lookup turns"),
	)

	lookupDuration, _ := meter.Float64Histogram(
		"lookups.duration",
		otelmetric.WithDescription("Lookup service call duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		jobCounter:     jobCounter,
		jobDuration:    jobDuration,
		lookupCounter:  lookupCounter,
		lookupDuration: lookupDuration,
	}
}

// RecordJobProcessed counts one finished job by task type and status.
func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o != nil && o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, duration time.Duration, taskType, status string) {
	if o != nil && o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

// ObserveJob tracks one job in both the prometheus worker vectors and the
// otel job instruments. Call the returned func with the error code, or ""
// on success. A nil receiver still feeds the prometheus vectors.
func (o *Observability) ObserveJob(ctx context.Context, taskType string) func(errorCode string) {
	start := time.Now()
	done := metrics.ObserveJob(taskType)
	return func(errorCode string) {
		done(errorCode)
		status := "completed"
		if errorCode != "" {
			status = errorCode
		}
		o.RecordJobProcessed(ctx, taskType, status)
		o.RecordJobDuration(ctx, time.Since(start), taskType, status)
	}
}

// RecordLookup counts one turn by query kind and outcome.
func (o *Observability) RecordLookup(ctx context.Context, kind, outcome string) {
	if o != nil && o.lookupCounter != nil {
		o.lookupCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("query_kind", kind),
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) RecordLookupDuration(ctx context.Context, duration time.Duration, kind string) {
	if o != nil && o.lookupDuration != nil {
		o.lookupDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("query_kind", kind),
		))
	}
}

func (o *Observability) Shutdown() {
	if o != nil && o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
