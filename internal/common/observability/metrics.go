// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability owns the OpenTelemetry meter provider. A zero value (or
// nil pointer) records nothing.
type Observability struct {
	meterProvider         *metric.MeterProvider
	meter                 otelmetric.Meter
	jobCounter            otelmetric.Int64Counter
	jobDuration           otelmetric.Float64Histogram
	recommendationLatency otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

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

	recommendationLatency, _ := meter.Float64Histogram(
		"recommendation.duration",
		otelmetric.WithDescription("End-to-end outfit recommendation latency"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:         provider,
		meter:                 meter,
		jobCounter:            jobCounter,
		jobDuration:           jobDuration,
		recommendationLatency: recommendationLatency,
	}
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o == nil || o.jobCounter == nil {
		return
	}
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	if o == nil || o.jobDuration == nil {
		return
	}
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

// RecordRecommendation tracks one advisor run; source is the prediction
// source and weatherSource where the weather came from.
func (o *Observability) RecordRecommendation(ctx context.Context, duration time.Duration, source, weatherSource string) {
	if o == nil || o.recommendationLatency == nil {
		return
	}
	o.recommendationLatency.Record(ctx, float64(duration.Microseconds())/1000, otelmetric.WithAttributes(
		attribute.String("source", source),
		attribute.String("weather_source", weatherSource),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.meterProvider.Shutdown(ctx); err != nil {
		log.Printf("Failed to shut down meter provider: %v", err)
	}
}
