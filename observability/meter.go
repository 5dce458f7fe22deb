package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/skillsenselab/speakertime/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment.
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider.
// The returned MeterProvider should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the metric instruments the service records.
type Metrics struct {
	jobTotal     metric.Int64Counter
	jobDuration  metric.Float64Histogram
	speakersSeen metric.Int64Counter
	chunkBytes   metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	jobTotal, err := meter.Int64Counter("diarization.job.total",
		metric.WithDescription("Total number of diarization jobs by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating diarization.job.total counter: %w", err)
	}

	jobDuration, err := meter.Float64Histogram("diarization.job.duration",
		metric.WithDescription("Duration of diarization jobs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating diarization.job.duration histogram: %w", err)
	}

	speakersSeen, err := meter.Int64Counter("resolve.speakers.total",
		metric.WithDescription("Distinct raw speaker labels per resolved run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resolve.speakers.total counter: %w", err)
	}

	chunkBytes, err := meter.Int64Counter("audio.ingest.bytes",
		metric.WithDescription("Bytes of audio appended to the buffer"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating audio.ingest.bytes counter: %w", err)
	}

	return &Metrics{
		jobTotal:     jobTotal,
		jobDuration:  jobDuration,
		speakersSeen: speakersSeen,
		chunkBytes:   chunkBytes,
	}, nil
}

// RecordJob records a completed diarization job.
func (m *Metrics) RecordJob(ctx context.Context, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.jobTotal.Add(ctx, 1, attrs)
	m.jobDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordSpeakers records the number of raw speaker labels in a resolved run.
func (m *Metrics) RecordSpeakers(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.speakersSeen.Add(ctx, int64(n))
}

// RecordChunk records an ingested audio chunk.
func (m *Metrics) RecordChunk(ctx context.Context, bytes int) {
	if m == nil {
		return
	}
	m.chunkBytes.Add(ctx, int64(bytes))
}
