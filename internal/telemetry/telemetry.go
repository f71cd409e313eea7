// Package telemetry exports analysis metrics over OTLP. When disabled it
// degrades to no-op instruments so callers never branch on it.
package telemetry

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Config controls telemetry setup.
type Config struct {
	Enabled  bool
	Endpoint string
	Service  string
	Version  string
}

// Provider wires the meter provider and exposes the engine's instruments.
type Provider struct {
	Enabled bool
	meter   metric.Meter

	analysesCounter    metric.Int64Counter
	extractionFailures metric.Int64Counter
	gateSuppressions   metric.Int64Counter
	shutdownMeter      func(context.Context) error

	seenAnalyses     atomic.Int64
	seenExtractFails atomic.Int64
	seenSuppressions atomic.Int64
}

// Snapshot is a process-local view of the counters, independent of the
// OTLP export path.
type Snapshot struct {
	Analyses           int64
	ExtractionFailures int64
	Suppressions       int64
}

// MetricsSnapshot returns the counts recorded so far in this process.
func (p *Provider) MetricsSnapshot() Snapshot {
	if p == nil {
		return Snapshot{}
	}
	return Snapshot{
		Analyses:           p.seenAnalyses.Load(),
		ExtractionFailures: p.seenExtractFails.Load(),
		Suppressions:       p.seenSuppressions.Load(),
	}
}

// NewProvider configures the OTLP exporter and meter provider. When
// disabled, instruments are no-ops.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !cfg.Enabled {
		p := &Provider{Enabled: false, meter: noop.NewMeterProvider().Meter("")}
		p.initInstruments()
		return p, nil
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", cfg.Service),
			attribute.String("service.version", cfg.Version),
		),
	)
	if err != nil {
		return nil, err
	}

	exp, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpoint(cfg.Endpoint), otlpmetricgrpc.WithInsecure())
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
	)
	otel.SetMeterProvider(mp)

	p := &Provider{
		Enabled:       true,
		meter:         mp.Meter("hablara"),
		shutdownMeter: mp.Shutdown,
	}
	p.initInstruments()
	return p, nil
}

func (p *Provider) initInstruments() {
	if p == nil {
		return
	}
	// Instrument creation errors are ignored; telemetry is best-effort.
	p.analysesCounter, _ = p.meter.Int64Counter("hablara_analyses_total")
	p.extractionFailures, _ = p.meter.Int64Counter("hablara_extraction_failures_total")
	p.gateSuppressions, _ = p.meter.Int64Counter("hablara_gate_suppressions_total")
}

// RecordAnalysis counts one analysis attempt by mode and outcome.
func (p *Provider) RecordAnalysis(mode, outcome string) {
	if p == nil {
		return
	}
	p.seenAnalyses.Add(1)
	p.analysesCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("hablara.mode", mode),
		attribute.String("hablara.outcome", outcome),
	))
}

// RecordExtractionFailure counts a failed span extraction by error kind.
func (p *Provider) RecordExtractionFailure(kind string) {
	if p == nil {
		return
	}
	p.seenExtractFails.Add(1)
	p.extractionFailures.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("hablara.error", kind),
	))
}

// RecordSuppression counts one hallucination-gate suppression.
func (p *Provider) RecordSuppression() {
	if p == nil {
		return
	}
	p.seenSuppressions.Add(1)
	p.gateSuppressions.Add(context.Background(), 1)
}

// Shutdown flushes the meter provider.
func (p *Provider) Shutdown(ctx context.Context) {
	if p == nil || p.shutdownMeter == nil {
		return
	}
	_ = p.shutdownMeter(ctx)
}
