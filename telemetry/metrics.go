package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HandlerMetrics holds remediation metrics using OTEL semantic conventions
type HandlerMetrics struct {
	instancesEvaluated metric.Int64Counter
	remediations       metric.Int64Counter
	findingsImported   metric.Int64Counter
	handlerDuration    metric.Float64Histogram
}

// NewHandlerMetrics creates handler metrics following OTEL naming conventions
func NewHandlerMetrics() (*HandlerMetrics, error) {
	meter := otel.Meter("amiguard.handler")

	instancesEvaluated, err := meter.Int64Counter(
		"amiguard.instances.evaluated",
		metric.WithDescription("Number of launched instances evaluated for AMI compliance"),
		metric.WithUnit("{instance}"),
	)
	if err != nil {
		return nil, err
	}

	remediations, err := meter.Int64Counter(
		"amiguard.remediations",
		metric.WithDescription("Number of remediation steps attempted"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, err
	}

	findingsImported, err := meter.Int64Counter(
		"amiguard.findings.imported",
		metric.WithDescription("Number of compliance findings sent to Security Hub"),
		metric.WithUnit("{finding}"),
	)
	if err != nil {
		return nil, err
	}

	handlerDuration, err := meter.Float64Histogram(
		"amiguard.handler.duration",
		metric.WithDescription("Duration of remediation invocations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &HandlerMetrics{
		instancesEvaluated: instancesEvaluated,
		remediations:       remediations,
		findingsImported:   findingsImported,
		handlerDuration:    handlerDuration,
	}, nil
}

// RecordInstanceEvaluated records one evaluated instance with its verdict
func (m *HandlerMetrics) RecordInstanceEvaluated(ctx context.Context, verdict string, region string) {
	m.instancesEvaluated.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("verdict", verdict),
			attribute.String("cloud.region", region),
		),
	)
}

// RecordRemediation records a remediation step with its outcome
func (m *HandlerMetrics) RecordRemediation(ctx context.Context, action string, status string) {
	m.remediations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("action", action),
			attribute.String("status", status),
		),
	)
}

// RecordFindingImported records a finding accepted by Security Hub
func (m *HandlerMetrics) RecordFindingImported(ctx context.Context, region string) {
	m.findingsImported.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("cloud.region", region),
		),
	)
}

// RecordHandlerDuration records how long one invocation took
func (m *HandlerMetrics) RecordHandlerDuration(ctx context.Context, durationSeconds float64, status string) {
	m.handlerDuration.Record(ctx, durationSeconds,
		metric.WithAttributes(
			attribute.String("status", status),
		),
	)
}
