package telemetry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger("amiguard-test")
	require.NotNil(t, logger)

	// Must not panic without a span in context
	logger.WithContext(context.Background()).Info().Msg("no span")
	logger.LogRemediationError(context.Background(), "terminate", "i-1", fmt.Errorf("boom"))
}

func TestInitOTEL_NoEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	shutdown, err := InitOTEL(context.Background(), Config{ServiceName: "amiguard-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewHandlerMetrics(t *testing.T) {
	metrics, err := NewHandlerMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordInstanceEvaluated(ctx, "noncompliant", "us-east-1")
	metrics.RecordRemediation(ctx, "terminate", "success")
	metrics.RecordFindingImported(ctx, "us-east-1")
	metrics.RecordHandlerDuration(ctx, 0.42, "success")
}

func newTestTracer(t *testing.T) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSyncer(exporter),
	)
	return exporter, provider
}

func TestRecordNoncompliantInstanceEvent(t *testing.T) {
	exporter, provider := newTestTracer(t)
	_, span := provider.Tracer("test").Start(context.Background(), "test")

	RecordNoncompliantInstanceEvent(span, "i-1", "ami-1", "my-asg", "us-east-1")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "compliance.violation.detected", spans[0].Events[0].Name)
}

func TestRecordRemediationActionEvent(t *testing.T) {
	exporter, provider := newTestTracer(t)
	_, span := provider.Tracer("test").Start(context.Background(), "test")

	RecordRemediationActionEvent(span, "suspend", "my-asg", "failed", "group deleted")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "remediation.action.executed", spans[0].Events[0].Name)

	var sawError bool
	for _, attr := range spans[0].Events[0].Attributes {
		if string(attr.Key) == "error.message" {
			sawError = true
			assert.Equal(t, "group deleted", attr.Value.AsString())
		}
	}
	assert.True(t, sawError)
}

func TestRecordFindingSubmittedEvent_NilSpanSafe(t *testing.T) {
	RecordFindingSubmittedEvent(nil, "i-1/compliance-check", "i-1", "HIGH")
	RecordNoncompliantInstanceEvent(nil, "i-1", "ami-1", "", "us-east-1")
	RecordRemediationActionEvent(nil, "terminate", "i-1", "success", "")
}
