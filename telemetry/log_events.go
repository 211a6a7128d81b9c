package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RecordNoncompliantInstanceEvent emits a structured span event when a
// public-AMI instance is detected
func RecordNoncompliantInstanceEvent(
	span trace.Span,
	instanceID string,
	imageID string,
	groupName string,
	region string,
) {
	if span == nil {
		return
	}

	span.AddEvent("compliance.violation.detected", trace.WithAttributes(
		attribute.String("event.type", "compliance.violation.detected"),
		attribute.String("resource.id", instanceID),
		attribute.String("image.id", imageID),
		attribute.String("autoscaling.group", groupName),
		attribute.String("cloud.region", region),
	))
}

// RecordRemediationActionEvent emits a structured span event for a
// suspend or terminate attempt
func RecordRemediationActionEvent(
	span trace.Span,
	actionType string,
	resourceID string,
	status string,
	errorMsg string,
) {
	if span == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("event.type", "remediation.action.executed"),
		attribute.String("action.type", actionType),
		attribute.String("resource.id", resourceID),
		attribute.String("status", status),
	}
	if errorMsg != "" {
		attrs = append(attrs, attribute.String("error.message", errorMsg))
	}

	span.AddEvent("remediation.action.executed", trace.WithAttributes(attrs...))
}

// RecordFindingSubmittedEvent emits a structured span event when a
// compliance finding is handed to Security Hub
func RecordFindingSubmittedEvent(
	span trace.Span,
	findingID string,
	instanceID string,
	severity string,
) {
	if span == nil {
		return
	}

	span.AddEvent("compliance.finding.submitted", trace.WithAttributes(
		attribute.String("event.type", "compliance.finding.submitted"),
		attribute.String("finding.id", findingID),
		attribute.String("resource.id", instanceID),
		attribute.String("severity", severity),
	))
}
