// Package handler remediates EC2 instances launched from public AMIs.
// The flow per instance is fixed: look up image visibility, suspend the
// owning Auto Scaling Group, terminate the instance, file a Security
// Hub finding.
package handler

import (
	"context"
	"fmt"
	"time"

	shtypes "github.com/aws/aws-sdk-go-v2/service/securityhub/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yairfalse/amiguard/finding"
	"github.com/yairfalse/amiguard/policy"
	awsprovider "github.com/yairfalse/amiguard/providers/aws"
	"github.com/yairfalse/amiguard/telemetry"
	"github.com/yairfalse/amiguard/types"
)

// responseBody is the fixed invocation response. The quotes are part of
// the payload: callers expect a JSON-encoded string.
const responseBody = `"Evaluation complete."`

// Options configure handler behavior
type Options struct {
	// DryRun runs the decision pipeline but skips suspend, terminate
	// and finding import.
	DryRun bool
}

// Handler processes launch events and remediates noncompliant instances
type Handler struct {
	images    awsprovider.ImageClient
	instances awsprovider.InstanceClient
	scaling   awsprovider.ScalingClient
	findings  awsprovider.FindingsClient
	policy    *policy.Engine
	logger    *telemetry.Logger
	metrics   *telemetry.HandlerMetrics
	options   Options
}

// New creates a handler from its collaborators
func New(clients *awsprovider.Clients, engine *policy.Engine, metrics *telemetry.HandlerMetrics, options Options) *Handler {
	return &Handler{
		images:    clients.Images,
		instances: clients.Instances,
		scaling:   clients.Scaling,
		findings:  clients.Findings,
		policy:    engine,
		logger:    telemetry.NewLogger("remediation-handler"),
		metrics:   metrics,
		options:   options,
	}
}

// Handle processes one launch event. Items are handled strictly in
// event order. Image lookup and finding import failures abort the
// invocation; suspend and terminate failures are logged and skipped.
func (h *Handler) Handle(ctx context.Context, event *types.LaunchEvent) (Response, error) {
	startTime := time.Now()

	ctx, span := telemetry.Tracer.Start(ctx, "handler.handle",
		trace.WithAttributes(
			attribute.String("cloud.account.id", event.Account),
			attribute.String("cloud.region", event.Region),
			attribute.Int("instance.count", len(event.Instances()))))
	defer span.End()

	summary := Summary{TotalInstances: len(event.Instances())}

	for _, item := range event.Instances() {
		if err := h.handleInstance(ctx, span, event, item, &summary); err != nil {
			h.recordDuration(ctx, startTime, "failed")
			return Response{}, err
		}
	}

	h.logSummary(ctx, summary)
	h.recordDuration(ctx, startTime, "success")

	return Response{StatusCode: 200, Body: responseBody}, nil
}

// handleInstance runs the remediation sequence for a single launched
// instance. Returned errors are fatal for the whole invocation.
func (h *Handler) handleInstance(ctx context.Context, span trace.Span, event *types.LaunchEvent, item types.InstanceLaunch, summary *Summary) error {
	groupName, inGroup := item.AutoScalingGroupName()

	public, err := h.images.IsImagePublic(ctx, item.ImageID)
	if err != nil {
		// No fallback inventory to consult; visibility is unknowable
		return fmt.Errorf("image visibility lookup for %s: %w", item.ImageID, err)
	}

	verdict, err := h.policy.Evaluate(ctx, policy.Input{
		InstanceID: item.InstanceID,
		ImageID:    item.ImageID,
		Public:     public,
		Tags:       item.TagKeys(),
	})
	if err != nil {
		return err
	}

	if !verdict.Remediate {
		h.logger.WithContext(ctx).Info().
			Str("instance_id", item.InstanceID).
			Str("image_id", item.ImageID).
			Str("reason", verdict.Reason).
			Msg("instance is compliant, no action")
		h.metrics.RecordInstanceEvaluated(ctx, "compliant", event.Region)
		summary.CompliantCount++
		return nil
	}

	telemetry.RecordNoncompliantInstanceEvent(span, item.InstanceID, item.ImageID, groupName, event.Region)
	h.metrics.RecordInstanceEvaluated(ctx, "noncompliant", event.Region)

	if h.options.DryRun {
		h.logger.WithContext(ctx).Info().
			Str("instance_id", item.InstanceID).
			Str("image_id", item.ImageID).
			Msg("dry run, skipping remediation")
		summary.SkippedCount++
		return nil
	}

	if inGroup {
		h.suspendGroup(ctx, span, groupName, summary)
	}
	h.terminateInstance(ctx, span, item.InstanceID, summary)

	if err := h.submitFinding(ctx, span, event, item); err != nil {
		return err
	}
	summary.RemediatedCount++

	return nil
}

// suspendGroup stops the group from replacing the instance we are about
// to terminate. Failure is logged and ignored: the group may already be
// gone, and termination must still be attempted.
func (h *Handler) suspendGroup(ctx context.Context, span trace.Span, groupName string, summary *Summary) {
	if err := h.scaling.SuspendScaling(ctx, groupName); err != nil {
		h.logger.LogRemediationError(ctx, "suspend", groupName, err)
		telemetry.RecordRemediationActionEvent(span, "suspend", groupName, "failed", err.Error())
		h.metrics.RecordRemediation(ctx, "suspend", "failed")
		summary.SuspendFailures++
		return
	}

	h.logger.WithContext(ctx).Info().
		Str("group", groupName).
		Msg("suspended scaling processes")
	telemetry.RecordRemediationActionEvent(span, "suspend", groupName, "success", "")
	h.metrics.RecordRemediation(ctx, "suspend", "success")
	summary.SuspendedCount++
}

// terminateInstance requests termination. Failure is logged and
// ignored; the finding is filed either way.
func (h *Handler) terminateInstance(ctx context.Context, span trace.Span, instanceID string, summary *Summary) {
	if err := h.instances.TerminateInstance(ctx, instanceID); err != nil {
		h.logger.LogRemediationError(ctx, "terminate", instanceID, err)
		telemetry.RecordRemediationActionEvent(span, "terminate", instanceID, "failed", err.Error())
		h.metrics.RecordRemediation(ctx, "terminate", "failed")
		summary.TerminateFailures++
		return
	}

	h.logger.WithContext(ctx).Info().
		Str("instance_id", instanceID).
		Msg("terminating instance")
	telemetry.RecordRemediationActionEvent(span, "terminate", instanceID, "success", "")
	h.metrics.RecordRemediation(ctx, "terminate", "success")
}

// submitFinding files the compliance finding. Failure propagates: a
// terminated instance without a finding is an unrecorded remediation.
func (h *Handler) submitFinding(ctx context.Context, span trace.Span, event *types.LaunchEvent, item types.InstanceLaunch) error {
	details := types.NewEventDetails(event, item)
	f := finding.Build(details)

	if err := h.findings.ImportFindings(ctx, []shtypes.AwsSecurityFinding{f}); err != nil {
		return fmt.Errorf("finding submission for %s: %w", item.InstanceID, err)
	}

	h.logger.WithContext(ctx).Info().
		Str("instance_id", item.InstanceID).
		Str("finding_id", item.InstanceID+"/compliance-check").
		Msg("compliance finding submitted")
	telemetry.RecordFindingSubmittedEvent(span, item.InstanceID+"/compliance-check", item.InstanceID, "HIGH")
	h.metrics.RecordFindingImported(ctx, event.Region)

	return nil
}

func (h *Handler) logSummary(ctx context.Context, summary Summary) {
	h.logger.WithContext(ctx).Info().
		Int("total", summary.TotalInstances).
		Int("compliant", summary.CompliantCount).
		Int("remediated", summary.RemediatedCount).
		Int("skipped", summary.SkippedCount).
		Int("suspended", summary.SuspendedCount).
		Int("suspend_failures", summary.SuspendFailures).
		Int("terminate_failures", summary.TerminateFailures).
		Msg("evaluation complete")
}

func (h *Handler) recordDuration(ctx context.Context, startTime time.Time, status string) {
	h.metrics.RecordHandlerDuration(ctx, time.Since(startTime).Seconds(), status)
}
