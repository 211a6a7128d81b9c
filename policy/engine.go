// Package policy decides whether a launched instance gets remediated.
// The default rule is fixed: a public AMI is noncompliant. Exemptions
// (trusted images, an exemption tag) are configured, not hardcoded.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yairfalse/amiguard/telemetry"
)

// defaultPolicy is the compiled-in compliance rule. With no exemptions
// configured the verdict is exactly: public image means remediate.
const defaultPolicy = `package amiguard

import rego.v1

default remediate := false

remediate if {
	input.public
	not exempt
}

default exempt := false

exempt if {
	input.image_id in input.trusted_images
}

exempt if {
	input.exempt_tag != ""
	input.exempt_tag in input.tags
}
`

// Input is the per-instance data the policy evaluates.
type Input struct {
	InstanceID    string   `json:"instance_id"`
	ImageID       string   `json:"image_id"`
	Public        bool     `json:"public"`
	Tags          []string `json:"tags"`
	TrustedImages []string `json:"trusted_images"`
	ExemptTag     string   `json:"exempt_tag"`
}

// Verdict is the policy outcome for one instance.
type Verdict struct {
	Remediate bool
	Exempt    bool
	Reason    string
}

// Options carries the configured exemptions.
type Options struct {
	TrustedImages []string
	ExemptTag     string
}

// Engine evaluates the compliance policy against launch records.
type Engine struct {
	query  rego.PreparedEvalQuery
	opts   Options
	logger *telemetry.Logger
	tracer trace.Tracer
}

// NewEngine compiles the embedded policy once for reuse across items.
func NewEngine(ctx context.Context, opts Options) (*Engine, error) {
	query, err := rego.New(
		rego.Query("data.amiguard"),
		rego.Module("amiguard.rego", defaultPolicy),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile compliance policy: %w", err)
	}

	return &Engine{
		query:  query,
		opts:   opts,
		logger: telemetry.NewLogger("policy-engine"),
		tracer: telemetry.Tracer,
	}, nil
}

// Evaluate runs the policy for one instance.
func (e *Engine) Evaluate(ctx context.Context, input Input) (Verdict, error) {
	ctx, span := e.tracer.Start(ctx, "policy.evaluate",
		trace.WithAttributes(
			attribute.String("resource.id", input.InstanceID),
			attribute.String("image.id", input.ImageID)))
	defer span.End()

	input.TrustedImages = e.opts.TrustedImages
	input.ExemptTag = e.opts.ExemptTag
	if input.Tags == nil {
		input.Tags = []string{}
	}
	if input.TrustedImages == nil {
		input.TrustedImages = []string{}
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return Verdict{}, fmt.Errorf("policy evaluation failed for %s: %w", input.InstanceID, err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return Verdict{}, fmt.Errorf("policy produced no result for %s", input.InstanceID)
	}

	verdict, err := parseVerdict(results)
	if err != nil {
		return Verdict{}, fmt.Errorf("policy result for %s: %w", input.InstanceID, err)
	}
	verdict.Reason = reasonFor(input, verdict)

	e.logger.WithContext(ctx).Debug().
		Str("instance_id", input.InstanceID).
		Str("image_id", input.ImageID).
		Bool("remediate", verdict.Remediate).
		Str("reason", verdict.Reason).
		Msg("policy evaluated")

	return verdict, nil
}

// parseVerdict extracts the rule values from the rego result set.
// OPA returns dynamic JSON, so the map navigation is unavoidable here.
func parseVerdict(results rego.ResultSet) (Verdict, error) {
	values, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return Verdict{}, fmt.Errorf("unexpected expression value %T", results[0].Expressions[0].Value)
	}

	verdict := Verdict{}
	if remediate, ok := values["remediate"].(bool); ok {
		verdict.Remediate = remediate
	}
	if exempt, ok := values["exempt"].(bool); ok {
		verdict.Exempt = exempt
	}
	return verdict, nil
}

func reasonFor(input Input, verdict Verdict) string {
	switch {
	case verdict.Remediate:
		return fmt.Sprintf("image %s is public", input.ImageID)
	case verdict.Exempt:
		return "instance is exempt from remediation"
	default:
		return fmt.Sprintf("image %s is not public", input.ImageID)
	}
}
