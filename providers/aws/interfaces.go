package aws

import (
	"context"

	shtypes "github.com/aws/aws-sdk-go-v2/service/securityhub/types"
)

// ImageClient answers image visibility questions.
type ImageClient interface {
	IsImagePublic(ctx context.Context, imageID string) (bool, error)
}

// InstanceClient terminates compute instances.
type InstanceClient interface {
	TerminateInstance(ctx context.Context, instanceID string) error
}

// ScalingClient controls Auto Scaling Group scaling processes.
type ScalingClient interface {
	SuspendScaling(ctx context.Context, groupName string) error
}

// FindingsClient submits compliance findings to Security Hub.
type FindingsClient interface {
	ImportFindings(ctx context.Context, findings []shtypes.AwsSecurityFinding) error
}
