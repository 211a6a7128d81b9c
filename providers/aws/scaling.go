package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
)

// autoscalingAPI is the slice of the Auto Scaling API the scaling client needs.
type autoscalingAPI interface {
	SuspendProcesses(ctx context.Context, params *autoscaling.SuspendProcessesInput, optFns ...func(*autoscaling.Options)) (*autoscaling.SuspendProcessesOutput, error)
}

// ASGScalingClient implements ScalingClient over the Auto Scaling API.
type ASGScalingClient struct {
	api autoscalingAPI
}

// NewASGScalingClient wraps an Auto Scaling client for process suspension.
func NewASGScalingClient(api autoscalingAPI) *ASGScalingClient {
	return &ASGScalingClient{api: api}
}

// SuspendScaling suspends all scaling processes for the group, so the
// group does not replace the instance about to be terminated.
func (c *ASGScalingClient) SuspendScaling(ctx context.Context, groupName string) error {
	_, err := c.api.SuspendProcesses(ctx, &autoscaling.SuspendProcessesInput{
		AutoScalingGroupName: aws.String(groupName),
	})
	if err != nil {
		return fmt.Errorf("failed to suspend processes for group %s: %w", groupName, err)
	}
	return nil
}
