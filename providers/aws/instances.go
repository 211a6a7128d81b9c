package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// ec2InstancesAPI is the slice of the EC2 API the instance client needs.
type ec2InstancesAPI interface {
	TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
}

// EC2InstanceClient implements InstanceClient over the EC2 API.
type EC2InstanceClient struct {
	api ec2InstancesAPI
}

// NewEC2InstanceClient wraps an EC2 client for instance termination.
func NewEC2InstanceClient(api ec2InstancesAPI) *EC2InstanceClient {
	return &EC2InstanceClient{api: api}
}

// TerminateInstance requests termination of a single instance.
func (c *EC2InstanceClient) TerminateInstance(ctx context.Context, instanceID string) error {
	_, err := c.api.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return fmt.Errorf("failed to terminate instance %s: %w", instanceID, err)
	}
	return nil
}
