package aws

import (
	"context"
	"fmt"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/securityhub"
	shtypes "github.com/aws/aws-sdk-go-v2/service/securityhub/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEC2API struct {
	images       map[string]bool // image id -> public
	describeErr  error
	terminated   [][]string
	terminateErr error
	describedIDs [][]string
}

func (f *fakeEC2API) DescribeImages(_ context.Context, params *ec2.DescribeImagesInput, _ ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
	f.describedIDs = append(f.describedIDs, params.ImageIds)
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	var images []ec2types.Image
	for _, id := range params.ImageIds {
		public, ok := f.images[id]
		if !ok {
			continue
		}
		images = append(images, ec2types.Image{
			ImageId: awssdk.String(id),
			Public:  awssdk.Bool(public),
		})
	}
	return &ec2.DescribeImagesOutput{Images: images}, nil
}

func (f *fakeEC2API) TerminateInstances(_ context.Context, params *ec2.TerminateInstancesInput, _ ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
	if f.terminateErr != nil {
		return nil, f.terminateErr
	}
	f.terminated = append(f.terminated, params.InstanceIds)
	return &ec2.TerminateInstancesOutput{}, nil
}

func TestEC2ImageClient_IsImagePublic(t *testing.T) {
	api := &fakeEC2API{images: map[string]bool{
		"ami-public":  true,
		"ami-private": false,
	}}
	client := NewEC2ImageClient(api)

	public, err := client.IsImagePublic(context.Background(), "ami-public")
	require.NoError(t, err)
	assert.True(t, public)

	public, err = client.IsImagePublic(context.Background(), "ami-private")
	require.NoError(t, err)
	assert.False(t, public)

	assert.Equal(t, [][]string{{"ami-public"}, {"ami-private"}}, api.describedIDs)
}

func TestEC2ImageClient_ImageNotFound(t *testing.T) {
	client := NewEC2ImageClient(&fakeEC2API{})

	_, err := client.IsImagePublic(context.Background(), "ami-gone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ami-gone")
}

func TestEC2ImageClient_LookupError(t *testing.T) {
	client := NewEC2ImageClient(&fakeEC2API{describeErr: fmt.Errorf("throttled")})

	_, err := client.IsImagePublic(context.Background(), "ami-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestEC2InstanceClient_TerminateInstance(t *testing.T) {
	api := &fakeEC2API{}
	client := NewEC2InstanceClient(api)

	err := client.TerminateInstance(context.Background(), "i-1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"i-1"}}, api.terminated)
}

func TestEC2InstanceClient_TerminateError(t *testing.T) {
	client := NewEC2InstanceClient(&fakeEC2API{terminateErr: fmt.Errorf("denied")})

	err := client.TerminateInstance(context.Background(), "i-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "i-1")
}

type fakeAutoScalingAPI struct {
	suspended  []string
	suspendErr error
}

func (f *fakeAutoScalingAPI) SuspendProcesses(_ context.Context, params *autoscaling.SuspendProcessesInput, _ ...func(*autoscaling.Options)) (*autoscaling.SuspendProcessesOutput, error) {
	if f.suspendErr != nil {
		return nil, f.suspendErr
	}
	f.suspended = append(f.suspended, awssdk.ToString(params.AutoScalingGroupName))
	return &autoscaling.SuspendProcessesOutput{}, nil
}

func TestASGScalingClient_SuspendScaling(t *testing.T) {
	api := &fakeAutoScalingAPI{}
	client := NewASGScalingClient(api)

	err := client.SuspendScaling(context.Background(), "my-asg")
	require.NoError(t, err)
	assert.Equal(t, []string{"my-asg"}, api.suspended)
}

func TestASGScalingClient_SuspendError(t *testing.T) {
	client := NewASGScalingClient(&fakeAutoScalingAPI{suspendErr: fmt.Errorf("group deleted")})

	err := client.SuspendScaling(context.Background(), "gone-asg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone-asg")
}

type fakeSecurityHubAPI struct {
	imported    [][]shtypes.AwsSecurityFinding
	importErr   error
	failedCount int32
}

func (f *fakeSecurityHubAPI) BatchImportFindings(_ context.Context, params *securityhub.BatchImportFindingsInput, _ ...func(*securityhub.Options)) (*securityhub.BatchImportFindingsOutput, error) {
	if f.importErr != nil {
		return nil, f.importErr
	}
	f.imported = append(f.imported, params.Findings)
	return &securityhub.BatchImportFindingsOutput{
		FailedCount:  awssdk.Int32(f.failedCount),
		SuccessCount: awssdk.Int32(int32(len(params.Findings)) - f.failedCount),
	}, nil
}

func TestSecurityHubClient_ImportFindings(t *testing.T) {
	api := &fakeSecurityHubAPI{}
	client := NewSecurityHubClient(api)

	finding := shtypes.AwsSecurityFinding{Id: awssdk.String("i-1/compliance-check")}
	err := client.ImportFindings(context.Background(), []shtypes.AwsSecurityFinding{finding})
	require.NoError(t, err)
	require.Len(t, api.imported, 1)
	assert.Equal(t, "i-1/compliance-check", awssdk.ToString(api.imported[0][0].Id))
}

func TestSecurityHubClient_PartialFailure(t *testing.T) {
	client := NewSecurityHubClient(&fakeSecurityHubAPI{failedCount: 1})

	err := client.ImportFindings(context.Background(), []shtypes.AwsSecurityFinding{{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected 1 of 1")
}

func TestSecurityHubClient_ImportError(t *testing.T) {
	client := NewSecurityHubClient(&fakeSecurityHubAPI{importErr: fmt.Errorf("unavailable")})

	err := client.ImportFindings(context.Background(), []shtypes.AwsSecurityFinding{{}})
	assert.Error(t, err)
}
