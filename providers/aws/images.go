package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// ec2ImagesAPI is the slice of the EC2 API the image client needs.
type ec2ImagesAPI interface {
	DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
}

// EC2ImageClient implements ImageClient over the EC2 API.
type EC2ImageClient struct {
	api ec2ImagesAPI
}

// NewEC2ImageClient wraps an EC2 client for image lookups.
func NewEC2ImageClient(api ec2ImagesAPI) *EC2ImageClient {
	return &EC2ImageClient{api: api}
}

// IsImagePublic reports whether the AMI is publicly launchable.
// A lookup that returns no images is an error: a deregistered AMI has
// no visibility to evaluate.
func (c *EC2ImageClient) IsImagePublic(ctx context.Context, imageID string) (bool, error) {
	output, err := c.api.DescribeImages(ctx, &ec2.DescribeImagesInput{
		ImageIds: []string{imageID},
	})
	if err != nil {
		return false, fmt.Errorf("failed to describe image %s: %w", imageID, err)
	}
	if len(output.Images) == 0 {
		return false, fmt.Errorf("image %s not found", imageID)
	}
	return aws.ToBool(output.Images[0].Public), nil
}
