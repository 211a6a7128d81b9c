package aws

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/securityhub"
)

// Clients bundles the remediation collaborators built from one shared
// AWS configuration.
type Clients struct {
	Images    ImageClient
	Instances InstanceClient
	Scaling   ScalingClient
	Findings  FindingsClient
}

// NewClients builds all remediation clients from the default credential
// chain. Region is optional; the SDK resolves it from the environment
// when empty.
func NewClients(ctx context.Context, region string) (*Clients, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	ec2Client := ec2.NewFromConfig(cfg)

	return &Clients{
		Images:    NewEC2ImageClient(ec2Client),
		Instances: NewEC2InstanceClient(ec2Client),
		Scaling:   NewASGScalingClient(autoscaling.NewFromConfig(cfg)),
		Findings:  NewSecurityHubClient(securityhub.NewFromConfig(cfg)),
	}, nil
}
