package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/securityhub"
	shtypes "github.com/aws/aws-sdk-go-v2/service/securityhub/types"
)

// securityHubAPI is the slice of the Security Hub API the findings client needs.
type securityHubAPI interface {
	BatchImportFindings(ctx context.Context, params *securityhub.BatchImportFindingsInput, optFns ...func(*securityhub.Options)) (*securityhub.BatchImportFindingsOutput, error)
}

// SecurityHubClient implements FindingsClient over the Security Hub API.
type SecurityHubClient struct {
	api securityHubAPI
}

// NewSecurityHubClient wraps a Security Hub client for finding import.
func NewSecurityHubClient(api securityHubAPI) *SecurityHubClient {
	return &SecurityHubClient{api: api}
}

// ImportFindings submits findings to Security Hub. A partially failed
// batch is an error: ownership of a finding only transfers on success.
func (c *SecurityHubClient) ImportFindings(ctx context.Context, findings []shtypes.AwsSecurityFinding) error {
	output, err := c.api.BatchImportFindings(ctx, &securityhub.BatchImportFindingsInput{
		Findings: findings,
	})
	if err != nil {
		return fmt.Errorf("failed to import findings: %w", err)
	}
	if failed := aws.ToInt32(output.FailedCount); failed > 0 {
		return fmt.Errorf("security hub rejected %d of %d findings", failed, len(findings))
	}
	return nil
}
