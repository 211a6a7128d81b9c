// Package finding builds the Security Hub record filed for every
// instance this service terminates.
package finding

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	shtypes "github.com/aws/aws-sdk-go-v2/service/securityhub/types"

	"github.com/yairfalse/amiguard/types"
)

const (
	schemaVersion = "2018-10-08"
	generatorID   = "custom-compliance-check"
	findingType   = "Software and Configuration Checks/Industry and Regulatory Standards"
	findingTitle  = "EC2 Instance Non-Compliance with Company Standards"

	// NoGroupPlaceholder fills the group field for standalone instances.
	NoGroupPlaceholder = "Not part of an ASG"
)

// Build constructs the compliance finding for one terminated instance.
// CreatedAt and UpdatedAt both carry the trigger event's timestamp.
func Build(details types.EventDetails) shtypes.AwsSecurityFinding {
	groupName := details.AutoScalingGroupName
	if groupName == "" {
		groupName = NoGroupPlaceholder
	}

	return shtypes.AwsSecurityFinding{
		SchemaVersion: aws.String(schemaVersion),
		Id:            aws.String(details.InstanceID + "/compliance-check"),
		ProductArn: aws.String(fmt.Sprintf(
			"arn:aws:securityhub:%s:%s:product/%s/default",
			details.Region, details.AccountID, details.AccountID,
		)),
		GeneratorId:  aws.String(generatorID),
		AwsAccountId: aws.String(details.AccountID),
		Types:        []string{findingType},
		CreatedAt:    aws.String(details.Timestamp),
		UpdatedAt:    aws.String(details.Timestamp),
		Severity: &shtypes.Severity{
			Label: shtypes.SeverityLabelHigh,
		},
		Title: aws.String(findingTitle),
		Description: aws.String(fmt.Sprintf(
			"EC2 instance %s with AMI %s is non-compliant and was terminated.",
			details.InstanceID, details.ImageID,
		)),
		Resources: []shtypes.Resource{
			{
				Type:      aws.String("AwsEc2Instance"),
				Id:        aws.String(details.InstanceID),
				Partition: shtypes.PartitionAws,
				Region:    aws.String(details.Region),
				Details: &shtypes.ResourceDetails{
					AwsEc2Instance: &shtypes.AwsEc2InstanceDetails{
						ImageId: aws.String(details.ImageID),
					},
					Other: map[string]string{
						"AutoScalingGroupName": groupName,
					},
				},
			},
		},
		Compliance: &shtypes.Compliance{
			Status: shtypes.ComplianceStatusFailed,
		},
		RecordState: shtypes.RecordStateActive,
	}
}
