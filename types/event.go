package types

import (
	"encoding/json"
	"fmt"
)

// GroupNameTagKey is the tag EC2 stamps on instances that belong to an
// Auto Scaling Group.
const GroupNameTagKey = "aws:autoscaling:groupName"

// LaunchEvent is the CloudTrail-sourced RunInstances notification that
// triggers remediation.
type LaunchEvent struct {
	Account string            `json:"account"`
	Region  string            `json:"region"`
	Detail  LaunchEventDetail `json:"detail"`
}

// LaunchEventDetail carries the API-call portion of the event.
type LaunchEventDetail struct {
	EventTime        string           `json:"eventTime"`
	ResponseElements ResponseElements `json:"responseElements"`
}

// ResponseElements mirrors the RunInstances response embedded in the event.
type ResponseElements struct {
	InstancesSet InstancesSet `json:"instancesSet"`
}

// InstancesSet holds the launched instances in event order.
type InstancesSet struct {
	Items []InstanceLaunch `json:"items"`
}

// InstanceLaunch is one launched instance as reported by the event.
type InstanceLaunch struct {
	InstanceID string `json:"instanceId"`
	ImageID    string `json:"imageId"`
	TagSet     TagSet `json:"tagSet"`
}

// TagSet wraps the instance tags. The wire names are lowercase because
// responseElements uses the EC2 query API casing, not the console one.
type TagSet struct {
	Items []Tag `json:"items"`
}

// Tag is a single instance tag.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseLaunchEvent decodes and validates a raw trigger event.
func ParseLaunchEvent(data []byte) (*LaunchEvent, error) {
	var event LaunchEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to decode launch event: %w", err)
	}
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("invalid launch event: %w", err)
	}
	return &event, nil
}

// Validate ensures the event carries everything remediation needs.
func (e *LaunchEvent) Validate() error {
	if e.Account == "" {
		return fmt.Errorf("account is required")
	}
	if e.Region == "" {
		return fmt.Errorf("region is required")
	}
	if e.Detail.EventTime == "" {
		return fmt.Errorf("detail.eventTime is required")
	}
	if len(e.Detail.ResponseElements.InstancesSet.Items) == 0 {
		return fmt.Errorf("event contains no launched instances")
	}
	for i, item := range e.Detail.ResponseElements.InstancesSet.Items {
		if item.InstanceID == "" {
			return fmt.Errorf("item %d: instanceId is required", i)
		}
		if item.ImageID == "" {
			return fmt.Errorf("item %d: imageId is required", i)
		}
	}
	return nil
}

// Instances returns the launched instances in event order.
func (e *LaunchEvent) Instances() []InstanceLaunch {
	return e.Detail.ResponseElements.InstancesSet.Items
}

// AutoScalingGroupName scans the tag set for the group membership tag.
// The second return is false for standalone instances.
func (l InstanceLaunch) AutoScalingGroupName() (string, bool) {
	for _, tag := range l.TagSet.Items {
		if tag.Key == GroupNameTagKey {
			return tag.Value, true
		}
	}
	return "", false
}

// TagKeys returns the keys of the instance's tags, in tag order.
func (l InstanceLaunch) TagKeys() []string {
	keys := make([]string, 0, len(l.TagSet.Items))
	for _, tag := range l.TagSet.Items {
		keys = append(keys, tag.Key)
	}
	return keys
}
