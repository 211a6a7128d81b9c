package types

// EventDetails is the per-instance record a finding is built from.
// Constructed once per offending instance and never mutated.
type EventDetails struct {
	Timestamp            string
	InstanceID           string
	ImageID              string
	AccountID            string
	Region               string
	AutoScalingGroupName string // empty for standalone instances
}

// NewEventDetails builds the finding input for one launched instance.
func NewEventDetails(event *LaunchEvent, item InstanceLaunch) EventDetails {
	groupName, _ := item.AutoScalingGroupName()
	return EventDetails{
		Timestamp:            event.Detail.EventTime,
		InstanceID:           item.InstanceID,
		ImageID:              item.ImageID,
		AccountID:            event.Account,
		Region:               event.Region,
		AutoScalingGroupName: groupName,
	}
}
