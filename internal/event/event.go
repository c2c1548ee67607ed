// Package event decodes CloudWatch alarm state-change events into remediation events.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// ErrMalformedEvent indicates the inbound payload is missing required fields
// or carries them in an unexpected shape.
var ErrMalformedEvent = errors.New("malformed alarm event")

// AlarmState is the evaluated state of a CloudWatch alarm.
type AlarmState string

const (
	StateOK               AlarmState = "OK"
	StateAlarm            AlarmState = "ALARM"
	StateInsufficientData AlarmState = "INSUFFICIENT_DATA"
)

// RemediationEvent is the decoded trigger for one remediation decision.
// It is immutable and scoped to a single invocation.
type RemediationEvent struct {
	ResourceID string
	AlarmName  string
	NewState   AlarmState
	Reason     string
	Timestamp  time.Time
}

// alarmStateChangeDetail mirrors the EventBridge "CloudWatch Alarm State Change"
// detail payload. Unknown fields are ignored for forward compatibility.
type alarmStateChangeDetail struct {
	AlarmName string `json:"alarmName"`
	State     struct {
		Value  string `json:"value"`
		Reason string `json:"reason"`
	} `json:"state"`
	Configuration struct {
		Metrics []struct {
			MetricStat struct {
				Metric struct {
					Dimensions map[string]string `json:"dimensions"`
				} `json:"metric"`
			} `json:"metricStat"`
		} `json:"metrics"`
	} `json:"configuration"`
}

// Decode parses an inbound alarm state-change notification.
// The instance id is taken from the alarm configuration's metric dimensions,
// which is where the EventBridge payload carries the alarm target.
func Decode(e events.CloudWatchEvent) (*RemediationEvent, error) {
	var detail alarmStateChangeDetail
	if err := json.Unmarshal(e.Detail, &detail); err != nil {
		return nil, fmt.Errorf("%w: cannot parse detail: %v", ErrMalformedEvent, err)
	}

	if detail.AlarmName == "" {
		return nil, fmt.Errorf("%w: alarm name is empty", ErrMalformedEvent)
	}

	state := AlarmState(detail.State.Value)
	switch state {
	case StateOK, StateAlarm, StateInsufficientData:
	default:
		return nil, fmt.Errorf("%w: unknown alarm state %q", ErrMalformedEvent, detail.State.Value)
	}

	instanceID := instanceIDFromMetrics(&detail)
	if instanceID == "" {
		return nil, fmt.Errorf("%w: no InstanceId dimension in alarm configuration", ErrMalformedEvent)
	}

	return &RemediationEvent{
		ResourceID: instanceID,
		AlarmName:  detail.AlarmName,
		NewState:   state,
		Reason:     detail.State.Reason,
		Timestamp:  e.Time,
	}, nil
}

func instanceIDFromMetrics(detail *alarmStateChangeDetail) string {
	for _, m := range detail.Configuration.Metrics {
		if id := m.MetricStat.Metric.Dimensions["InstanceId"]; id != "" {
			return id
		}
	}
	return ""
}
