// Package audit records remediation outcomes on an EventBridge bus.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Ivnbrylle/Auto-Remediation/internal/remediation"
)

var tracer = otel.Tracer("github.com/Ivnbrylle/Auto-Remediation/internal/audit")

const (
	detailType = "Remediation Outcome"
	source     = "ec2.auto.remediator"
)

// Record is the audit trail entry for one remediation decision.
type Record struct {
	ResourceID string              `json:"resourceId"`
	AlarmName  string              `json:"alarmName"`
	Result     string              `json:"result"`
	Outcome    remediation.Outcome `json:"outcome"`
	Timestamp  time.Time           `json:"timestamp"`
}

// EventBridgeAPI defines the EventBridge operations required for publishing records.
type EventBridgeAPI interface {
	PutEvents(
		ctx context.Context,
		params *eventbridge.PutEventsInput,
		optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher writes outcome records to an event bus.
// Publishing is best-effort; callers log failures and move on.
type Publisher struct {
	client  EventBridgeAPI
	busName string
}

// NewPublisher creates a Publisher for the given event bus.
func NewPublisher(client EventBridgeAPI, busName string) *Publisher {
	return &Publisher{
		client:  client,
		busName: busName,
	}
}

// Publish puts the record on the configured event bus.
func (p *Publisher) Publish(ctx context.Context, record *Record) error {
	ctx, span := tracer.Start(ctx, "audit.publish")
	defer span.End()
	span.SetAttributes(
		attribute.String("resource.id", record.ResourceID),
		attribute.String("result", record.Result),
	)

	detail, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("cannot marshal audit record: %w", err)
	}

	params := &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{{
			Detail:       aws.String(string(detail)),
			DetailType:   aws.String(detailType),
			EventBusName: aws.String(p.busName),
			Source:       aws.String(source),
		}},
	}

	out, err := p.client.PutEvents(ctx, params)
	if err != nil {
		return fmt.Errorf("cannot put event to %q: %w", p.busName, err)
	}

	if out.FailedEntryCount > 0 {
		entry := out.Entries[0]
		return fmt.Errorf("cannot put event to %q: %s - %s",
			p.busName, aws.ToString(entry.ErrorCode), aws.ToString(entry.ErrorMessage))
	}

	return nil
}
