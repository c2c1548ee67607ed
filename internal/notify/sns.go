package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Ivnbrylle/Auto-Remediation/internal/config"
)

// SNSAPI defines required SNS operations.
type SNSAPI interface {
	Publish(
		ctx context.Context,
		input *sns.PublishInput,
		optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes decision summaries to an SNS topic.
type SNSNotifier struct {
	client    SNSAPI
	topicARN  string
	region    string
	procedure string
}

// NewSNSNotifier creates an SNSNotifier from the loaded configuration.
func NewSNSNotifier(client SNSAPI, cfg *config.Config) *SNSNotifier {
	return &SNSNotifier{
		client:    client,
		topicARN:  cfg.SNSTopicARN,
		region:    cfg.AWSRegion,
		procedure: cfg.SSMDocumentName,
	}
}

// Notify publishes the decision summary as a plain-text message.
func (s *SNSNotifier) Notify(ctx context.Context, n *Notification) error {
	ctx, span := tracer.Start(ctx, "notify.sns")
	defer span.End()
	span.SetAttributes(
		attribute.String("resource.id", n.Event.ResourceID),
		attribute.String("alarm.name", n.Event.AlarmName),
	)

	summary := Summarize(n, s.procedure)

	message := fmt.Sprintf("%s\n\n%s\n\nInstance: %s\nRegion: %s\nAlarm: %s\n",
		summary.Title,
		summary.Description,
		n.Event.ResourceID,
		s.region,
		n.Event.AlarmName)

	input := &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Subject:  aws.String("Auto-Remediation - " + n.Event.AlarmName),
		Message:  aws.String(message),
	}

	if _, err := s.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("cannot publish to %q: %w", s.topicARN, err)
	}

	return nil
}
