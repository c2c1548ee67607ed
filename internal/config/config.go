// Package config loads the remediator's runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/Ivnbrylle/Auto-Remediation/internal/utils/env"
)

// NotifyTarget identifies where decision notifications are delivered.
type NotifyTarget string

const (
	TargetDiscord NotifyTarget = "discord"
	TargetSNS     NotifyTarget = "sns"
)

const (
	defaultMaintenanceTagKey = "Maintenance"
	defaultNotifyUsername    = "Cloud Janitor"
	defaultWebhookTimeout    = 10 * time.Second
)

type Config struct {
	AWSRegion    string
	NotifyTarget NotifyTarget

	// Remediation command issued against the failing instance.
	SSMDocumentName string

	// Instance tag suppressing automated remediation when set to "true".
	MaintenanceTagKey string

	// Re-read the alarm before dispatching to catch already-recovered instances.
	VerifyAlarmState bool

	// Optional event bus receiving remediation outcome records.
	EventBusName string

	DiscordWebhookURL string
	NotifyUsername    string
	WebhookTimeout    time.Duration

	SNSTopicARN string
}

// Load reads configuration from the environment.
// Required values missing at startup fail fast with a descriptive error.
func Load() (*Config, error) {
	region, err := env.GetRequired("AWS_REGION", env.ParseNonEmptyString)
	if err != nil {
		return nil, err
	}

	document, err := env.GetRequired("SSM_DOCUMENT_NAME", env.ParseNonEmptyString)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AWSRegion:         region,
		SSMDocumentName:   document,
		MaintenanceTagKey: env.Get("MAINTENANCE_TAG_KEY", defaultMaintenanceTagKey, env.ParseNonEmptyString),
		VerifyAlarmState:  env.Get("VERIFY_ALARM_STATE", true, env.ParseBool),
		EventBusName:      env.Get("EVENT_BUS_NAME", "", env.ParseString),
		NotifyUsername:    env.Get("NOTIFY_USERNAME", defaultNotifyUsername, env.ParseNonEmptyString),
		WebhookTimeout:    env.Get("WEBHOOK_TIMEOUT", defaultWebhookTimeout, env.ParseDuration),
	}

	target := env.Get("NOTIFY_TARGET", string(TargetDiscord), env.ParseNonEmptyString)

	switch NotifyTarget(target) {
	case TargetDiscord:
		webhookURL, err := env.GetRequired("DISCORD_WEBHOOK_URL", env.ParseHTTPURL)
		if err != nil {
			return nil, err
		}
		cfg.DiscordWebhookURL = webhookURL

	case TargetSNS:
		topicARN, err := env.GetRequired("SNS_TOPIC_ARN", env.ParseNonEmptyString)
		if err != nil {
			return nil, err
		}
		cfg.SNSTopicARN = topicARN

	default:
		return nil, fmt.Errorf("invalid notify target: %s", target)
	}

	cfg.NotifyTarget = NotifyTarget(target)

	return cfg, nil
}
