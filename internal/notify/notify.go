// Package notify delivers remediation decision summaries to operators.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.opentelemetry.io/otel"

	"github.com/Ivnbrylle/Auto-Remediation/internal/config"
	"github.com/Ivnbrylle/Auto-Remediation/internal/event"
	"github.com/Ivnbrylle/Auto-Remediation/internal/remediation"
)

var tracer = otel.Tracer("github.com/Ivnbrylle/Auto-Remediation/internal/notify")

// Notification bundles everything a sender needs to describe one decision.
type Notification struct {
	Event   *event.RemediationEvent
	Outcome remediation.Outcome
}

// Notifier delivers a decision summary. Delivery is best-effort: callers log
// failures and never let them change the remediation outcome.
type Notifier interface {
	Notify(ctx context.Context, n *Notification) error
}

// NewNotifier creates the Notifier implementation for the configured target.
// Supported targets: discord, sns.
// Returns an error if the notify target is unknown.
func NewNotifier(awsCfg aws.Config, cfg *config.Config) (Notifier, error) {
	switch cfg.NotifyTarget {
	case config.TargetDiscord:
		return NewDiscordNotifier(cfg), nil

	case config.TargetSNS:
		client := sns.NewFromConfig(awsCfg)
		return NewSNSNotifier(client, cfg), nil

	default:
		return nil, fmt.Errorf("unknown notify target: %s", cfg.NotifyTarget)
	}
}
