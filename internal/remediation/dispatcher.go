// Package remediation issues repair commands against failing instances.
package remediation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/Ivnbrylle/Auto-Remediation/internal/remediation")

// Skip reasons recorded on outcomes when no command was dispatched.
const (
	SkipReasonMaintenance  = "maintenance mode"
	SkipReasonLookupFailed = "lookup failed"
	SkipReasonResolved     = "alarm resolved"
)

// Outcome records the result of one remediation decision.
// Attempted is false iff SkipReason is set; CommandID is set only when the
// command was accepted. Succeeded reports acceptance of the command by SSM,
// not actual recovery, which is observed later by the alarm clearing.
type Outcome struct {
	Attempted  bool   `json:"attempted"`
	Succeeded  bool   `json:"succeeded"`
	CommandID  string `json:"commandId,omitempty"`
	SkipReason string `json:"skipReason,omitempty"`
}

// Skipped builds the outcome for a decision that dispatched nothing.
func Skipped(reason string) Outcome {
	return Outcome{SkipReason: reason}
}

// Dispatcher issues a remediation command against a resource.
type Dispatcher interface {
	Dispatch(ctx context.Context, resourceID string) (Outcome, error)
}

// SSMAPI defines the SSM operations required for dispatching commands.
type SSMAPI interface {
	SendCommand(
		ctx context.Context,
		input *ssm.SendCommandInput,
		optFns ...func(*ssm.Options)) (*ssm.SendCommandOutput, error)
}

// CommandDispatcher runs a named SSM document on the target instance.
// Dispatch is fire-and-forget: it confirms the command was accepted for
// execution and nothing more. The documents used here are idempotent, so
// re-running one against an already-healthy instance is harmless.
type CommandDispatcher struct {
	client       SSMAPI
	documentName string
	logger       *slog.Logger
}

// NewCommandDispatcher creates a CommandDispatcher for the given document.
func NewCommandDispatcher(client SSMAPI, documentName string, logger *slog.Logger) *CommandDispatcher {
	return &CommandDispatcher{
		client:       client,
		documentName: documentName,
		logger:       logger,
	}
}

// Dispatch sends the remediation command to the instance.
// A transport or permission failure still yields an Outcome with
// Attempted=true so callers always have something to report.
func (d *CommandDispatcher) Dispatch(ctx context.Context, resourceID string) (Outcome, error) {
	ctx, span := tracer.Start(ctx, "remediation.dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("resource.id", resourceID),
		attribute.String("ssm.document", d.documentName),
	)

	output, err := d.client.SendCommand(ctx, &ssm.SendCommandInput{
		InstanceIds:  []string{resourceID},
		DocumentName: aws.String(d.documentName),
	})
	if err != nil {
		return Outcome{Attempted: true}, fmt.Errorf("cannot send command %q to %q: %w",
			d.documentName, resourceID, err)
	}

	commandID := ""
	if output.Command != nil {
		commandID = aws.ToString(output.Command.CommandId)
	}

	d.logger.InfoContext(ctx, "remediation command accepted",
		slog.String("resourceID", resourceID),
		slog.String("document", d.documentName),
		slog.String("commandID", commandID))

	return Outcome{
		Attempted: true,
		Succeeded: true,
		CommandID: commandID,
	}, nil
}
