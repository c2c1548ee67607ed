// Package alarm re-checks CloudWatch alarm state at decision time.
package alarm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/Ivnbrylle/Auto-Remediation/internal/alarm")

// Verifier reports whether an alarm is still firing.
// Events are delivered at least once and may be stale; verifying against the
// live alarm state avoids restarting a service that already recovered.
type Verifier interface {
	// StillFiring returns true when the alarm is currently in ALARM state.
	StillFiring(ctx context.Context, alarmName string) (bool, error)
}

// CloudWatchAPI defines the CloudWatch operations required for verification.
type CloudWatchAPI interface {
	DescribeAlarms(
		ctx context.Context,
		input *cloudwatch.DescribeAlarmsInput,
		optFns ...func(*cloudwatch.Options)) (*cloudwatch.DescribeAlarmsOutput, error)
}

// StateVerifier implements Verifier against the CloudWatch API.
type StateVerifier struct {
	cw     CloudWatchAPI
	logger *slog.Logger
}

// NewStateVerifier creates a new StateVerifier instance.
func NewStateVerifier(cw CloudWatchAPI, logger *slog.Logger) *StateVerifier {
	return &StateVerifier{
		cw:     cw,
		logger: logger,
	}
}

// StillFiring re-reads the alarm and reports whether it remains in ALARM state.
func (v *StateVerifier) StillFiring(ctx context.Context, alarmName string) (bool, error) {
	ctx, span := tracer.Start(ctx, "alarm.verify")
	defer span.End()
	span.SetAttributes(attribute.String("alarm.name", alarmName))

	output, err := v.cw.DescribeAlarms(ctx, &cloudwatch.DescribeAlarmsInput{
		AlarmNames: []string{alarmName},
		MaxRecords: aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("cannot describe alarm %q: %w", alarmName, err)
	}

	if len(output.MetricAlarms) == 0 {
		return false, fmt.Errorf("alarm %q not found", alarmName)
	}

	state := output.MetricAlarms[0].StateValue
	if state != types.StateValueAlarm {
		v.logger.InfoContext(ctx, "alarm no longer firing",
			slog.String("alarmName", alarmName),
			slog.String("state", string(state)))
		return false, nil
	}

	return true, nil
}
