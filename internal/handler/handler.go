// Package handler sequences one remediation decision per alarm event.
package handler

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/Ivnbrylle/Auto-Remediation/internal/alarm"
	"github.com/Ivnbrylle/Auto-Remediation/internal/audit"
	"github.com/Ivnbrylle/Auto-Remediation/internal/event"
	"github.com/Ivnbrylle/Auto-Remediation/internal/maintenance"
	"github.com/Ivnbrylle/Auto-Remediation/internal/notify"
	"github.com/Ivnbrylle/Auto-Remediation/internal/remediation"
)

// Result is the terminal state of one invocation.
type Result string

const (
	ResultRejected           Result = "rejected"
	ResultIgnored            Result = "ignored"
	ResultSkippedError       Result = "skipped_error"
	ResultSkippedMaintenance Result = "skipped_maintenance"
	ResultSkippedResolved    Result = "skipped_resolved"
	ResultRemediated         Result = "remediated"
	ResultDispatchFailed     Result = "dispatch_failed"
)

// Response is returned to the invoking platform.
type Response struct {
	Status Result `json:"status"`
}

// Auditor records the final outcome of an invocation.
type Auditor interface {
	Publish(ctx context.Context, record *audit.Record) error
}

// EventHandler decides whether an alarm event warrants remediation and
// reports what it did. Each invocation is independent; re-running the same
// event is safe because the dispatched procedure is idempotent.
type EventHandler struct {
	verifier   alarm.Verifier
	gate       maintenance.Checker
	dispatcher remediation.Dispatcher
	notifier   notify.Notifier
	auditor    Auditor
	logger     *slog.Logger
}

// NewEventHandler wires the decision pipeline.
// verifier and auditor are optional; pass nil to disable alarm re-checking
// and outcome publishing respectively.
func NewEventHandler(
	verifier alarm.Verifier,
	gate maintenance.Checker,
	dispatcher remediation.Dispatcher,
	notifier notify.Notifier,
	auditor Auditor,
	logger *slog.Logger,
) *EventHandler {
	return &EventHandler{
		verifier:   verifier,
		gate:       gate,
		dispatcher: dispatcher,
		notifier:   notifier,
		auditor:    auditor,
		logger:     logger,
	}
}

// HandleRequest runs the decision state machine for one event.
// Only a malformed payload returns a non-nil error; every other path resolves
// to a terminal status with exactly one notification attempt, so at-least-once
// redelivery of handled events does not repeat side effects needlessly.
func (h *EventHandler) HandleRequest(ctx context.Context, e events.CloudWatchEvent) (Response, error) {
	ev, err := event.Decode(e)
	if err != nil {
		h.logger.ErrorContext(ctx, "cannot decode alarm event",
			slog.String("error", err.Error()))
		return Response{Status: ResultRejected}, err
	}

	if ev.NewState != event.StateAlarm {
		h.logger.InfoContext(ctx, "ignoring non-ALARM state change",
			slog.String("alarmName", ev.AlarmName),
			slog.String("state", string(ev.NewState)))
		return Response{Status: ResultIgnored}, nil
	}

	if h.verifier != nil {
		firing, err := h.verifier.StillFiring(ctx, ev.AlarmName)
		switch {
		case err != nil:
			// The triggering event already said ALARM; verification only
			// suppresses action on positive evidence of recovery.
			h.logger.WarnContext(ctx, "cannot verify alarm state, proceeding",
				slog.String("alarmName", ev.AlarmName),
				slog.String("error", err.Error()))
		case !firing:
			return h.conclude(ctx, ev,
				remediation.Skipped(remediation.SkipReasonResolved), ResultSkippedResolved), nil
		}
	}

	status, err := h.gate.Check(ctx, ev.ResourceID)
	if err != nil {
		// Fail closed: unknown maintenance state means do not act.
		h.logger.ErrorContext(ctx, "maintenance lookup failed, skipping remediation",
			slog.String("resourceID", ev.ResourceID),
			slog.String("error", err.Error()))
		return h.conclude(ctx, ev,
			remediation.Skipped(remediation.SkipReasonLookupFailed), ResultSkippedError), nil
	}

	if status.InMaintenance {
		h.logger.InfoContext(ctx, "maintenance mode set, skipping remediation",
			slog.String("resourceID", ev.ResourceID))
		return h.conclude(ctx, ev,
			remediation.Skipped(remediation.SkipReasonMaintenance), ResultSkippedMaintenance), nil
	}

	outcome, err := h.dispatcher.Dispatch(ctx, ev.ResourceID)
	result := ResultRemediated
	if err != nil {
		result = ResultDispatchFailed
		h.logger.ErrorContext(ctx, "cannot dispatch remediation",
			slog.String("resourceID", ev.ResourceID),
			slog.String("error", err.Error()))
	}

	return h.conclude(ctx, ev, outcome, result), nil
}

// conclude reports the terminal outcome: one best-effort notification and,
// when configured, one best-effort audit record. Neither can fail the invocation.
func (h *EventHandler) conclude(
	ctx context.Context,
	ev *event.RemediationEvent,
	outcome remediation.Outcome,
	result Result,
) Response {
	if err := h.notifier.Notify(ctx, &notify.Notification{Event: ev, Outcome: outcome}); err != nil {
		h.logger.ErrorContext(ctx, "cannot send notification",
			slog.String("resourceID", ev.ResourceID),
			slog.String("error", err.Error()))
	}

	if h.auditor != nil {
		record := &audit.Record{
			ResourceID: ev.ResourceID,
			AlarmName:  ev.AlarmName,
			Result:     string(result),
			Outcome:    outcome,
			Timestamp:  ev.Timestamp,
		}
		if err := h.auditor.Publish(ctx, record); err != nil {
			h.logger.ErrorContext(ctx, "cannot publish audit record",
				slog.String("resourceID", ev.ResourceID),
				slog.String("error", err.Error()))
		}
	}

	h.logger.InfoContext(ctx, "invocation finished",
		slog.String("resourceID", ev.ResourceID),
		slog.String("alarmName", ev.AlarmName),
		slog.String("result", string(result)),
		slog.Bool("attempted", outcome.Attempted))

	return Response{Status: result}
}
