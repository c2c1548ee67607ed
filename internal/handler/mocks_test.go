package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Ivnbrylle/Auto-Remediation/internal/audit"
	"github.com/Ivnbrylle/Auto-Remediation/internal/maintenance"
	"github.com/Ivnbrylle/Auto-Remediation/internal/notify"
	"github.com/Ivnbrylle/Auto-Remediation/internal/remediation"
)

// VerifierMock is a mock implementation of the alarm.Verifier interface.
type VerifierMock struct {
	mock.Mock
}

func (m *VerifierMock) StillFiring(ctx context.Context, alarmName string) (bool, error) {
	args := m.Called(ctx, alarmName)
	return args.Bool(0), args.Error(1)
}

// CheckerMock is a mock implementation of the maintenance.Checker interface.
type CheckerMock struct {
	mock.Mock
}

func (m *CheckerMock) Check(ctx context.Context, resourceID string) (*maintenance.Status, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*maintenance.Status), args.Error(1)
}

// DispatcherMock is a mock implementation of the remediation.Dispatcher interface.
type DispatcherMock struct {
	mock.Mock
}

func (m *DispatcherMock) Dispatch(ctx context.Context, resourceID string) (remediation.Outcome, error) {
	args := m.Called(ctx, resourceID)
	return args.Get(0).(remediation.Outcome), args.Error(1)
}

// NotifierMock is a mock implementation of the notify.Notifier interface.
type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Notify(ctx context.Context, n *notify.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// AuditorMock is a mock implementation of the Auditor interface.
type AuditorMock struct {
	mock.Mock
}

func (m *AuditorMock) Publish(ctx context.Context, record *audit.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
