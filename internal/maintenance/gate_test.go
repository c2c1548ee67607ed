package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupGate(t *testing.T) (*EC2APIMock, *TagGate) {
	t.Helper()

	mockEC2 := new(EC2APIMock)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return mockEC2, NewTagGate(mockEC2, "Maintenance", logger)
}

func newDescribeTagsInput(resourceID string) *ec2.DescribeTagsInput {
	return &ec2.DescribeTagsInput{
		Filters: []types.Filter{{
			Name:   aws.String("resource-id"),
			Values: []string{resourceID},
		}},
	}
}

func newTag(key, value string) types.TagDescription {
	return types.TagDescription{
		Key:   aws.String(key),
		Value: aws.String(value),
	}
}

func TestCheck_MaintenanceTagTrue(t *testing.T) {
	mockEC2, gate := setupGate(t)

	mockEC2.On("DescribeTags",
		mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil }),
		newDescribeTagsInput("i-123"),
		mock.AnythingOfType("[]func(*ec2.Options)"),
	).Return(&ec2.DescribeTagsOutput{
		Tags: []types.TagDescription{
			newTag("Name", "web-server"),
			newTag("Maintenance", "true"),
		},
	}, nil).Once()

	status, err := gate.Check(context.Background(), "i-123")
	require.NoError(t, err)
	assert.Equal(t, "i-123", status.ResourceID)
	assert.True(t, status.InMaintenance)
	mockEC2.AssertExpectations(t)
}

func TestCheck_MaintenanceTagCaseInsensitive(t *testing.T) {
	mockEC2, gate := setupGate(t)

	mockEC2.On("DescribeTags",
		mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil }),
		newDescribeTagsInput("i-123"),
		mock.AnythingOfType("[]func(*ec2.Options)"),
	).Return(&ec2.DescribeTagsOutput{
		Tags: []types.TagDescription{newTag("Maintenance", "True")},
	}, nil).Once()

	status, err := gate.Check(context.Background(), "i-123")
	require.NoError(t, err)
	assert.True(t, status.InMaintenance)
	mockEC2.AssertExpectations(t)
}

func TestCheck_MaintenanceTagFalse(t *testing.T) {
	mockEC2, gate := setupGate(t)

	mockEC2.On("DescribeTags",
		mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil }),
		newDescribeTagsInput("i-123"),
		mock.AnythingOfType("[]func(*ec2.Options)"),
	).Return(&ec2.DescribeTagsOutput{
		Tags: []types.TagDescription{newTag("Maintenance", "false")},
	}, nil).Once()

	status, err := gate.Check(context.Background(), "i-123")
	require.NoError(t, err)
	assert.False(t, status.InMaintenance)
	mockEC2.AssertExpectations(t)
}

func TestCheck_NoMaintenanceTag(t *testing.T) {
	mockEC2, gate := setupGate(t)

	mockEC2.On("DescribeTags",
		mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil }),
		newDescribeTagsInput("i-123"),
		mock.AnythingOfType("[]func(*ec2.Options)"),
	).Return(&ec2.DescribeTagsOutput{
		Tags: []types.TagDescription{newTag("Name", "web-server")},
	}, nil).Once()

	status, err := gate.Check(context.Background(), "i-123")
	require.NoError(t, err)
	assert.False(t, status.InMaintenance)
	mockEC2.AssertExpectations(t)
}

func TestCheck_CustomTagKey(t *testing.T) {
	mockEC2 := new(EC2APIMock)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gate := NewTagGate(mockEC2, "NoTouch", logger)

	mockEC2.On("DescribeTags",
		mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil }),
		newDescribeTagsInput("i-123"),
		mock.AnythingOfType("[]func(*ec2.Options)"),
	).Return(&ec2.DescribeTagsOutput{
		Tags: []types.TagDescription{
			newTag("Maintenance", "true"),
			newTag("NoTouch", "false"),
		},
	}, nil).Once()

	status, err := gate.Check(context.Background(), "i-123")
	require.NoError(t, err)
	assert.False(t, status.InMaintenance, "only the configured key decides")
	mockEC2.AssertExpectations(t)
}

func TestCheck_LookupError(t *testing.T) {
	mockEC2, gate := setupGate(t)
	expectedError := errors.New("UnauthorizedOperation")

	mockEC2.On("DescribeTags",
		mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil }),
		newDescribeTagsInput("i-123"),
		mock.AnythingOfType("[]func(*ec2.Options)"),
	).Return((*ec2.DescribeTagsOutput)(nil), expectedError).Once()

	status, err := gate.Check(context.Background(), "i-123")
	require.Error(t, err)
	require.Nil(t, status)
	assert.Contains(t, err.Error(), expectedError.Error())
	mockEC2.AssertExpectations(t)
}
