// Package maintenance decides whether an instance is open for automated remediation.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/Ivnbrylle/Auto-Remediation/internal/maintenance")

// Checker reports whether a resource is flagged for maintenance.
// Callers must treat a returned error as "do not remediate" (fail-closed):
// the tag state is unknown, so acting on it could interfere with an operator.
type Checker interface {
	Check(ctx context.Context, resourceID string) (*Status, error)
}

// Status is the maintenance flag of one resource at decision time.
// It is looked up fresh per invocation and never cached.
type Status struct {
	ResourceID    string
	InMaintenance bool
}

// EC2API defines the EC2 operations required for the maintenance lookup.
type EC2API interface {
	DescribeTags(
		ctx context.Context,
		input *ec2.DescribeTagsInput,
		optFns ...func(*ec2.Options)) (*ec2.DescribeTagsOutput, error)
}

// TagGate checks a maintenance tag on the instance.
// An operator sets the tag to "true" (any case) to suppress remediation.
type TagGate struct {
	client EC2API
	tagKey string
	logger *slog.Logger
}

// NewTagGate creates a TagGate reading the given tag key.
func NewTagGate(client EC2API, tagKey string, logger *slog.Logger) *TagGate {
	return &TagGate{
		client: client,
		tagKey: tagKey,
		logger: logger,
	}
}

// Check looks up the maintenance tag on the resource.
// Returns an error when the tag query fails; resources without the tag are
// reported as not in maintenance.
func (g *TagGate) Check(ctx context.Context, resourceID string) (*Status, error) {
	ctx, span := tracer.Start(ctx, "maintenance.check")
	defer span.End()
	span.SetAttributes(attribute.String("resource.id", resourceID))

	output, err := g.client.DescribeTags(ctx, &ec2.DescribeTagsInput{
		Filters: []types.Filter{{
			Name:   aws.String("resource-id"),
			Values: []string{resourceID},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("cannot describe tags for %q: %w", resourceID, err)
	}

	status := &Status{ResourceID: resourceID}

	for _, tag := range output.Tags {
		if aws.ToString(tag.Key) != g.tagKey {
			continue
		}

		status.InMaintenance = strings.EqualFold(aws.ToString(tag.Value), "true")
		break
	}

	g.logger.InfoContext(ctx, "maintenance flag resolved",
		slog.String("resourceID", resourceID),
		slog.Bool("inMaintenance", status.InMaintenance))

	return status, nil
}
