package remediation

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/stretchr/testify/mock"
)

// SSMAPIMock is a mock implementation of the SSMAPI interface.
type SSMAPIMock struct {
	mock.Mock
}

func (m *SSMAPIMock) SendCommand(ctx context.Context, params *ssm.SendCommandInput, optFns ...func(*ssm.Options)) (*ssm.SendCommandOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ssm.SendCommandOutput), args.Error(1)
}
