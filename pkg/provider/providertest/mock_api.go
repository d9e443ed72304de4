// Package providertest provides test doubles for the provider package.
package providertest

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/autoses/pkg/provider"
)

// MockAPI is a testify mock of provider.API.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) GetIdentityVerificationAttributes(ctx context.Context, params *ses.GetIdentityVerificationAttributesInput, _ ...func(*ses.Options)) (*ses.GetIdentityVerificationAttributesOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*ses.GetIdentityVerificationAttributesOutput)
	return out, args.Error(1)
}

func (m *MockAPI) ListIdentities(ctx context.Context, params *ses.ListIdentitiesInput, _ ...func(*ses.Options)) (*ses.ListIdentitiesOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*ses.ListIdentitiesOutput)
	return out, args.Error(1)
}

func (m *MockAPI) SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, _ ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*ses.SendRawEmailOutput)
	return out, args.Error(1)
}

var _ provider.API = (*MockAPI)(nil)

// Statuses builds a GetIdentityVerificationAttributes response from
// identity -> status pairs.
func Statuses(pairs map[string]types.VerificationStatus) *ses.GetIdentityVerificationAttributesOutput {
	attrs := make(map[string]types.IdentityVerificationAttributes, len(pairs))
	for identity, status := range pairs {
		attrs[identity] = types.IdentityVerificationAttributes{VerificationStatus: status}
	}
	return &ses.GetIdentityVerificationAttributesOutput{VerificationAttributes: attrs}
}

// AccessDenied returns the error SES produces for a missing IAM grant.
func AccessDenied(action string) error {
	return &smithy.GenericAPIError{
		Code:    "AccessDenied",
		Message: "User is not authorized to perform ses:" + action,
		Fault:   smithy.FaultClient,
	}
}
