package provider

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// API is the subset of the SES API used by this module.
type API interface {
	GetIdentityVerificationAttributes(ctx context.Context, params *ses.GetIdentityVerificationAttributesInput, optFns ...func(*ses.Options)) (*ses.GetIdentityVerificationAttributesOutput, error)
	ListIdentities(ctx context.Context, params *ses.ListIdentitiesInput, optFns ...func(*ses.Options)) (*ses.ListIdentitiesOutput, error)
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// Source hands out the process-wide client.
// Client returns ErrProviderUnavailable when no client could be built.
type Source interface {
	Client(ctx context.Context) (API, error)
	Region(ctx context.Context) string
}

var (
	_ API    = (*ses.Client)(nil)
	_ Source = (*Accessor)(nil)
)
