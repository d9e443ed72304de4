// Package provider gives the rest of the module a region-bound Amazon SES client.
//
// [Accessor] builds the client once per process. The region comes from
// [Config.Region] when set, otherwise from the EC2 instance identity
// document (see [DocumentCache]), which is cached as JSON in the system
// temp directory so later processes skip the metadata call. If the region
// cannot be determined the accessor stays Absent for the rest of the
// process and every call returns [ErrProviderUnavailable]:
//
//	acc := provider.NewAccessor(cfg, provider.WithLogger(log))
//	client, err := acc.Client(ctx)
//	if errors.Is(err, provider.ErrProviderUnavailable) {
//	    // degrade: no raw sends, no verification lookups
//	}
//
// # Errors
//
// [Classify] maps SDK errors onto the package sentinels. Permission
// failures ("AccessDenied") become [ErrAuthorization] so the admin surface
// can ask the operator for the missing IAM grant; [ErrorCode] and
// [ErrorMessage] expose the provider's code and text.
package provider
