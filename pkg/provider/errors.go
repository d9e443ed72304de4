package provider

import (
	"errors"

	"github.com/aws/smithy-go"
)

// Sentinel errors for provider operations.
var (
	// ErrProviderUnavailable is returned when no client handle exists for this process.
	ErrProviderUnavailable = errors.New("provider: ses client unavailable")

	// Region discovery errors.
	ErrDiscoveryFailed = errors.New("provider: region discovery failed")
	ErrInvalidDocument = errors.New("provider: malformed instance identity document")
	ErrNoRegion        = errors.New("provider: instance identity document has no region")

	// ErrLookupFailed is returned when an identity lookup call fails.
	ErrLookupFailed = errors.New("provider: identity lookup failed")

	// ErrAuthorization is returned when the credentials lack permission for a call.
	ErrAuthorization = errors.New("provider: not authorized")

	// ErrSendRejected is returned when the raw send call fails.
	ErrSendRejected = errors.New("provider: raw message rejected")
)

// Classify wraps an SES error with fallback and, for permission failures,
// with ErrAuthorization. The original error stays in the chain so
// ErrorCode and ErrorMessage keep working.
func Classify(err, fallback error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException":
			return errors.Join(fallback, ErrAuthorization, err)
		}
	}

	return errors.Join(fallback, err)
}

// IsAuthorization reports whether err is a permission failure.
func IsAuthorization(err error) bool {
	if errors.Is(err, ErrAuthorization) {
		return true
	}
	return ErrorCode(err) == "AccessDenied"
}

// ErrorCode returns the provider error code, or "" for non-API errors.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// ErrorMessage returns the provider error message, falling back to err.Error().
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorMessage() != "" {
		return apiErr.ErrorMessage()
	}
	return err.Error()
}
