package provider

import (
	"context"
	"fmt"
)

// Healthcheck returns a closure reporting whether an SES client is available.
// Compatible with health.CheckFunc.
func Healthcheck(src Source) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := src.Client(ctx)
		return err
	}
}

// DashboardURL returns the SES console link for region.
func DashboardURL(region string) string {
	if region == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.console.aws.amazon.com/ses/home?region=%s", region, region)
}
