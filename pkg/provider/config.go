package provider

// Config holds SES client settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// Region skips instance identity discovery when set.
	Region string `env:"AWS_SES_REGION"`

	// Static credentials. When empty the default AWS credential chain is used.
	AccessKey string `env:"AWS_SES_ACCESS_KEY_ID"`
	SecretKey string `env:"AWS_SES_SECRET_ACCESS_KEY"`

	// Endpoint overrides the SES endpoint (localstack and similar).
	Endpoint string `env:"AWS_SES_ENDPOINT"`

	// DocumentPath is where the instance identity document is cached.
	// Default: $TMPDIR/ec2-instance-identity-document.json
	DocumentPath string `env:"AWS_SES_IDENTITY_DOCUMENT_PATH"`
}
