package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/autoses/internal/config"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(map[string]string{"AUTOSES_ADMIN_EMAIL": "admin@site.test"})
	require.NoError(t, err)

	require.Equal(t, "admin@site.test", cfg.Dispatch.AdminEmail)
	require.Equal(t, int32(15), cfg.Dispatch.IdentitiesLimit)
	require.Equal(t, ":8080", cfg.Server.Address)
	require.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	require.Equal(t, config.TransportSMTP, cfg.Transport)
	require.Equal(t, config.BackendMemory, cfg.Store)
	require.Equal(t, config.BackendMemory, cfg.Cache)
	require.Equal(t, 7*24*time.Hour, cfg.VerificationTTL)
	require.Equal(t, "localhost", cfg.Mailer.Hostname)
	require.Equal(t, "none", cfg.SMTP.TLS)
	require.False(t, cfg.UsesRedis())
}

func TestParse_Backends(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(map[string]string{
		"AUTOSES_ADMIN_EMAIL": "admin@site.test",
		"AUTOSES_STORE":       "postgres",
		"AUTOSES_CACHE":       "redis",
		"AUTOSES_TRANSPORT":   "resend",
		"DATABASE_CONN_URL":   "postgres://localhost/autoses",
		"REDIS_URL":           "redis://localhost:6379/0",
		"RESEND_API_KEY":      "re_123",
		"MAILER_SINGLE_TO":    "true",
		"AWS_SES_REGION":      "eu-central-1",
	})
	require.NoError(t, err)

	require.True(t, cfg.UsesRedis())
	require.True(t, cfg.Mailer.SingleTo)
	require.Equal(t, "eu-central-1", cfg.Provider.Region)
	require.Equal(t, "autoses", cfg.Redis.Prefix)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		environ map[string]string
	}{
		{
			name:    "missing admin email",
			environ: map[string]string{},
		},
		{
			name:    "unknown store",
			environ: map[string]string{"AUTOSES_ADMIN_EMAIL": "a@b.c", "AUTOSES_STORE": "sqlite"},
		},
		{
			name:    "redis store without url",
			environ: map[string]string{"AUTOSES_ADMIN_EMAIL": "a@b.c", "AUTOSES_STORE": "redis"},
		},
		{
			name:    "postgres store without dsn",
			environ: map[string]string{"AUTOSES_ADMIN_EMAIL": "a@b.c", "AUTOSES_STORE": "postgres"},
		},
		{
			name:    "resend without key",
			environ: map[string]string{"AUTOSES_ADMIN_EMAIL": "a@b.c", "AUTOSES_TRANSPORT": "resend"},
		},
		{
			name:    "unknown cache",
			environ: map[string]string{"AUTOSES_ADMIN_EMAIL": "a@b.c", "AUTOSES_CACHE": "disk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.Parse(tt.environ)
			require.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	t.Setenv("AUTOSES_ADMIN_EMAIL", "")
	require.NoError(t, os.Unsetenv("AUTOSES_ADMIN_EMAIL"))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("AUTOSES_ADMIN_EMAIL=dotenv@site.test\n"), 0o600))

	cfg, err := config.Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "dotenv@site.test", cfg.Dispatch.AdminEmail)
}
