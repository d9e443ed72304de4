package settings_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/autoses/pkg/settings"
)

// runStoreContract exercises behaviour every backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) settings.Store) {
	t.Helper()

	t.Run("defaults when nothing is persisted", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		opts, err := s.Options(ctx)
		require.NoError(t, err)
		require.Equal(t, settings.Options{}, opts)

		enabled, err := s.Enabled(ctx)
		require.NoError(t, err)
		require.False(t, enabled)
	})

	t.Run("round trips options and flag", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		want := settings.Options{From: "noreply@example.com", UseVerified: true}
		require.NoError(t, s.SaveOptions(ctx, want))
		require.NoError(t, s.SetEnabled(ctx, true))

		got, err := s.Options(ctx)
		require.NoError(t, err)
		require.Equal(t, want, got)

		enabled, err := s.Enabled(ctx)
		require.NoError(t, err)
		require.True(t, enabled)

		require.NoError(t, s.SetEnabled(ctx, false))
		enabled, err = s.Enabled(ctx)
		require.NoError(t, err)
		require.False(t, enabled)
	})

	t.Run("reset restores defaults", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.SaveOptions(ctx, settings.Options{From: "a@example.com"}))
		require.NoError(t, s.SetEnabled(ctx, true))
		require.NoError(t, s.Reset(ctx))

		opts, err := s.Options(ctx)
		require.NoError(t, err)
		require.Equal(t, settings.Options{}, opts)

		enabled, err := s.Enabled(ctx)
		require.NoError(t, err)
		require.False(t, enabled)
	})
}

func TestMemory(t *testing.T) {
	t.Parallel()

	runStoreContract(t, func(*testing.T) settings.Store {
		return settings.NewMemory()
	})
}

func TestRedis(t *testing.T) {
	t.Parallel()

	runStoreContract(t, func(t *testing.T) settings.Store {
		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return settings.NewRedis(client, "")
	})
}

func TestRedis_PersistedFormat(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := settings.NewRedis(client, "site1")
	ctx := context.Background()

	require.NoError(t, s.SaveOptions(ctx, settings.Options{From: "noreply@example.com", UseVerified: true}))
	require.NoError(t, s.SetEnabled(ctx, true))

	raw, err := mr.Get("site1:aws_auto_ses_options")
	require.NoError(t, err)
	require.JSONEq(t, `{"from":"noreply@example.com","use_verified":true}`, raw)

	raw, err = mr.Get("site1:aws_auto_ses_enabled")
	require.NoError(t, err)
	require.Equal(t, "true", raw)

	require.NoError(t, mr.Set("site1:aws_auto_ses_options", `{"from":null,"use_verified":false}`))
	opts, err := s.Options(ctx)
	require.NoError(t, err)
	require.Equal(t, settings.Options{}, opts)
}

func TestRedis_CorruptValue(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set("aws_auto_ses_enabled", "maybe"))

	_, err := settings.NewRedis(client, "").Enabled(context.Background())
	require.ErrorIs(t, err, settings.ErrDecode)
}
