package admin_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/autoses/internal/admin"
	"github.com/dmitrymomot/autoses/internal/dispatch"
	"github.com/dmitrymomot/autoses/pkg/mailer"
	"github.com/dmitrymomot/autoses/pkg/provider"
	"github.com/dmitrymomot/autoses/pkg/provider/providertest"
	"github.com/dmitrymomot/autoses/pkg/settings"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Status(ctx context.Context, actor string) (*dispatch.Status, error) {
	args := m.Called(ctx, actor)
	st, _ := args.Get(0).(*dispatch.Status)
	return st, args.Error(1)
}

func (m *mockService) SaveSettings(ctx context.Context, in dispatch.SettingsInput) (dispatch.SettingsResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(dispatch.SettingsResult), args.Error(1)
}

func (m *mockService) Reset(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockService) SendTestEmail(ctx context.Context, to string) error {
	return m.Called(ctx, to).Error(0)
}

func (m *mockService) Enable(ctx context.Context, notify string) error {
	return m.Called(ctx, notify).Error(0)
}

func (m *mockService) Disable(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newServer(svc admin.Service) http.Handler {
	r := chi.NewRouter()
	admin.New(svc).Routes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(admin.ActorHeader, "me@site.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHandler_Status(t *testing.T) {
	t.Parallel()

	svc := &mockService{}
	svc.On("Status", mock.Anything, "me@site.test").Return(&dispatch.Status{
		Available: true,
		Region:    "eu-west-1",
		Settings:  settings.Options{From: "noreply@example.com"},
		CanEnable: true,
	}, nil).Once()

	rec := do(t, newServer(svc), http.MethodGet, "/ses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, true, body["available"])
	require.Equal(t, "eu-west-1", body["region"])
	require.Equal(t, true, body["can_enable"])
	require.Equal(t, map[string]any{"from": "noreply@example.com", "use_verified": false}, body["settings"])
	svc.AssertExpectations(t)
}

func TestHandler_Status_Failure(t *testing.T) {
	t.Parallel()

	svc := &mockService{}
	svc.On("Status", mock.Anything, "me@site.test").Return(nil, errors.New("redis down")).Once()

	rec := do(t, newServer(svc), http.MethodGet, "/ses", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Could not load SES status.", decodeError(t, rec).Error.Message)
}

func TestHandler_Actions(t *testing.T) {
	t.Parallel()

	t.Run("send test email to given address", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{}
		svc.On("SendTestEmail", mock.Anything, "qa@site.test").Return(nil).Once()

		rec := do(t, newServer(svc), http.MethodPost, "/ses/actions", `{"action":"sendtestemail","email":"qa@site.test"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body admin.ActionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Equal(t, "Test email sent to qa@site.test.", body.Message)
		svc.AssertExpectations(t)
	})

	t.Run("send test email defaults to actor", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{}
		svc.On("SendTestEmail", mock.Anything, "me@site.test").Return(nil).Once()

		rec := do(t, newServer(svc), http.MethodPost, "/ses/actions", `{"action":"sendtestemail"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("invalid recipient", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{}
		svc.On("SendTestEmail", mock.Anything, "nope").Return(dispatch.ErrInvalidAddress).Once()

		rec := do(t, newServer(svc), http.MethodPost, "/ses/actions", `{"action":"sendtestemail","email":"nope"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Equal(t, "invalid_address", decodeError(t, rec).Error.Code)
	})

	t.Run("enable notifies actor", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{}
		svc.On("Enable", mock.Anything, "me@site.test").Return(nil).Once()

		rec := do(t, newServer(svc), http.MethodPost, "/ses/actions", `{"action":"enable"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body admin.ActionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.True(t, body.Enabled)
		svc.AssertExpectations(t)
	})

	t.Run("enable rejected by provider", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{}
		err := errors.Join(dispatch.ErrEnableFailed, mailer.ErrSendFailed,
			provider.Classify(providertest.AccessDenied("SendRawEmail"), provider.ErrSendRejected))
		svc.On("Enable", mock.Anything, "me@site.test").Return(err).Once()

		rec := do(t, newServer(svc), http.MethodPost, "/ses/actions", `{"action":"enable"}`)
		require.Equal(t, http.StatusBadGateway, rec.Code)

		body := decodeError(t, rec)
		require.Equal(t, "AccessDenied", body.Error.Code)
		require.Equal(t, "SES could not be enabled. User is not authorized to perform ses:SendRawEmail", body.Error.Message)
	})

	t.Run("disable", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{}
		svc.On("Disable", mock.Anything).Return(nil).Once()

		rec := do(t, newServer(svc), http.MethodPost, "/ses/actions", `{"action":"disable"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown action", func(t *testing.T) {
		t.Parallel()

		rec := do(t, newServer(&mockService{}), http.MethodPost, "/ses/actions", `{"action":"explode"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "unknown_action", decodeError(t, rec).Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		rec := do(t, newServer(&mockService{}), http.MethodPost, "/ses/actions", `{"action":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "bad_request", decodeError(t, rec).Error.Code)
	})
}

func TestHandler_Settings(t *testing.T) {
	t.Parallel()

	t.Run("save", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{}
		svc.On("SaveSettings", mock.Anything, dispatch.SettingsInput{From: "bad", UseVerified: true}).
			Return(dispatch.SettingsResult{
				Options: settings.Options{UseVerified: true},
				Notices: []dispatch.Notice{{Field: "from", Message: `"bad" doesn't look like an email address.`}},
			}, nil).Once()

		rec := do(t, newServer(svc), http.MethodPut, "/ses/settings", `{"from":"bad","use_verified":true}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body dispatch.SettingsResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.True(t, body.Options.UseVerified)
		require.Len(t, body.Notices, 1)
		svc.AssertExpectations(t)
	})

	t.Run("reset", func(t *testing.T) {
		t.Parallel()

		svc := &mockService{}
		svc.On("Reset", mock.Anything).Return(nil).Once()

		rec := do(t, newServer(svc), http.MethodDelete, "/ses/settings", "")
		require.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})
}
