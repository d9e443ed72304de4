package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/autoses/internal/dispatch"
	"github.com/dmitrymomot/autoses/middlewares"
	"github.com/dmitrymomot/autoses/pkg/logger"
	"github.com/dmitrymomot/autoses/pkg/provider"
)

// ActorHeader carries the address of the admin performing the request.
const ActorHeader = "X-Admin-Email"

// Action names accepted by POST /ses/actions.
const (
	ActionSendTestEmail = "sendtestemail"
	ActionEnable        = "enable"
	ActionDisable       = "disable"
)

const maxBodyBytes = 1 << 16

// Service is the dispatcher surface the handler drives.
type Service interface {
	Status(ctx context.Context, actor string) (*dispatch.Status, error)
	SaveSettings(ctx context.Context, in dispatch.SettingsInput) (dispatch.SettingsResult, error)
	Reset(ctx context.Context) error
	SendTestEmail(ctx context.Context, to string) error
	Enable(ctx context.Context, notify string) error
	Disable(ctx context.Context) error
}

var _ Service = (*dispatch.Dispatcher)(nil)

// HandlerFunc is an http handler that may fail.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handler serves the admin routes.
type Handler struct {
	svc    Service
	logger *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for failed requests.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a Handler for svc.
func New(svc Service, opts ...Option) *Handler {
	h := &Handler{svc: svc, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes registers the admin routes on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/ses", func(r chi.Router) {
		r.Get("/", h.wrap(h.status))
		r.Post("/actions", h.wrap(h.action))
		r.Put("/settings", h.wrap(h.saveSettings))
		r.Delete("/settings", h.wrap(h.reset))
	})
}

// ActionRequest is the body of POST /ses/actions.
type ActionRequest struct {
	Action string `json:"action"`
	Email  string `json:"email,omitempty"`
}

// ActionResponse reports a completed action.
type ActionResponse struct {
	Message string `json:"message"`
	Enabled bool   `json:"enabled"`
}

// SettingsRequest is the body of PUT /ses/settings.
type SettingsRequest struct {
	From        string `json:"from"`
	UseVerified bool   `json:"use_verified"`
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) error {
	st, err := h.svc.Status(r.Context(), actor(r))
	if err != nil {
		return ErrInternal("Could not load SES status.", WithError(err))
	}
	return writeJSON(w, http.StatusOK, st)
}

func (h *Handler) action(w http.ResponseWriter, r *http.Request) error {
	var req ActionRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	ctx := r.Context()
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case ActionSendTestEmail:
		to := strings.TrimSpace(req.Email)
		if to == "" {
			to = actor(r)
		}
		if err := h.svc.SendTestEmail(ctx, to); err != nil {
			return sendError(err, "Test email could not be sent.")
		}
		return writeJSON(w, http.StatusOK, ActionResponse{Message: fmt.Sprintf("Test email sent to %s.", to)})

	case ActionEnable:
		if err := h.svc.Enable(ctx, actor(r)); err != nil {
			return sendError(err, "SES could not be enabled.")
		}
		return writeJSON(w, http.StatusOK, ActionResponse{Message: "SES enabled.", Enabled: true})

	case ActionDisable:
		if err := h.svc.Disable(ctx); err != nil {
			return ErrInternal("SES could not be disabled.", WithError(err))
		}
		return writeJSON(w, http.StatusOK, ActionResponse{Message: "SES disabled."})
	}

	return ErrBadRequest(fmt.Sprintf("Unknown action %q.", req.Action),
		WithErrorCode("unknown_action"), WithError(ErrUnknownAction))
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) error {
	var req SettingsRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	res, err := h.svc.SaveSettings(r.Context(), dispatch.SettingsInput{From: req.From, UseVerified: req.UseVerified})
	if err != nil {
		return ErrInternal("Settings could not be saved.", WithError(err))
	}
	return writeJSON(w, http.StatusOK, res)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) error {
	if err := h.svc.Reset(r.Context()); err != nil {
		return ErrInternal("Settings could not be reset.", WithError(err))
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) wrap(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		httpErr := AsHTTPError(err)
		if httpErr == nil {
			httpErr = ErrInternal(http.StatusText(http.StatusInternalServerError), WithError(err))
		}
		httpErr.RequestID = middlewares.GetRequestID(r.Context())

		level := slog.LevelWarn
		if httpErr.Code >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "admin request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", httpErr.Code),
			slog.Any("error", err),
		)

		_ = writeJSON(w, httpErr.Code, map[string]*HTTPError{"error": httpErr})
	}
}

func sendError(err error, message string) *HTTPError {
	switch {
	case errors.Is(err, dispatch.ErrNoRecipient):
		return ErrUnprocessable("A recipient address is required.", WithErrorCode("no_recipient"), WithError(err))
	case errors.Is(err, dispatch.ErrInvalidAddress):
		return ErrUnprocessable("The recipient doesn't look like an email address.", WithErrorCode("invalid_address"), WithError(err))
	}

	code := provider.ErrorCode(err)
	if code == "" {
		return ErrBadGateway(message, WithErrorCode("send_failed"), WithError(err))
	}
	return ErrBadGateway(message+" "+provider.ErrorMessage(err), WithErrorCode(code), WithError(err))
}

func actor(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(ActorHeader))
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ErrBadRequest("Malformed request body.", WithErrorCode("bad_request"), WithError(err))
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
