// Package server runs the HTTP server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/autoses/pkg/logger"
)

// Default server timeouts.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// Config holds the HTTP server settings.
type Config struct {
	Address         string        `env:"SERVER_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Hook runs during startup or shutdown.
type Hook func(context.Context) error

type options struct {
	logger        *slog.Logger
	startupHooks  []Hook
	shutdownHooks []Hook
	onListen      func(net.Addr)
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStartupHook registers fn to run before the server accepts requests.
// A failing startup hook aborts Run.
func WithStartupHook(fn Hook) Option {
	return func(o *options) {
		if fn != nil {
			o.startupHooks = append(o.startupHooks, fn)
		}
	}
}

// WithShutdownHook registers fn to run after the server stops.
// Hooks run in registration order with the shutdown timeout applied.
func WithShutdownHook(fn Hook) Option {
	return func(o *options) {
		if fn != nil {
			o.shutdownHooks = append(o.shutdownHooks, fn)
		}
	}
}

// WithListenCallback is called with the bound address once listening.
func WithListenCallback(fn func(net.Addr)) Option {
	return func(o *options) {
		o.onListen = fn
	}
}

// Run serves handler until ctx is done or SIGINT/SIGTERM arrives, then
// shuts down gracefully.
func Run(ctx context.Context, cfg Config, handler http.Handler, opts ...Option) error {
	o := &options{logger: logger.NewNope()}
	for _, opt := range opts {
		opt(o)
	}
	if cfg.Address == "" {
		cfg.Address = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	server := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, hook := range o.startupHooks {
		if err := hook(ctx); err != nil {
			return err
		}
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}
	if o.onListen != nil {
		o.onListen(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		o.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	o.logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	var errs []error

	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	for _, hook := range o.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			o.logger.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		o.logger.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}

	o.logger.Info("shutdown completed")
	return nil
}
