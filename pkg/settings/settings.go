package settings

import (
	"context"
	"encoding/json"
	"errors"
)

// Option names under which values are persisted.
const (
	OptionsKey = "aws_auto_ses_options"
	EnabledKey = "aws_auto_ses_enabled"
)

// Options is the persisted sender configuration.
type Options struct {
	// From is the default sender. Empty means unset; the fallback admin address is used.
	From string `json:"from,omitempty"`

	// UseVerified keeps the requested From address when it is verified with SES.
	UseVerified bool `json:"use_verified"`
}

// Store reads and writes persisted settings.
// Missing values read as their defaults, never as errors.
type Store interface {
	Options(ctx context.Context) (Options, error)
	SaveOptions(ctx context.Context, opts Options) error
	Enabled(ctx context.Context) (bool, error)
	SetEnabled(ctx context.Context, enabled bool) error

	// Reset returns both values to their defaults.
	Reset(ctx context.Context) error
}

func encodeOptions(opts Options) ([]byte, error) {
	data, err := json.Marshal(opts)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return data, nil
}

func decodeOptions(data []byte) (Options, error) {
	var opts Options
	if len(data) == 0 || string(data) == "null" {
		return opts, nil
	}
	if err := json.Unmarshal(data, &opts); err != nil {
		return Options{}, errors.Join(ErrDecode, err)
	}
	return opts, nil
}
