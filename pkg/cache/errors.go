package cache

import "errors"

var (
	ErrNotFound  = errors.New("cache: miss")
	ErrClosed    = errors.New("cache: use of closed cache")
	ErrMarshal   = errors.New("cache: encode value")
	ErrUnmarshal = errors.New("cache: decode value")
)
