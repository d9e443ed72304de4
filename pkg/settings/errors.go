package settings

import "errors"

var (
	ErrEncode = errors.New("settings: failed to encode value")
	ErrDecode = errors.New("settings: failed to decode value")
	ErrRead   = errors.New("settings: failed to read value")
	ErrWrite  = errors.New("settings: failed to write value")
)
