package smtp

import "errors"

var (
	ErrDial        = errors.New("smtp: failed to connect")
	ErrAuth        = errors.New("smtp: authentication failed")
	ErrDelivery    = errors.New("smtp: delivery failed")
	ErrInvalidMode = errors.New("smtp: unknown tls mode")
)
