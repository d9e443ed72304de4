package ses

import "errors"

// ErrNoClient is returned when a send is attempted without an SES client.
var ErrNoClient = errors.New("ses: transport has no client")
