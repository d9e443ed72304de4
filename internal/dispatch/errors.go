package dispatch

import "errors"

var (
	ErrNoRecipient    = errors.New("dispatch: recipient is required")
	ErrInvalidAddress = errors.New("dispatch: invalid email address")
	ErrEnableFailed   = errors.New("dispatch: confirmation email failed, ses left disabled")
)
