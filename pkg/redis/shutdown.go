package redis

import (
	"context"
	"io"
)

// Shutdown returns a server shutdown hook closing client.
func Shutdown(client io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
