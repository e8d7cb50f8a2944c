// Package netutil classifies network failures seen while talking to the
// Telegram API.
package netutil

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// ShouldRetry reports whether err looks transient: timeouts, refused or
// reset connections, failed dials, and connections cut mid-response.
// Context cancellation is never retried.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	// url.Error and net.OpError both implement net.Error and unwrap to the
	// underlying cause, so a single check covers nested timeouts.
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
