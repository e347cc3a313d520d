package core

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyStarted is returned when Start is called on a running dispatcher.
	ErrAlreadyStarted = errors.New("eventdispatch: dispatcher already started")

	// ErrStopped is returned when Start is called on a stopped dispatcher.
	// Stopped is terminal; construct a new dispatcher to reconnect.
	ErrStopped = errors.New("eventdispatch: dispatcher is stopped")

	// ErrNoTransport is returned when a dispatcher is created without a transport.
	ErrNoTransport = errors.New("eventdispatch: transport is nil")

	// ErrTransportClosed is returned when operations are attempted on a
	// closed transport.
	ErrTransportClosed = errors.New("eventdispatch: transport is closed")
)

// ConnectionError wraps a transport connect failure surfaced by Start.
// The dispatcher remains idle and Start may be retried.
type ConnectionError struct {
	Namespace string
	Err       error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("eventdispatch: connect %q: %v", e.Namespace, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// PublishError wraps a transport publish failure, surfaced synchronously
// to the Trigger caller.
type PublishError struct {
	Namespace string
	Event     string
	Err       error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("eventdispatch: publish %q to %q: %v", e.Event, e.Namespace, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// CodecError wraps an encode or per-frame decode failure. Decode
// failures are logged by the consume loop and the frame is dropped; the
// loop continues.
type CodecError struct {
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("eventdispatch: codec: %v", e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }
