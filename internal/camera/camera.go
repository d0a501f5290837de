// Package camera abstracts still-frame capture for headless kiosks. The
// browser frontend normally does its own capture and uploads frames; these
// devices exist for CLI use and for kiosks without a usable frontend camera
// path.
package camera

import (
	"context"
	"errors"
)

// Device produces still frames. Implementations hold at most one open
// capture handle; Open tears down any previous handle first and Close is
// safe to call on every exit path, including after errors.
type Device interface {
	Open(ctx context.Context) error
	Still(ctx context.Context) ([]byte, error)
	Close() error
}

// Typed capture errors. Handlers map these to user-actionable messages -
// a permission problem reads differently from missing hardware.
var (
	// ErrNoDevice means the capture source does not exist.
	ErrNoDevice = errors.New("camera: no capture device")

	// ErrPermission means the device exists but access was denied.
	ErrPermission = errors.New("camera: permission denied")

	// ErrBusy means the device is held by another process or an earlier
	// unclosed handle.
	ErrBusy = errors.New("camera: device busy")

	// ErrTimeout means the grab did not produce a frame in time.
	ErrTimeout = errors.New("camera: capture timed out")

	// ErrClosed means Still was called before Open or after Close.
	ErrClosed = errors.New("camera: device not open")
)
