package camera

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// FileDevice reads stills from a file path - CLI one-shots and tests.
type FileDevice struct {
	path string

	mu   sync.Mutex
	open bool
}

// NewFileDevice creates a device backed by an image file.
func NewFileDevice(path string) *FileDevice {
	return &FileDevice{path: path}
}

// Open checks the file is readable.
func (d *FileDevice) Open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	info, err := os.Stat(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoDevice, d.path)
		}
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", ErrPermission, d.path)
		}
		return fmt.Errorf("camera: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNoDevice, d.path)
	}

	d.open = true
	return nil
}

// Still returns the file contents.
func (d *FileDevice) Still(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return nil, ErrClosed
	}

	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrPermission, d.path)
		}
		return nil, fmt.Errorf("camera: %w", err)
	}
	return data, nil
}

// Close releases the handle. Idempotent.
func (d *FileDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	return nil
}
