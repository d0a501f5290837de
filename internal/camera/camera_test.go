package camera

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileDevice_StillBeforeOpen(t *testing.T) {
	d := NewFileDevice("whatever.jpg")

	if _, err := d.Still(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed before Open, got %v", err)
	}
}

func TestFileDevice_MissingFile(t *testing.T) {
	d := NewFileDevice(filepath.Join(t.TempDir(), "missing.jpg"))

	if err := d.Open(context.Background()); !errors.Is(err, ErrNoDevice) {
		t.Errorf("expected ErrNoDevice for missing file, got %v", err)
	}
}

func TestFileDevice_ReadsFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.jpg")
	want := []byte("jpeg bytes")
	if err := os.WriteFile(path, want, 0600); err != nil {
		t.Fatal(err)
	}

	d := NewFileDevice(path)
	if err := d.Open(context.Background()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	data, err := d.Still(context.Background())
	if err != nil {
		t.Fatalf("Still failed: %v", err)
	}
	if string(data) != string(want) {
		t.Errorf("unexpected frame contents: %q", data)
	}
}

func TestFileDevice_CloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.jpg")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	d := NewFileDevice(path)
	if err := d.Open(context.Background()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := d.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	if _, err := d.Still(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
}

func TestFFmpegDevice_EmptySource(t *testing.T) {
	d := NewFFmpegDevice("", 640)

	if err := d.Open(context.Background()); !errors.Is(err, ErrNoDevice) {
		t.Errorf("expected ErrNoDevice for empty source, got %v", err)
	}
}

func TestFFmpegDevice_StillBeforeOpen(t *testing.T) {
	d := NewFFmpegDevice("/dev/video0", 640)

	if _, err := d.Still(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed before Open, got %v", err)
	}
}

func TestClassifyFFmpegError(t *testing.T) {
	cases := []struct {
		stderr string
		want   error
	}{
		{"/dev/video0: Permission denied", ErrPermission},
		{"/dev/video0: Device or resource busy", ErrBusy},
		{"/dev/video9: No such file or directory", ErrNoDevice},
		{"Cannot open video device", ErrNoDevice},
	}

	for _, tc := range cases {
		if got := classifyFFmpegError(tc.stderr); !errors.Is(got, tc.want) {
			t.Errorf("classifyFFmpegError(%q) = %v, want %v", tc.stderr, got, tc.want)
		}
	}

	// Unknown output stays a generic error, not a typed one.
	err := classifyFFmpegError("something unexpected")
	for _, typed := range []error{ErrPermission, ErrBusy, ErrNoDevice, ErrTimeout} {
		if errors.Is(err, typed) {
			t.Errorf("generic stderr must not map to %v", typed)
		}
	}
}
