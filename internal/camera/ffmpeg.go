package camera

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"sync"

	"github.com/facekiosk/facekiosk/internal/constants"
)

// FFmpegDevice grabs single stills from a V4L2 device or a stream URL by
// spawning ffmpeg per capture. There is no long-lived process, so "open"
// only validates the source; the hardware handle lives exactly as long as
// one grab and is torn down with the process on every exit path.
type FFmpegDevice struct {
	source string // /dev/video0, rtsp://..., http://...
	width  int    // long-edge target for the grabbed frame

	mu     sync.Mutex
	open   bool
	cancel context.CancelFunc
}

// NewFFmpegDevice creates a device for the given ffmpeg input source.
func NewFFmpegDevice(source string, width int) *FFmpegDevice {
	if width <= 0 {
		width = constants.ProbeImageSize
	}
	return &FFmpegDevice{source: source, width: width}
}

// Open marks the device usable. A previous open handle is released first.
func (d *FFmpegDevice) Open(ctx context.Context) error {
	if d.source == "" {
		return ErrNoDevice
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		d.closeLocked()
	}
	d.open = true
	return nil
}

// Still grabs one JPEG frame. Only one grab runs at a time; a second caller
// gets ErrBusy instead of queueing behind the hardware.
func (d *FFmpegDevice) Still(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return nil, ErrClosed
	}
	if d.cancel != nil {
		d.mu.Unlock()
		return nil, ErrBusy
	}
	ctx, cancel := context.WithTimeout(ctx, constants.CaptureTimeout)
	d.cancel = cancel
	d.mu.Unlock()

	defer func() {
		cancel()
		d.mu.Lock()
		d.cancel = nil
		d.mu.Unlock()
	}()

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
	}
	if strings.HasPrefix(d.source, "/dev/video") {
		args = append(args, "-f", "v4l2")
	} else if strings.HasPrefix(d.source, "rtsp://") || strings.HasPrefix(d.source, "rtsps://") {
		args = append(args, "-rtsp_transport", "tcp")
	}
	args = append(args,
		"-i", d.source,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:-1", d.width),
		"-f", "image2",
		"-vcodec", "mjpeg",
		"pipe:1",
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: ffmpeg binary not found", ErrNoDevice)
		}
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	var errLines []string
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := scanner.Text()
		errLines = append(errLines, line)
		log.Printf("ffmpeg: %s", line)
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ErrTimeout
		}
		return nil, classifyFFmpegError(strings.Join(errLines, "\n"))
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%w: ffmpeg produced no frame", ErrNoDevice)
	}
	return stdout.Bytes(), nil
}

// classifyFFmpegError maps ffmpeg stderr output to the typed errors.
func classifyFFmpegError(stderr string) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "permission denied"):
		return fmt.Errorf("%w: %s", ErrPermission, firstLine(stderr))
	case strings.Contains(lower, "device or resource busy"):
		return fmt.Errorf("%w: %s", ErrBusy, firstLine(stderr))
	case strings.Contains(lower, "no such file"),
		strings.Contains(lower, "no such device"),
		strings.Contains(lower, "cannot open"):
		return fmt.Errorf("%w: %s", ErrNoDevice, firstLine(stderr))
	default:
		return fmt.Errorf("camera: capture failed: %s", firstLine(stderr))
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	if s == "" {
		return "(no output)"
	}
	return s
}

// Close releases the device. Idempotent.
func (d *FFmpegDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
	return nil
}

func (d *FFmpegDevice) closeLocked() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.open = false
}
