package recognizer

import (
	"context"
	"fmt"
	"os"

	"github.com/facekiosk/facekiosk/internal/constants"
)

// Client wraps a Provider with the kiosk's matching policy: gallery
// filtering and capping, payload sizing, and threshold enforcement. The
// threshold lives here, not in the model's own judgment of "identified".
type Client struct {
	provider  Provider
	threshold float64
	maxRefs   int
}

// NewClient builds a recognition client. Out-of-range knobs fall back to
// the defaults.
func NewClient(provider Provider, threshold float64, maxRefs int) *Client {
	if threshold <= 0 || threshold > 1 {
		threshold = constants.DefaultConfidenceThreshold
	}
	if maxRefs <= 0 {
		maxRefs = constants.DefaultMaxReferencePhotos
	}
	return &Client{provider: provider, threshold: threshold, maxRefs: maxRefs}
}

// Provider exposes the underlying backend (for usage reporting).
func (c *Client) Provider() Provider {
	return c.provider
}

// Threshold returns the enforced confidence bar.
func (c *Client) Threshold() float64 {
	return c.threshold
}

// Identify matches a probe image against the reference gallery.
//
// References without a photo are dropped; when none remain the call
// short-circuits with identified=false and no network traffic. References
// beyond the cap are dropped from the end - the cap bounds payload size,
// it is not a business rule. A positive verdict below the confidence
// threshold is demoted to unmatched.
func (c *Client) Identify(ctx context.Context, probe []byte, refs []Reference) (*Result, error) {
	usable := make([]Reference, 0, len(refs))
	for _, ref := range refs {
		if len(ref.Photo) == 0 {
			continue
		}
		usable = append(usable, ref)
	}

	if len(usable) == 0 {
		return &Result{
			Identified: false,
			Confidence: 0,
			Message:    "no registered staff with a reference photo",
		}, nil
	}

	if len(usable) > c.maxRefs {
		usable = usable[:c.maxRefs]
	}

	// Size the payload: references smaller than the probe, since only
	// coarse identity cues are needed from the gallery.
	for i := range usable {
		resized, err := ResizeImage(usable[i].Photo, constants.ReferenceImageSize)
		if err != nil {
			// One undecodable reference photo must not block the attempt.
			fmt.Fprintf(os.Stderr, "warning: skipping reference photo for %s: %v\n", usable[i].StaffID, err)
			usable[i].Photo = nil
			continue
		}
		usable[i].Photo = resized
	}
	usable = compactUsable(usable)
	if len(usable) == 0 {
		return &Result{
			Identified: false,
			Confidence: 0,
			Message:    "no usable reference photos",
		}, nil
	}

	probeResized, err := ResizeImage(probe, constants.ProbeImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare probe image: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RecognitionTimeout)
	defer cancel()

	result, err := c.provider.Identify(ctx, probeResized, usable)
	if err != nil {
		return nil, err
	}

	if result.Identified && result.Confidence < c.threshold {
		return &Result{
			Identified: false,
			Confidence: result.Confidence,
			Message: fmt.Sprintf("match for %s below confidence threshold (%.2f < %.2f)",
				result.StaffName, result.Confidence, c.threshold),
		}, nil
	}

	return result, nil
}

func compactUsable(refs []Reference) []Reference {
	out := refs[:0]
	for _, ref := range refs {
		if len(ref.Photo) > 0 {
			out = append(out, ref)
		}
	}
	return out
}
