// Package recognizer delegates face matching to an external vision-language
// model. One request carries the whole reference gallery plus the probe
// image and demands a strict JSON verdict. This is a single-round-trip
// design: it trades per-call cost for atomicity and only works because the
// roster is small (tens of identities, not thousands). It is not a scalable
// matching strategy.
package recognizer

import (
	"context"
	"errors"
)

// Reference is one gallery entry sent to the model: a labeled photo of a
// registered identity.
type Reference struct {
	StaffID string
	Name    string
	Role    string
	Photo   []byte // JPEG bytes; empty means not usable
}

// Result is the model's verdict for a single probe image.
type Result struct {
	Identified bool    `json:"identified"`
	StaffID    string  `json:"staffId"`
	StaffName  string  `json:"staffName"`
	Confidence float64 `json:"confidence"` // 0-1
	Message    string  `json:"message"`
}

// Provider defines the interface for vision-language backends.
type Provider interface {
	Name() string
	Identify(ctx context.Context, probe []byte, refs []Reference) (*Result, error)

	// Usage tracking.
	GetUsage() *Usage
	ResetUsage()
}

// Usage tracks token consumption across identification calls.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Sentinel errors shared by providers.
var (
	// ErrNoCredentials means the provider has no API key configured.
	// This is a configuration error, not a transient one.
	ErrNoCredentials = errors.New("recognizer: missing model credentials")

	// ErrBadResponse means the model reply was empty or failed schema
	// validation after all repair attempts.
	ErrBadResponse = errors.New("recognizer: malformed model response")
)
