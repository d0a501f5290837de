// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Recognition constants
const (
	// DefaultConfidenceThreshold is the minimum confidence required to accept
	// a positive identification from the model
	DefaultConfidenceThreshold = 0.85

	// DefaultMaxReferencePhotos is the maximum number of reference photos
	// included in a single identification request. The binding constraint is
	// request payload size, not a business rule.
	DefaultMaxReferencePhotos = 20

	// ProbeImageSize is the maximum long-edge dimension for the probe image
	ProbeImageSize = 640

	// ReferenceImageSize is the maximum long-edge dimension for reference
	// photos. Smaller than the probe - only coarse identity cues are needed.
	ReferenceImageSize = 320

	// ProfilePhotoSize is the output dimension of cropped profile photos
	ProfilePhotoSize = 384

	// JPEGQuality is used when re-encoding captured and cropped images
	JPEGQuality = 80

	// RecognitionTimeout bounds a single identification round trip
	RecognitionTimeout = 30 * time.Second
)

// Roster and history constants
const (
	// DefaultStaffCapacity is the maximum number of registered identities
	DefaultStaffCapacity = 100

	// DefaultHistoryCapacity is the maximum number of attendance records kept
	// locally; oldest entries are evicted first
	DefaultHistoryCapacity = 100
)

// Sync constants
const (
	// DefaultSyncInterval is the period of the background pull/merge loop
	DefaultSyncInterval = 60 * time.Second

	// MinSyncInterval and MaxSyncInterval clamp the configured interval
	MinSyncInterval = 30 * time.Second
	MaxSyncInterval = 5 * time.Minute

	// WebhookTestTimeout bounds the connectivity test request
	WebhookTestTimeout = 8 * time.Second

	// WebhookPushTimeout bounds a fire-and-forget push request
	WebhookPushTimeout = 15 * time.Second

	// WebhookPullTimeout bounds a pull request
	WebhookPullTimeout = 20 * time.Second
)

// Check-in constants
const (
	// DefaultDuplicateWindow suppresses a repeated check-in for the same
	// staff member and direction within this window
	DefaultDuplicateWindow = 60 * time.Second

	// CaptureTimeout bounds a single camera still grab
	CaptureTimeout = 10 * time.Second
)
