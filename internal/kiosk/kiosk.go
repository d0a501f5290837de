// Package kiosk wires capture, recognition, local persistence and remote
// sync together. All client errors are caught at this boundary and
// converted to categorized errors before they reach the presentation layer.
package kiosk

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/facekiosk/facekiosk/internal/constants"
	"github.com/facekiosk/facekiosk/internal/recognizer"
	"github.com/facekiosk/facekiosk/internal/store"
	"github.com/facekiosk/facekiosk/internal/webhook"
)

// State is the orchestrator's check-in state machine position.
type State string

const (
	// Frame capture happens in the browser before the request arrives,
	// so the service itself is only ever idle or processing.
	StateIdle       State = "idle"
	StateProcessing State = "processing"
)

// Category classifies an error for the presentation layer.
type Category string

const (
	// CategoryConfig: missing credentials, malformed endpoint URL.
	// Persistent, actionable, must not auto-dismiss.
	CategoryConfig Category = "config"

	// CategoryTransient: network failures, model overload, camera races.
	// Dismissible; the user re-triggers, there is no automatic retry.
	CategoryTransient Category = "transient"

	// CategoryValidation: duplicate ID, capacity exceeded, missing
	// fields. Rejected synchronously before any I/O.
	CategoryValidation Category = "validation"

	// CategoryData: malformed remote data or corrupted local state. The
	// corrupted unit is dropped; the rest proceeds.
	CategoryData Category = "data"
)

// Error is a categorized orchestrator error.
type Error struct {
	Category Category
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errConfig(msg string, err error) *Error {
	return &Error{Category: CategoryConfig, Message: msg, Err: err}
}

func errTransient(msg string, err error) *Error {
	return &Error{Category: CategoryTransient, Message: msg, Err: err}
}

func errValidation(msg string) *Error {
	return &Error{Category: CategoryValidation, Message: msg}
}

// Webhook is the remote sync surface the orchestrator needs. The
// production implementation is webhook.Client.
type Webhook interface {
	PushRecord(ctx context.Context, endpoint string, record store.AttendanceRecord) error
	PushStaff(ctx context.Context, endpoint string, staff store.Staff) error
	Pull(ctx context.Context, endpoint string) (*webhook.RemoteState, error)
	TestConnection(ctx context.Context, endpoint string) webhook.TestResult
}

// Options tune the orchestrator. Zero values fall back to the defaults.
type Options struct {
	StaffCapacity   int
	HistoryCapacity int
	DuplicateWindow time.Duration
}

// Service is the orchestrator. It is constructed explicitly with its
// collaborators; there is no package-level singleton.
type Service struct {
	store      store.Store
	recognizer *recognizer.Client
	webhook    Webhook

	staffCapacity   int
	historyCapacity int
	duplicateWindow time.Duration

	// now is swapped in tests for deterministic timestamps.
	now func() time.Time

	mu          sync.Mutex
	state       State
	lastOutcome *Outcome

	// writeMu serializes every load-modify-save cycle against the store.
	// The store itself only guards single calls; without this lock a save
	// based on a stale snapshot would silently drop concurrent writes.
	writeMu sync.Mutex

	syncing atomic.Bool
}

// Outcome is the result of the most recent check-in attempt, kept for the
// state endpoint so the frontend can show a transient banner.
type Outcome struct {
	Kind       string    `json:"kind"` // "success", "unmatched", "error"
	Message    string    `json:"message"`
	StaffName  string    `json:"staffName,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	At         time.Time `json:"at"`
}

// New creates the orchestrator service.
func New(st store.Store, rec *recognizer.Client, wh Webhook, opts Options) *Service {
	if opts.StaffCapacity <= 0 {
		opts.StaffCapacity = constants.DefaultStaffCapacity
	}
	if opts.HistoryCapacity <= 0 {
		opts.HistoryCapacity = constants.DefaultHistoryCapacity
	}
	if opts.DuplicateWindow <= 0 {
		opts.DuplicateWindow = constants.DefaultDuplicateWindow
	}
	return &Service{
		store:           st,
		recognizer:      rec,
		webhook:         wh,
		staffCapacity:   opts.StaffCapacity,
		historyCapacity: opts.HistoryCapacity,
		duplicateWindow: opts.DuplicateWindow,
		now:             time.Now,
		state:           StateIdle,
	}
}

// State returns the current machine state and the most recent outcome.
func (s *Service) State() (State, *Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.lastOutcome
}

// enterProcessing moves idle -> processing, rejecting re-triggers while a
// recognition round trip is in flight. In-flight calls are never cancelled;
// callers are told to wait instead.
func (s *Service) enterProcessing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return errValidation("a check-in is already in progress")
	}
	s.state = StateProcessing
	return nil
}

// leaveProcessing records the outcome and returns to idle.
func (s *Service) leaveProcessing(outcome *Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	if outcome != nil {
		outcome.At = s.now()
		s.lastOutcome = outcome
	}
}
