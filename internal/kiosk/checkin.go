package kiosk

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/facekiosk/facekiosk/internal/recognizer"
	"github.com/facekiosk/facekiosk/internal/store"
)

// CheckInResult describes a finished check-in attempt.
type CheckInResult struct {
	Matched    bool                    `json:"matched"`
	StaffID    string                  `json:"staffId,omitempty"`
	StaffName  string                  `json:"staffName,omitempty"`
	Confidence float64                 `json:"confidence"`
	Message    string                  `json:"message,omitempty"`
	Duplicate  bool                    `json:"duplicate"`
	Record     *store.AttendanceRecord `json:"record,omitempty"`
}

// CheckIn runs one recognition round trip against the registered gallery
// and, on a confident match, appends an attendance record and pushes it to
// the webhook in the background. Direction must be "in" or "out".
func (s *Service) CheckIn(ctx context.Context, frame []byte, direction string) (*CheckInResult, error) {
	if direction != store.DirectionIn && direction != store.DirectionOut {
		return nil, errValidation(fmt.Sprintf("unknown direction %q", direction))
	}
	if len(frame) == 0 {
		return nil, errValidation("empty camera frame")
	}

	if err := s.enterProcessing(); err != nil {
		return nil, err
	}

	res, outcome, err := s.checkIn(ctx, frame, direction)
	s.leaveProcessing(outcome)
	return res, err
}

func (s *Service) checkIn(ctx context.Context, frame []byte, direction string) (*CheckInResult, *Outcome, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, &Outcome{Kind: "error", Message: "storage unavailable"},
			errTransient("could not load kiosk state", err)
	}

	refs := make([]recognizer.Reference, 0, len(state.Staff))
	for _, st := range state.Staff {
		if !st.HasPhoto() {
			continue
		}
		photo, err := base64.StdEncoding.DecodeString(st.PhotoBase64)
		if err != nil {
			log.Printf("skipping staff %q: undecodable reference photo: %v", st.ID, err)
			continue
		}
		refs = append(refs, recognizer.Reference{
			StaffID: st.ID,
			Name:    st.Name,
			Role:    st.Role,
			Photo:   photo,
		})
	}

	verdict, err := s.recognizer.Identify(ctx, frame, refs)
	if err != nil {
		switch {
		case errors.Is(err, recognizer.ErrNoCredentials):
			return nil, &Outcome{Kind: "error", Message: "recognition provider is not configured"},
				errConfig("recognition provider is not configured", err)
		case errors.Is(err, recognizer.ErrBadResponse):
			return nil, &Outcome{Kind: "error", Message: "recognition failed, try again"},
				errTransient("recognition produced an unusable response", err)
		default:
			return nil, &Outcome{Kind: "error", Message: "recognition failed, try again"},
				errTransient("recognition request failed", err)
		}
	}

	if !verdict.Identified {
		msg := verdict.Message
		if msg == "" {
			msg = "no confident match"
		}
		return &CheckInResult{Matched: false, Confidence: verdict.Confidence, Message: msg},
			&Outcome{Kind: "unmatched", Message: msg, Confidence: verdict.Confidence}, nil
	}

	// The recognition round trip can take many seconds; other writers may
	// have touched the store meanwhile. Re-load under the write lock so
	// the duplicate check and the save work on a current snapshot.
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	state, err = s.store.Load(ctx)
	if err != nil {
		return nil, &Outcome{Kind: "error", Message: "storage unavailable"},
			errTransient("could not load kiosk state", err)
	}

	now := s.now()

	if prev := lastRecordFor(state.History, verdict.StaffID, direction); prev != nil {
		if at, err := time.Parse(time.RFC3339, prev.Timestamp); err == nil {
			if now.Sub(at) >= 0 && now.Sub(at) < s.duplicateWindow {
				res := &CheckInResult{
					Matched:    true,
					StaffID:    verdict.StaffID,
					StaffName:  verdict.StaffName,
					Confidence: verdict.Confidence,
					Duplicate:  true,
					Message:    "already recorded",
					Record:     prev,
				}
				return res, &Outcome{
					Kind:       "success",
					Message:    "already recorded",
					StaffName:  verdict.StaffName,
					Confidence: verdict.Confidence,
				}, nil
			}
		}
	}

	record := store.AttendanceRecord{
		ID:        uuid.New().String(),
		StaffID:   verdict.StaffID,
		StaffName: verdict.StaffName,
		Role:      staffRole(state.Staff, verdict.StaffID),
		Timestamp: now.Format(time.RFC3339),
		Date:      now.Format("2006-01-02"),
		Time:      now.Format("15:04:05"),
		Direction: direction,
		Status:    store.StatusPresent,
		Method:    store.MethodFace,
	}

	history := append([]store.AttendanceRecord{record}, state.History...)
	history = store.DedupHistory(history)
	store.SortHistory(history)
	history = store.CapHistory(history, s.historyCapacity)
	if err := s.store.SaveHistory(ctx, history); err != nil {
		return nil, &Outcome{Kind: "error", Message: "could not save attendance record"},
			errTransient("could not save attendance record", err)
	}

	s.pushRecordAsync(state.Settings.WebhookURL, record)

	res := &CheckInResult{
		Matched:    true,
		StaffID:    verdict.StaffID,
		StaffName:  verdict.StaffName,
		Confidence: verdict.Confidence,
		Record:     &record,
	}
	return res, &Outcome{
		Kind:       "success",
		StaffName:  verdict.StaffName,
		Confidence: verdict.Confidence,
	}, nil
}

// pushRecordAsync fires a best-effort webhook push. Failures are logged
// and never affect the local record.
func (s *Service) pushRecordAsync(url string, record store.AttendanceRecord) {
	if url == "" {
		return
	}
	go func() {
		if err := s.webhook.PushRecord(context.Background(), url, record); err != nil {
			log.Printf("webhook push failed for record %s: %v", record.ID, err)
		}
	}()
}

func lastRecordFor(history []store.AttendanceRecord, staffID, direction string) *store.AttendanceRecord {
	// history is sorted most recent first
	for i := range history {
		if history[i].StaffID == staffID && history[i].Direction == direction {
			return &history[i]
		}
	}
	return nil
}

func staffRole(staff []store.Staff, id string) string {
	for _, st := range staff {
		if st.ID == id {
			return st.Role
		}
	}
	return ""
}
