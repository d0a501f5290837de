package kiosk

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/facekiosk/facekiosk/internal/config"
	"github.com/facekiosk/facekiosk/internal/store"
	"github.com/facekiosk/facekiosk/internal/webhook"
)

// Staff returns the registered roster.
func (s *Service) Staff(ctx context.Context) ([]store.Staff, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, errTransient("could not load kiosk state", err)
	}
	return state.Staff, nil
}

// History returns attendance records, most recent first.
func (s *Service) History(ctx context.Context) ([]store.AttendanceRecord, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, errTransient("could not load kiosk state", err)
	}
	return state.History, nil
}

// Register adds a staff member. Identifier, name and role are required,
// the identifier must be unique and the roster must be under capacity.
// All validation happens before any I/O.
func (s *Service) Register(ctx context.Context, st store.Staff) (*store.Staff, error) {
	if st.ID == "" {
		return nil, errValidation("staff identifier is required")
	}
	if st.Name == "" {
		return nil, errValidation("staff name is required")
	}
	if st.Role == "" {
		return nil, errValidation("staff role is required")
	}
	if st.PhotoBase64 != "" {
		if _, err := base64.StdEncoding.DecodeString(st.PhotoBase64); err != nil {
			return nil, errValidation("staff photo is not valid base64")
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, errTransient("could not load kiosk state", err)
	}
	for _, existing := range state.Staff {
		if existing.ID == st.ID {
			return nil, errValidation(fmt.Sprintf("staff %q is already registered", st.ID))
		}
	}
	if len(state.Staff) >= s.staffCapacity {
		return nil, errValidation(fmt.Sprintf("roster is full (%d entries)", s.staffCapacity))
	}
	for _, existing := range state.Staff {
		if normalizeName(existing.Name) == normalizeName(st.Name) {
			log.Printf("staff %q has the same name as %q (%s)", st.ID, existing.ID, st.Name)
		}
	}

	st.Preloaded = false
	st.CreatedAt = s.now().Format(time.RFC3339)

	staff := append(state.Staff, st)
	if err := s.store.SaveStaff(ctx, staff); err != nil {
		return nil, errTransient("could not save roster", err)
	}

	s.pushStaffAsync(state.Settings.WebhookURL, st)
	return &st, nil
}

// DeleteStaff removes a staff member from the roster. Attendance records
// referencing the member are kept.
func (s *Service) DeleteStaff(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	state, err := s.store.Load(ctx)
	if err != nil {
		return errTransient("could not load kiosk state", err)
	}

	staff := make([]store.Staff, 0, len(state.Staff))
	found := false
	for _, st := range state.Staff {
		if st.ID == id {
			found = true
			continue
		}
		staff = append(staff, st)
	}
	if !found {
		return errValidation(fmt.Sprintf("staff %q is not registered", id))
	}
	if err := s.store.SaveStaff(ctx, staff); err != nil {
		return errTransient("could not save roster", err)
	}
	return nil
}

// UpdateStaffPhoto replaces the reference photo of an existing member.
func (s *Service) UpdateStaffPhoto(ctx context.Context, id, photoBase64 string) error {
	if photoBase64 != "" {
		if _, err := base64.StdEncoding.DecodeString(photoBase64); err != nil {
			return errValidation("staff photo is not valid base64")
		}
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	state, err := s.store.Load(ctx)
	if err != nil {
		return errTransient("could not load kiosk state", err)
	}
	found := false
	for i := range state.Staff {
		if state.Staff[i].ID == id {
			state.Staff[i].PhotoBase64 = photoBase64
			found = true
			break
		}
	}
	if !found {
		return errValidation(fmt.Sprintf("staff %q is not registered", id))
	}
	return s.store.SaveStaff(ctx, state.Staff)
}

// SeedRoster merges preloaded staff from the embedded configuration into
// the roster. Existing identifiers are never overwritten.
func (s *Service) SeedRoster(ctx context.Context, seed []config.SeedStaff) error {
	if len(seed) == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	state, err := s.store.Load(ctx)
	if err != nil {
		return errTransient("could not load kiosk state", err)
	}
	existing := make(map[string]bool, len(state.Staff))
	for _, st := range state.Staff {
		existing[st.ID] = true
	}

	staff := state.Staff
	added := 0
	for _, sd := range seed {
		if sd.ID == "" || sd.Name == "" || existing[sd.ID] {
			continue
		}
		if len(staff) >= s.staffCapacity {
			log.Printf("seed roster truncated at capacity %d", s.staffCapacity)
			break
		}
		staff = append(staff, store.Staff{
			ID:          sd.ID,
			Name:        sd.Name,
			Role:        sd.Role,
			Description: sd.Description,
			PhotoBase64: sd.Photo,
			Preloaded:   true,
			CreatedAt:   s.now().Format(time.RFC3339),
		})
		existing[sd.ID] = true
		added++
	}
	if added == 0 {
		return nil
	}
	return s.store.SaveStaff(ctx, staff)
}

// Settings returns the persisted kiosk settings.
func (s *Service) Settings(ctx context.Context) (store.Settings, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return store.Settings{}, errTransient("could not load kiosk state", err)
	}
	return state.Settings, nil
}

// SetWebhookURL validates and persists the webhook endpoint. An empty URL
// disables sync.
func (s *Service) SetWebhookURL(ctx context.Context, url string) error {
	if url != "" {
		if err := webhook.ValidateURL(url); err != nil {
			return &Error{Category: CategoryValidation, Message: "webhook URL is not a valid Apps Script endpoint", Err: err}
		}
	}
	if err := s.store.SaveSettings(ctx, store.Settings{WebhookURL: url}); err != nil {
		return errTransient("could not save settings", err)
	}
	return nil
}

// TestWebhook runs a connectivity probe against the configured endpoint.
func (s *Service) TestWebhook(ctx context.Context) (webhook.TestResult, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return webhook.TestResult{}, errTransient("could not load kiosk state", err)
	}
	if state.Settings.WebhookURL == "" {
		return webhook.TestResult{}, errConfig("no webhook URL configured", nil)
	}
	return s.webhook.TestConnection(ctx, state.Settings.WebhookURL), nil
}

func (s *Service) pushStaffAsync(url string, st store.Staff) {
	if url == "" {
		return
	}
	go func() {
		if err := s.webhook.PushStaff(context.Background(), url, st); err != nil {
			log.Printf("webhook push failed for staff %s: %v", st.ID, err)
		}
	}()
}
