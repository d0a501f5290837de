package kiosk

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/facekiosk/facekiosk/internal/store"
)

// SyncReport summarizes one pull-and-merge round trip.
type SyncReport struct {
	PulledStaff   int `json:"pulledStaff"`
	PulledRecords int `json:"pulledRecords"`
	Staff         int `json:"staff"`
	Records       int `json:"records"`
}

// Sync pulls the remote dataset and merges it into local state. Local
// entries always win on identifier collisions, so records queued locally
// are never clobbered by a stale remote copy. Concurrent calls are
// rejected; the periodic loop skips a tick instead of queueing.
func (s *Service) Sync(ctx context.Context) (*SyncReport, error) {
	if !s.syncing.CompareAndSwap(false, true) {
		return nil, errValidation("a sync is already running")
	}
	defer s.syncing.Store(false)

	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, errTransient("could not load kiosk state", err)
	}
	if state.Settings.WebhookURL == "" {
		return nil, errConfig("no webhook URL configured", nil)
	}

	remote, err := s.webhook.Pull(ctx, state.Settings.WebhookURL)
	if err != nil {
		return nil, errTransient("could not pull remote data", err)
	}

	// The pull can take a while; registrations and check-ins may have
	// landed meanwhile. Re-load under the write lock so the merge save
	// does not clobber them with the pre-pull snapshot.
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	state, err = s.store.Load(ctx)
	if err != nil {
		return nil, errTransient("could not load kiosk state", err)
	}

	staff := store.DedupStaff(append(state.Staff, remote.Staff...))
	if len(staff) > s.staffCapacity {
		staff = staff[:s.staffCapacity]
	}

	history := store.DedupHistory(append(state.History, remote.History...))
	store.SortHistory(history)
	history = store.CapHistory(history, s.historyCapacity)

	if err := s.store.SaveStaff(ctx, staff); err != nil {
		return nil, errTransient("could not save roster", err)
	}
	if err := s.store.SaveHistory(ctx, history); err != nil {
		return nil, errTransient("could not save attendance history", err)
	}

	return &SyncReport{
		PulledStaff:   len(remote.Staff),
		PulledRecords: len(remote.History),
		Staff:         len(staff),
		Records:       len(history),
	}, nil
}

// RunSyncLoop runs periodic pulls until the context is cancelled. Ticks
// that land while a sync is still in flight are skipped.
func (s *Service) RunSyncLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sync(ctx); err != nil {
				// An unconfigured webhook is the normal idle condition,
				// not worth a log line every tick.
				var kerr *Error
				if errors.As(err, &kerr) && kerr.Category == CategoryConfig {
					continue
				}
				log.Printf("periodic sync: %v", err)
			}
		}
	}
}
