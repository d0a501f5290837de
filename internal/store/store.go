// Package store persists the kiosk's three logical records: the staff
// roster, the attendance history, and the remote endpoint settings. Each
// record is saved as a whole snapshot; there are no partial updates.
package store

import (
	"context"
	"fmt"
)

// Store is the persistence contract. Implementations must tolerate a missing
// or corrupted backing store by returning an empty state rather than failing
// startup.
type Store interface {
	Load(ctx context.Context) (*State, error)
	SaveStaff(ctx context.Context, staff []Staff) error
	SaveHistory(ctx context.Context, records []AttendanceRecord) error
	SaveSettings(ctx context.Context, settings Settings) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Path        string // file backend snapshot path
	DatabaseDSN string // when set, the MySQL backend is used instead
}

// Open creates the configured store backend. The MySQL backend wins when a
// DSN is configured; otherwise the single-file JSON backend is used.
func Open(opts Options) (Store, error) {
	if opts.DatabaseDSN != "" {
		s, err := NewMySQLStore(opts.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("opening mysql store: %w", err)
		}
		return s, nil
	}
	if opts.Path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	return NewFileStore(opts.Path), nil
}
