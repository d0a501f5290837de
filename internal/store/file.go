package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the whole state in a single JSON snapshot file. It is the
// default backend - one kiosk, one file. Writes go through a temp file and
// rename so a crash mid-write cannot corrupt the previous snapshot.
type FileStore struct {
	path string

	mu     sync.Mutex
	state  *State
	loaded bool
}

// NewFileStore creates a file-backed store. The file is read lazily on the
// first Load or Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns a copy of the current state. A missing file yields an empty
// state; an unreadable or malformed file yields an empty state with a
// warning - a corrupted snapshot must not block startup.
func (f *FileStore) Load(ctx context.Context) (*State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureLoaded(); err != nil {
		return nil, err
	}
	return f.state.Clone(), nil
}

func (f *FileStore) ensureLoaded() error {
	if f.loaded {
		return nil
	}

	f.state = &State{}
	f.loaded = true

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		fmt.Fprintf(os.Stderr, "warning: could not read state file %s: %v (starting empty)\n", f.path, err)
		return nil
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		fmt.Fprintf(os.Stderr, "warning: state file %s is corrupted: %v (starting empty)\n", f.path, err)
		return nil
	}

	f.state = &state
	return nil
}

// SaveStaff replaces the roster snapshot.
func (f *FileStore) SaveStaff(ctx context.Context, staff []Staff) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureLoaded(); err != nil {
		return err
	}
	f.state.Staff = append([]Staff(nil), staff...)
	return f.flush()
}

// SaveHistory replaces the attendance history snapshot.
func (f *FileStore) SaveHistory(ctx context.Context, records []AttendanceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureLoaded(); err != nil {
		return err
	}
	f.state.History = append([]AttendanceRecord(nil), records...)
	return f.flush()
}

// SaveSettings replaces the endpoint settings.
func (f *FileStore) SaveSettings(ctx context.Context, settings Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureLoaded(); err != nil {
		return err
	}
	f.state.Settings = settings
	return f.flush()
}

// flush writes the snapshot via temp file + rename. Callers hold f.mu.
func (f *FileStore) flush() error {
	data, err := json.MarshalIndent(f.state, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal state: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".kiosk-state-*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("could not write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not close state file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not replace state file: %w", err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (f *FileStore) Close() error {
	return nil
}
