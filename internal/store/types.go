package store

import "sort"

// Staff is a registered identity eligible for recognition. Records are never
// mutated after registration; they are deleted explicitly or merged in from
// the remote endpoint.
type Staff struct {
	ID          string `json:"staffId"`
	Name        string `json:"staffName"`
	Role        string `json:"role"`
	Description string `json:"description,omitempty"`
	PhotoBase64 string `json:"photo,omitempty"`
	Preloaded   bool   `json:"preloaded,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"` // RFC 3339
}

// HasPhoto reports whether the staff member carries a usable reference photo.
func (s Staff) HasPhoto() bool {
	return s.PhotoBase64 != ""
}

// AttendanceRecord is a single arrival/departure event. StaffID, StaffName
// and Role are captured at event time - the spreadsheet backend is
// denormalized, so this is not a live foreign key.
type AttendanceRecord struct {
	ID        string `json:"id"`
	StaffID   string `json:"staffId"`
	StaffName string `json:"staffName"`
	Role      string `json:"role,omitempty"`
	Timestamp string `json:"timestamp"` // RFC 3339 in the kiosk's local zone; the sort and merge key
	Date      string `json:"date"`      // display string, kiosk-local
	Time      string `json:"time"`      // display string, kiosk-local
	Direction string `json:"direction"` // "in" or "out"
	Status    string `json:"status"`
	Method    string `json:"method"`
}

// Directions and fixed tags for attendance records.
const (
	DirectionIn  = "in"
	DirectionOut = "out"

	StatusPresent = "present"
	MethodFace    = "face"
)

// Settings holds the remote endpoint configuration.
type Settings struct {
	WebhookURL string `json:"webhookUrl"`
}

// State is a full snapshot of the three logical records.
type State struct {
	Staff    []Staff            `json:"staff"`
	History  []AttendanceRecord `json:"history"`
	Settings Settings           `json:"settings"`
}

// Clone returns a deep copy so callers can mutate freely.
func (s *State) Clone() *State {
	out := &State{Settings: s.Settings}
	out.Staff = append([]Staff(nil), s.Staff...)
	out.History = append([]AttendanceRecord(nil), s.History...)
	return out
}

// DedupStaff removes entries with a duplicate ID, keeping the first
// occurrence. Order is preserved.
func DedupStaff(staff []Staff) []Staff {
	seen := make(map[string]struct{}, len(staff))
	out := staff[:0:0]
	for _, s := range staff {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out
}

// DedupHistory removes records with a duplicate record ID, keeping the first
// occurrence. Order is preserved.
func DedupHistory(records []AttendanceRecord) []AttendanceRecord {
	seen := make(map[string]struct{}, len(records))
	out := records[:0:0]
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// SortHistory orders records most-recent-first by the RFC 3339 timestamp.
// RFC 3339 strings in a single zone sort lexicographically, so no parsing is
// needed; malformed timestamps sink to the end deterministically.
func SortHistory(records []AttendanceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
}

// CapHistory bounds the record list, evicting the oldest entries. The input
// must already be sorted most-recent-first.
func CapHistory(records []AttendanceRecord, capacity int) []AttendanceRecord {
	if capacity <= 0 || len(records) <= capacity {
		return records
	}
	return records[:capacity]
}
