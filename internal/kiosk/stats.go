package kiosk

import "context"

// Stats is a small dashboard summary for the admin view.
type Stats struct {
	Staff        int `json:"staff"`
	Records      int `json:"records"`
	TodayTotal   int `json:"todayTotal"`
	TodayIn      int `json:"todayIn"`
	TodayOut     int `json:"todayOut"`
	TodayPresent int `json:"todayPresent"`

	Provider     string `json:"provider"`
	InputTokens  int    `json:"inputTokens"`
	OutputTokens int    `json:"outputTokens"`
}

// DashboardStats computes counters over the local dataset.
func (s *Service) DashboardStats(ctx context.Context) (*Stats, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, errTransient("could not load kiosk state", err)
	}

	stats := &Stats{
		Staff:   len(state.Staff),
		Records: len(state.History),
	}

	today := s.now().Format("2006-01-02")
	present := map[string]bool{}
	for _, rec := range state.History {
		if rec.Date != today {
			continue
		}
		stats.TodayTotal++
		switch rec.Direction {
		case "in":
			stats.TodayIn++
			present[rec.StaffID] = true
		case "out":
			stats.TodayOut++
		}
	}
	stats.TodayPresent = len(present)

	provider := s.recognizer.Provider()
	stats.Provider = provider.Name()
	usage := provider.GetUsage()
	stats.InputTokens = usage.InputTokens
	stats.OutputTokens = usage.OutputTokens

	return stats, nil
}
