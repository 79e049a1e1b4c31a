package model

type SyncResult struct {
	Success     bool     `json:"success"`
	Created     int      `json:"created"`
	Updated     int      `json:"updated"`
	TotalEvents int      `json:"total_events"`
	Errors      []string `json:"errors"`
	Error       string   `json:"error,omitempty"`
}

// FailedSync builds the result of an import that could not read the feed.
func FailedSync(msg string) SyncResult {
	return SyncResult{Success: false, Errors: []string{}, Error: msg}
}

type CalendarSyncSummary struct {
	CalendarID string     `json:"calendar_id"`
	Property   string     `json:"property"`
	Source     string     `json:"source"`
	Result     SyncResult `json:"result"`
}

type SyncAllResult struct {
	Results   []CalendarSyncSummary `json:"results"`
	Total     int                   `json:"total"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
}

func NewSyncAllResult(results []CalendarSyncSummary) SyncAllResult {
	out := SyncAllResult{Results: results, Total: len(results)}
	for _, r := range results {
		if r.Result.Success {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}
	return out
}
