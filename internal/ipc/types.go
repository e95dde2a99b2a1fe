package ipc

import "time"

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running      bool           `json:"running"`
	PID          int            `json:"pid"`
	StartedAt    time.Time      `json:"started_at"`
	WatchDir     string         `json:"watch_dir"`
	LockPath     string         `json:"lock_path"`
	JournalPath  string         `json:"journal_path"`
	Counts       map[string]int `json:"counts"`
	JournalStats map[string]int `json:"journal_stats"`
	LastError    string         `json:"last_error"`
}

// CountsRequest fetches per-category counts.
type CountsRequest struct {
	Refresh bool `json:"refresh"`
}

// CountsResponse carries per-category counts.
type CountsResponse struct {
	Counts map[string]int `json:"counts"`
}

// SweepRequest organizes the watch directory backlog.
type SweepRequest struct{}

// SweepResponse summarizes a sweep.
type SweepResponse struct {
	Moved    int           `json:"moved"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// StopRequest shuts the daemon down.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// JournalEntry is the wire representation of a journal record.
type JournalEntry struct {
	ID           int64     `json:"id"`
	RequestID    string    `json:"request_id"`
	SourcePath   string    `json:"source_path"`
	DestPath     string    `json:"dest_path"`
	Category     string    `json:"category"`
	Outcome      string    `json:"outcome"`
	Detail       string    `json:"detail"`
	ErrorMessage string    `json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}

// JournalListRequest filters journal listing by outcome.
type JournalListRequest struct {
	Limit    int      `json:"limit"`
	Outcomes []string `json:"outcomes"`
}

// JournalListResponse contains journal entries.
type JournalListResponse struct {
	Entries []JournalEntry `json:"entries"`
}

// JournalClearRequest removes journal entries by outcome; with no
// outcomes everything is removed.
type JournalClearRequest struct {
	Outcomes []string `json:"outcomes"`
}

// JournalClearResponse reports number of removed entries.
type JournalClearResponse struct {
	Removed int64 `json:"removed"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test results.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
