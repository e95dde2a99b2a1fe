package journal

import "time"

// Outcome classifies the result of a single organize call.
type Outcome string

const (
	OutcomeMoved   Outcome = "moved"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// ParseOutcome maps a user-supplied string onto a known outcome.
func ParseOutcome(value string) (Outcome, bool) {
	switch Outcome(value) {
	case OutcomeMoved, OutcomeSkipped, OutcomeFailed:
		return Outcome(value), true
	default:
		return "", false
	}
}

// Entry is one recorded organize outcome.
type Entry struct {
	ID           int64
	RequestID    string
	SourcePath   string
	DestPath     string
	Category     string
	Outcome      Outcome
	Detail       string
	ErrorMessage string
	CreatedAt    time.Time
}
