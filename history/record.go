package history

import (
	"fmt"
	"time"
)

// Outcome is the classified result of a capture as stored in history.
type Outcome string

const (
	OutcomeSuccess      Outcome = "success"
	OutcomeToolError    Outcome = "tool-error"
	OutcomeVerification Outcome = "verification-failure"
	OutcomeSpawnError   Outcome = "spawn-error"
)

// Record represents a single capture attempt preserved in the history file.
type Record struct {
	ID      string    `json:"id"`
	URL     string    `json:"url"`
	Handler string    `json:"handler"`
	Path    string    `json:"path"`
	Outcome Outcome   `json:"outcome"`
	At      time.Time `json:"at"`
}

// Succeeded reports whether the capture produced its snapshot.
func (r *Record) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

func (r *Record) String() string {
	return fmt.Sprintf("%s  %s  %s", r.At.Format(time.DateTime), r.Outcome, r.URL)
}
