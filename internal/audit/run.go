package audit

import (
	"time"

	"github.com/google/uuid"
)

// Run is the persisted envelope for one invocation: what was audited, by
// whom, when, and what came back. Run files are the unit the runs and
// report commands operate on.
type Run struct {
	ID          string         `json:"id"`
	Operator    string         `json:"operator,omitempty"`
	Keyword     string         `json:"keyword,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
	Targets     []Target       `json:"targets"`
	Results     []TargetResult `json:"results"`
	Summary     Summary        `json:"summary"`
}

// NewRunID returns a fresh identifier for a run envelope.
func NewRunID() string {
	return uuid.NewString()
}
