// README: Run record and status definitions for submitted simulations.
package run

import (
	"errors"
	"time"

	"ridepool/internal/modules/matching"
	"ridepool/internal/modules/simulation"
)

type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// AllowedTransitions represents the run state flow as code. A cache hit goes
// straight from queued to completed.
var AllowedTransitions = map[Status][]Status{
	StatusQueued:  {StatusRunning, StatusCompleted, StatusFailed},
	StatusRunning: {StatusCompleted, StatusFailed},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

var (
	ErrNotFound     = errors.New("run not found")
	ErrInvalidState = errors.New("invalid run state")
	ErrConflict     = errors.New("run state conflict")
)

type Run struct {
	ID          string           `json:"run_id"`
	Owner       string           `json:"owner,omitempty"`
	Status      Status           `json:"status"`
	Params      matching.Params  `json:"params"`
	SortInput   bool             `json:"sort_input"`
	DemandCount int              `json:"demand_count"`
	InputHash   string           `json:"input_hash"`
	Cached      bool             `json:"cached"`
	Stats       simulation.Stats `json:"stats"`
	Output      string           `json:"-"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// Result is written together with a terminal status.
type Result struct {
	Stats       simulation.Stats
	Output      string
	Error       string
	Cached      bool
	CompletedAt time.Time
}
