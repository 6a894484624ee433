package entity

import (
	"time"

	"github.com/google/uuid"
)

// Outcome represents the result of evaluating a goal over one period
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeFail Outcome = "fail"
)

// Event is the immutable audit record of one goal evaluation.
// At most one event exists per (goal, period).
type Event struct {
	ID     uuid.UUID `json:"id"`
	GoalID uuid.UUID `json:"goal_id"`

	// Period key in the goal's period format, e.g. "2026-08-22" or "2026-W34"
	Period string `json:"period"`

	// Evaluation details
	ObservedMinutes float64 `json:"observed_minutes"`
	Outcome         Outcome `json:"outcome"`
	PointsDeducted  float64 `json:"points_deducted"`

	// Metadata
	RecordedAt time.Time `json:"recorded_at"`
}
