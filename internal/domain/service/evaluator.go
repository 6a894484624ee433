package service

import (
	"context"
	"stake-tracker/internal/domain/entity"
	"time"
)

// Evaluator defines the interface for settling due goal-periods
type Evaluator interface {
	// EvaluateDueGoals settles every completed, unsettled period of every
	// active goal as of now. Idempotent per (goal, period): re-invoking
	// for an already-settled period records nothing. Goal-periods whose
	// usage measurement is unavailable are deferred, not failed.
	EvaluateDueGoals(ctx context.Context, now time.Time) ([]*entity.Event, error)
}
