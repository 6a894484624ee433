package repository

import (
	"context"
	"stake-tracker/internal/domain/entity"
	"time"

	"github.com/google/uuid"
)

// EventRepository defines the interface for the append-only event log
type EventRepository interface {
	// Append records an event and applies its deduction to the balance in
	// a single transaction. Returns ErrDuplicateEvent if the goal-period
	// is already settled.
	Append(ctx context.Context, event *entity.Event) error

	// GetByGoalID retrieves events for a goal within [from, to), ordered
	// by ascending recorded_at
	GetByGoalID(ctx context.Context, goalID uuid.UUID, from, to time.Time) ([]*entity.Event, error)

	// ListAll retrieves every event ordered by ascending recorded_at
	ListAll(ctx context.Context) ([]*entity.Event, error)

	// ExistsForPeriod checks whether a goal-period is already settled
	ExistsForPeriod(ctx context.Context, goalID uuid.UUID, period string) (bool, error)

	// SumDeductedSince returns the total points deducted by events
	// recorded at or after the given instant
	SumDeductedSince(ctx context.Context, since time.Time) (float64, error)
}
