package service

import (
	"context"
	"errors"
	"stake-tracker/internal/domain/entity"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownGoal is returned when an operation references a goal that does
// not exist or has been deactivated
var ErrUnknownGoal = errors.New("unknown or inactive goal")

// IntegrityReport is the result of replaying the event log against the
// stored balance
type IntegrityReport struct {
	InitialPoints   float64
	Balance         float64
	TotalDeducted   float64
	ExpectedBalance float64
	Consistent      bool
}

// LedgerService defines the interface for the ledger store business logic
type LedgerService interface {
	// AddGoal creates a new goal staked against the point pool
	AddGoal(ctx context.Context, name, target string, description *string,
		periodType entity.PeriodType, limitMinutes float64,
		penaltyMode entity.PenaltyMode, penaltyPoints, pointsPerMinute float64) (*entity.Goal, error)

	// GetGoal retrieves a goal by ID
	GetGoal(ctx context.Context, goalID uuid.UUID) (*entity.Goal, error)

	// ListGoals retrieves all goals, optionally restricted to active ones
	ListGoals(ctx context.Context, activeOnly bool) ([]*entity.Goal, error)

	// UpdateGoal updates a goal's configuration
	UpdateGoal(ctx context.Context, goalID uuid.UUID, name, description *string,
		limitMinutes, penaltyPoints, pointsPerMinute *float64) (*entity.Goal, error)

	// DeactivateGoal soft deletes a goal, preserving its event history
	DeactivateGoal(ctx context.Context, goalID uuid.UUID) error

	// RecordObservation evaluates the goal against the observed usage for
	// one period, deducts the penalty on failure and appends the event.
	// The event append and the balance decrement are atomic.
	RecordObservation(ctx context.Context, goalID uuid.UUID, period entity.Period,
		observedMinutes float64) (*entity.Event, error)

	// CurrentBalance retrieves the point pool state; read-only
	CurrentBalance(ctx context.Context) (*entity.Balance, error)

	// History retrieves a goal's events within [from, to), ascending by
	// recorded_at
	History(ctx context.Context, goalID uuid.UUID, from, to time.Time) ([]*entity.Event, error)

	// ResetPoints re-bases the point pool; the explicit user-only
	// replenishment path
	ResetPoints(ctx context.Context, points float64) (*entity.Balance, error)

	// VerifyBalance replays the event log and checks it against the
	// stored balance
	VerifyBalance(ctx context.Context) (*IntegrityReport, error)

	// Snapshot assembles the JSON export document
	Snapshot(ctx context.Context) (*entity.Snapshot, error)
}
