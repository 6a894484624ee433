package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stake-tracker/internal/domain/entity"
	"stake-tracker/internal/domain/repository"

	"github.com/google/uuid"
)

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new SQLite event repository
func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

// Append inserts the event and applies its deduction to the balance row in
// one transaction. A partially applied deduction can never be observed.
func (r *eventRepository) Append(ctx context.Context, event *entity.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w: %v", repository.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO events (
			id, goal_id, period, observed_minutes, outcome, points_deducted, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, insertQuery,
		event.ID.String(), event.GoalID.String(), event.Period,
		event.ObservedMinutes, string(event.Outcome), event.PointsDeducted,
		event.RecordedAt.Format(timeFormat),
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("goal %s period %s: %w", event.GoalID, event.Period, repository.ErrDuplicateEvent)
		}
		return fmt.Errorf("insert event: %w: %v", repository.ErrStorageUnavailable, err)
	}

	updateQuery := `UPDATE ledger SET points = points - ? WHERE id = 1`

	result, err := tx.ExecContext(ctx, updateQuery, event.PointsDeducted)
	if err != nil {
		return fmt.Errorf("apply deduction: %w: %v", repository.ErrStorageUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply deduction: %w: %v", repository.ErrStorageUnavailable, err)
	}
	if affected == 0 {
		return fmt.Errorf("ledger row missing: %w", repository.ErrStorageUnavailable)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w: %v", repository.ErrStorageUnavailable, err)
	}

	return nil
}

func (r *eventRepository) GetByGoalID(ctx context.Context, goalID uuid.UUID, from, to time.Time) ([]*entity.Event, error) {
	query := `
		SELECT id, goal_id, period, observed_minutes, outcome, points_deducted, recorded_at
		FROM events
		WHERE goal_id = ? AND recorded_at >= ? AND recorded_at < ?
		ORDER BY recorded_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query,
		goalID.String(), from.UTC().Format(timeFormat), to.UTC().Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("get events: %w: %v", repository.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *eventRepository) ListAll(ctx context.Context) ([]*entity.Event, error) {
	query := `
		SELECT id, goal_id, period, observed_minutes, outcome, points_deducted, recorded_at
		FROM events
		ORDER BY recorded_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w: %v", repository.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *eventRepository) ExistsForPeriod(ctx context.Context, goalID uuid.UUID, period string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM events WHERE goal_id = ? AND period = ?
		)
	`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, goalID.String(), period).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check event existence: %w: %v", repository.ErrStorageUnavailable, err)
	}

	return exists, nil
}

func (r *eventRepository) SumDeductedSince(ctx context.Context, since time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(points_deducted), 0)
		FROM events
		WHERE recorded_at >= ?
	`

	var sum float64
	err := r.db.QueryRowContext(ctx, query, since.UTC().Format(timeFormat)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum deductions: %w: %v", repository.ErrStorageUnavailable, err)
	}

	return sum, nil
}

func collectEvents(rows *sql.Rows) ([]*entity.Event, error) {
	var events []*entity.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w: %v", repository.ErrStorageUnavailable, err)
	}

	return events, nil
}

func scanEvent(row rowScanner) (*entity.Event, error) {
	var (
		event      entity.Event
		id, goalID string
		outcome    string
		recordedAt string
	)

	err := row.Scan(&id, &goalID, &event.Period, &event.ObservedMinutes, &outcome, &event.PointsDeducted, &recordedAt)
	if err != nil {
		return nil, err
	}

	event.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse event id: %w", err)
	}
	event.GoalID, err = uuid.Parse(goalID)
	if err != nil {
		return nil, fmt.Errorf("parse goal id: %w", err)
	}

	event.Outcome = entity.Outcome(outcome)

	event.RecordedAt, err = time.Parse(timeFormat, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("parse recorded_at: %w", err)
	}

	return &event, nil
}
