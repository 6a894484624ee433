package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stake-tracker/internal/domain/entity"
	"stake-tracker/internal/domain/repository"

	"github.com/google/uuid"
)

type goalRepository struct {
	db *sql.DB
}

// NewGoalRepository creates a new SQLite goal repository
func NewGoalRepository(db *sql.DB) repository.GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *entity.Goal) error {
	query := `
		INSERT INTO goals (
			id, name, target, description,
			period_type, limit_minutes,
			penalty_mode, penalty_points, points_per_minute,
			is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID.String(), goal.Name, goal.Target, goal.Description,
		string(goal.PeriodType), goal.LimitMinutes,
		string(goal.PenaltyMode), goal.PenaltyPoints, goal.PointsPerMinute,
		goal.IsActive, goal.CreatedAt.Format(timeFormat), goal.UpdatedAt.Format(timeFormat),
	)

	if err != nil {
		return fmt.Errorf("create goal: %w: %v", repository.ErrStorageUnavailable, err)
	}

	return nil
}

func (r *goalRepository) GetByID(ctx context.Context, goalID uuid.UUID) (*entity.Goal, error) {
	query := `
		SELECT
			id, name, target, description,
			period_type, limit_minutes,
			penalty_mode, penalty_points, points_per_minute,
			is_active, created_at, updated_at
		FROM goals
		WHERE id = ?
	`

	goal, err := scanGoal(r.db.QueryRowContext(ctx, query, goalID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("goal %s: %w", goalID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("get goal: %w: %v", repository.ErrStorageUnavailable, err)
	}

	return goal, nil
}

func (r *goalRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Goal, error) {
	query := `
		SELECT
			id, name, target, description,
			period_type, limit_minutes,
			penalty_mode, penalty_points, points_per_minute,
			is_active, created_at, updated_at
		FROM goals
	`

	if activeOnly {
		query += " WHERE is_active = 1"
	}

	query += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w: %v", repository.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var goals []*entity.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w: %v", repository.ErrStorageUnavailable, err)
	}

	return goals, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *entity.Goal) error {
	query := `
		UPDATE goals SET
			name = ?,
			description = ?,
			limit_minutes = ?,
			penalty_points = ?,
			points_per_minute = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		goal.Name, goal.Description,
		goal.LimitMinutes, goal.PenaltyPoints, goal.PointsPerMinute,
		time.Now().UTC().Format(timeFormat), goal.ID.String(),
	)

	if err != nil {
		return fmt.Errorf("update goal: %w: %v", repository.ErrStorageUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update goal: %w: %v", repository.ErrStorageUnavailable, err)
	}
	if affected == 0 {
		return fmt.Errorf("goal %s: %w", goal.ID, repository.ErrNotFound)
	}

	return nil
}

func (r *goalRepository) Deactivate(ctx context.Context, goalID uuid.UUID) error {
	query := `
		UPDATE goals SET
			is_active = 0,
			updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC().Format(timeFormat), goalID.String())
	if err != nil {
		return fmt.Errorf("deactivate goal: %w: %v", repository.ErrStorageUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate goal: %w: %v", repository.ErrStorageUnavailable, err)
	}
	if affected == 0 {
		return fmt.Errorf("goal %s: %w", goalID, repository.ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (*entity.Goal, error) {
	var (
		goal               entity.Goal
		id                 string
		description        sql.NullString
		periodType         string
		penaltyMode        string
		createdAt, updated string
	)

	err := row.Scan(
		&id, &goal.Name, &goal.Target, &description,
		&periodType, &goal.LimitMinutes,
		&penaltyMode, &goal.PenaltyPoints, &goal.PointsPerMinute,
		&goal.IsActive, &createdAt, &updated,
	)
	if err != nil {
		return nil, err
	}

	goal.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse goal id: %w", err)
	}

	if description.Valid {
		goal.Description = &description.String
	}

	goal.PeriodType = entity.PeriodType(periodType)
	goal.PenaltyMode = entity.PenaltyMode(penaltyMode)

	goal.CreatedAt, err = time.Parse(timeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	goal.UpdatedAt, err = time.Parse(timeFormat, updated)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &goal, nil
}
