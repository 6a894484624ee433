package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stake-tracker/internal/domain/entity"
	"stake-tracker/internal/domain/repository"
)

type balanceRepository struct {
	db *sql.DB
}

// NewBalanceRepository creates a new SQLite balance repository
func NewBalanceRepository(db *sql.DB) repository.BalanceRepository {
	return &balanceRepository{db: db}
}

func (r *balanceRepository) Get(ctx context.Context) (*entity.Balance, error) {
	query := `SELECT initial_points, points, initialized_at FROM ledger WHERE id = 1`

	var (
		balance       entity.Balance
		initializedAt string
	)

	err := r.db.QueryRowContext(ctx, query).Scan(&balance.InitialPoints, &balance.Points, &initializedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("ledger row: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("get balance: %w: %v", repository.ErrStorageUnavailable, err)
	}

	balance.InitializedAt, err = time.Parse(timeFormat, initializedAt)
	if err != nil {
		return nil, fmt.Errorf("parse initialized_at: %w", err)
	}

	return &balance, nil
}

func (r *balanceRepository) Reset(ctx context.Context, points float64, at time.Time) (*entity.Balance, error) {
	query := `
		UPDATE ledger SET
			initial_points = ?,
			points = ?,
			initialized_at = ?
		WHERE id = 1
	`

	at = at.UTC()
	result, err := r.db.ExecContext(ctx, query, points, points, at.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("reset balance: %w: %v", repository.ErrStorageUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("reset balance: %w: %v", repository.ErrStorageUnavailable, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("ledger row: %w", repository.ErrNotFound)
	}

	return &entity.Balance{
		InitialPoints: points,
		Points:        points,
		InitializedAt: at,
	}, nil
}
