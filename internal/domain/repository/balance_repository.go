package repository

import (
	"context"
	"stake-tracker/internal/domain/entity"
	"time"
)

// BalanceRepository defines the interface for the point pool row
type BalanceRepository interface {
	// Get retrieves the current balance
	Get(ctx context.Context) (*entity.Balance, error)

	// Reset re-bases the pool to the given point value. This is the only
	// operation that can increase the balance.
	Reset(ctx context.Context, points float64, at time.Time) (*entity.Balance, error)
}
