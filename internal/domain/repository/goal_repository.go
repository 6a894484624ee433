package repository

import (
	"context"
	"stake-tracker/internal/domain/entity"

	"github.com/google/uuid"
)

// GoalRepository defines the interface for goal persistence
type GoalRepository interface {
	// Create creates a new goal
	Create(ctx context.Context, goal *entity.Goal) error

	// GetByID retrieves a goal by ID
	GetByID(ctx context.Context, goalID uuid.UUID) (*entity.Goal, error)

	// List retrieves all goals, optionally restricted to active ones
	List(ctx context.Context, activeOnly bool) ([]*entity.Goal, error)

	// Update updates a goal's configuration
	Update(ctx context.Context, goal *entity.Goal) error

	// Deactivate soft deletes a goal (sets is_active = false); its
	// historical events are preserved
	Deactivate(ctx context.Context, goalID uuid.UUID) error
}
