package entity

import (
	"time"

	"github.com/google/uuid"
)

// PeriodType represents the recurring window a goal is evaluated over
type PeriodType string

const (
	PeriodTypeDaily  PeriodType = "daily"  // Calendar day
	PeriodTypeWeekly PeriodType = "weekly" // ISO week, Monday start
)

// PenaltyMode represents how points are deducted when a goal fails
type PenaltyMode string

const (
	PenaltyModeFixed     PenaltyMode = "fixed"      // Flat deduction per failed period
	PenaltyModePerMinute PenaltyMode = "per_minute" // Deduction proportional to overage minutes
)

// Goal represents a usage constraint staked against the point pool
type Goal struct {
	ID uuid.UUID `json:"id"`

	// Basic info
	Name        string  `json:"name"`
	Target      string  `json:"target"` // Simplified app or domain name matched against usage data
	Description *string `json:"description,omitempty"`

	// Evaluation configuration
	PeriodType   PeriodType `json:"period_type"`
	LimitMinutes float64    `json:"limit_minutes"`

	// Penalty configuration
	PenaltyMode     PenaltyMode `json:"penalty_mode"`
	PenaltyPoints   float64     `json:"penalty_points"`    // Used for fixed mode
	PointsPerMinute float64     `json:"points_per_minute"` // Used for per_minute mode

	// Metadata
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDaily returns true if the goal is evaluated per calendar day
func (g *Goal) IsDaily() bool {
	return g.PeriodType == PeriodTypeDaily
}

// IsWeekly returns true if the goal is evaluated per ISO week
func (g *Goal) IsWeekly() bool {
	return g.PeriodType == PeriodTypeWeekly
}

// Evaluate computes the outcome and deduction for an observed usage value.
// Usage at or below the limit passes and deducts nothing.
func (g *Goal) Evaluate(observedMinutes float64) (Outcome, float64) {
	if observedMinutes <= g.LimitMinutes {
		return OutcomePass, 0
	}

	if g.PenaltyMode == PenaltyModePerMinute {
		overage := observedMinutes - g.LimitMinutes
		return OutcomeFail, overage * g.PointsPerMinute
	}

	return OutcomeFail, g.PenaltyPoints
}
