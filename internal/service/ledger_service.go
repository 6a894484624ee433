package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"stake-tracker/internal/domain/entity"
	"stake-tracker/internal/domain/repository"
	"stake-tracker/internal/domain/service"

	"github.com/google/uuid"
)

const balanceEpsilon = 1e-6

type ledgerService struct {
	goalRepo    repository.GoalRepository
	eventRepo   repository.EventRepository
	balanceRepo repository.BalanceRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	goalRepo repository.GoalRepository,
	eventRepo repository.EventRepository,
	balanceRepo repository.BalanceRepository,
) service.LedgerService {
	return &ledgerService{
		goalRepo:    goalRepo,
		eventRepo:   eventRepo,
		balanceRepo: balanceRepo,
	}
}

func (s *ledgerService) AddGoal(ctx context.Context, name, target string, description *string,
	periodType entity.PeriodType, limitMinutes float64,
	penaltyMode entity.PenaltyMode, penaltyPoints, pointsPerMinute float64) (*entity.Goal, error) {

	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	if target == "" {
		return nil, fmt.Errorf("target is required")
	}

	if periodType != entity.PeriodTypeDaily && periodType != entity.PeriodTypeWeekly {
		return nil, fmt.Errorf("period type must be %q or %q", entity.PeriodTypeDaily, entity.PeriodTypeWeekly)
	}

	if limitMinutes <= 0 {
		return nil, fmt.Errorf("limit_minutes must be positive")
	}

	switch penaltyMode {
	case entity.PenaltyModeFixed:
		if penaltyPoints <= 0 {
			return nil, fmt.Errorf("penalty_points must be positive for fixed penalty")
		}
	case entity.PenaltyModePerMinute:
		if pointsPerMinute <= 0 {
			return nil, fmt.Errorf("points_per_minute must be positive for per_minute penalty")
		}
	default:
		return nil, fmt.Errorf("penalty mode must be %q or %q", entity.PenaltyModeFixed, entity.PenaltyModePerMinute)
	}

	now := time.Now().UTC()
	goal := &entity.Goal{
		ID:              uuid.New(),
		Name:            name,
		Target:          target,
		Description:     description,
		PeriodType:      periodType,
		LimitMinutes:    limitMinutes,
		PenaltyMode:     penaltyMode,
		PenaltyPoints:   penaltyPoints,
		PointsPerMinute: pointsPerMinute,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.goalRepo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *ledgerService) GetGoal(ctx context.Context, goalID uuid.UUID) (*entity.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("goal %s: %w", goalID, service.ErrUnknownGoal)
		}
		return nil, err
	}

	return goal, nil
}

func (s *ledgerService) ListGoals(ctx context.Context, activeOnly bool) ([]*entity.Goal, error) {
	return s.goalRepo.List(ctx, activeOnly)
}

func (s *ledgerService) UpdateGoal(ctx context.Context, goalID uuid.UUID, name, description *string,
	limitMinutes, penaltyPoints, pointsPerMinute *float64) (*entity.Goal, error) {

	goal, err := s.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		goal.Name = *name
	}

	if description != nil {
		goal.Description = description
	}

	if limitMinutes != nil {
		if *limitMinutes <= 0 {
			return nil, fmt.Errorf("limit_minutes must be positive")
		}
		goal.LimitMinutes = *limitMinutes
	}

	if penaltyPoints != nil {
		if *penaltyPoints <= 0 {
			return nil, fmt.Errorf("penalty_points must be positive")
		}
		goal.PenaltyPoints = *penaltyPoints
	}

	if pointsPerMinute != nil {
		if *pointsPerMinute <= 0 {
			return nil, fmt.Errorf("points_per_minute must be positive")
		}
		goal.PointsPerMinute = *pointsPerMinute
	}

	goal.UpdatedAt = time.Now().UTC()

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return goal, nil
}

func (s *ledgerService) DeactivateGoal(ctx context.Context, goalID uuid.UUID) error {
	err := s.goalRepo.Deactivate(ctx, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("goal %s: %w", goalID, service.ErrUnknownGoal)
		}
		return err
	}

	return nil
}

func (s *ledgerService) RecordObservation(ctx context.Context, goalID uuid.UUID, period entity.Period,
	observedMinutes float64) (*entity.Event, error) {

	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("goal %s: %w", goalID, service.ErrUnknownGoal)
		}
		return nil, err
	}

	if !goal.IsActive {
		return nil, fmt.Errorf("goal %s: %w", goalID, service.ErrUnknownGoal)
	}

	if observedMinutes < 0 {
		return nil, fmt.Errorf("observed_minutes must not be negative")
	}

	outcome, deducted := goal.Evaluate(observedMinutes)

	event := &entity.Event{
		ID:              uuid.New(),
		GoalID:          goal.ID,
		Period:          period.Key,
		ObservedMinutes: observedMinutes,
		Outcome:         outcome,
		PointsDeducted:  deducted,
		RecordedAt:      time.Now().UTC(),
	}

	if err := s.eventRepo.Append(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (s *ledgerService) CurrentBalance(ctx context.Context) (*entity.Balance, error) {
	return s.balanceRepo.Get(ctx)
}

func (s *ledgerService) History(ctx context.Context, goalID uuid.UUID, from, to time.Time) ([]*entity.Event, error) {
	// Verify the goal exists; deactivated goals keep their history
	if _, err := s.goalRepo.GetByID(ctx, goalID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("goal %s: %w", goalID, service.ErrUnknownGoal)
		}
		return nil, err
	}

	return s.eventRepo.GetByGoalID(ctx, goalID, from, to)
}

func (s *ledgerService) ResetPoints(ctx context.Context, points float64) (*entity.Balance, error) {
	return s.balanceRepo.Reset(ctx, points, time.Now().UTC())
}

func (s *ledgerService) VerifyBalance(ctx context.Context) (*service.IntegrityReport, error) {
	balance, err := s.balanceRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	deducted, err := s.eventRepo.SumDeductedSince(ctx, balance.InitializedAt)
	if err != nil {
		return nil, err
	}

	report := &service.IntegrityReport{
		InitialPoints:   balance.InitialPoints,
		Balance:         balance.Points,
		TotalDeducted:   deducted,
		ExpectedBalance: balance.InitialPoints - deducted,
	}
	report.Consistent = math.Abs(report.Balance-report.ExpectedBalance) < balanceEpsilon

	return report, nil
}

func (s *ledgerService) Snapshot(ctx context.Context) (*entity.Snapshot, error) {
	balance, err := s.balanceRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	goals, err := s.goalRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return &entity.Snapshot{
		ExportedAt: time.Now().UTC(),
		Balance:    balance,
		Goals:      goals,
		Events:     events,
	}, nil
}
