package service

import (
	"context"
	"testing"
	"time"

	"stake-tracker/internal/domain/entity"
	"stake-tracker/internal/domain/usage"

	"github.com/google/uuid"
)

// stubSource serves usage minutes keyed by the period's start date and
// reports everything else as unavailable.
type stubSource struct {
	byDay map[string]float64
	calls int
}

func (s *stubSource) Usage(ctx context.Context, target string, start, end time.Time) (float64, error) {
	s.calls++
	if minutes, ok := s.byDay[start.Format("2006-01-02")]; ok {
		return minutes, nil
	}
	return 0, usage.ErrUnavailable
}

// addBackdatedGoal inserts a goal directly through the repository so its
// creation date lies in the past and completed periods become due.
func (env *testEnv) addBackdatedGoal(t *testing.T, createdAt time.Time) *entity.Goal {
	t.Helper()

	goal := &entity.Goal{
		ID:            uuid.New(),
		Name:          "YouTube daily",
		Target:        "Youtube",
		PeriodType:    entity.PeriodTypeDaily,
		LimitMinutes:  60,
		PenaltyMode:   entity.PenaltyModeFixed,
		PenaltyPoints: 5,
		IsActive:      true,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	if err := env.goalRepo.Create(context.Background(), goal); err != nil {
		t.Fatalf("create backdated goal: %v", err)
	}

	return goal
}

func TestEvaluateDueGoalsSettlesCompletedPeriods(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 23, 21, 0, 0, 0, time.UTC)

	if _, err := env.ledger.ResetPoints(ctx, 100); err != nil {
		t.Fatalf("reset points: %v", err)
	}
	env.addBackdatedGoal(t, now.AddDate(0, 0, -3))

	source := &stubSource{byDay: map[string]float64{
		"2026-08-20": 75, // fail, -5
		"2026-08-21": 40, // pass
		"2026-08-22": 90, // fail, -5
	}}
	eval := NewEvaluator(env.ledger, env.eventRepo, source, time.UTC, 7)

	events, err := eval.EvaluateDueGoals(ctx, now)
	if err != nil {
		t.Fatalf("evaluate due goals: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 settled periods, got %d", len(events))
	}
	if events[0].Period != "2026-08-20" || events[2].Period != "2026-08-22" {
		t.Fatalf("unexpected settled periods: %s .. %s", events[0].Period, events[2].Period)
	}

	balance, err := env.ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Points != 90 {
		t.Fatalf("expected balance 90 after two failures, got %.2f", balance.Points)
	}
}

func TestEvaluateDueGoalsIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 23, 21, 0, 0, 0, time.UTC)

	if _, err := env.ledger.ResetPoints(ctx, 100); err != nil {
		t.Fatalf("reset points: %v", err)
	}
	env.addBackdatedGoal(t, now.AddDate(0, 0, -2))

	source := &stubSource{byDay: map[string]float64{
		"2026-08-21": 75,
		"2026-08-22": 80,
	}}
	eval := NewEvaluator(env.ledger, env.eventRepo, source, time.UTC, 7)

	if _, err := eval.EvaluateDueGoals(ctx, now); err != nil {
		t.Fatalf("first run: %v", err)
	}
	callsAfterFirst := source.calls

	events, err := eval.EvaluateDueGoals(ctx, now)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("second run settled %d periods, expected 0", len(events))
	}
	// Settled periods are skipped before touching the usage source
	if source.calls != callsAfterFirst {
		t.Fatalf("second run queried usage %d more times", source.calls-callsAfterFirst)
	}

	balance, err := env.ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Points != 90 {
		t.Fatalf("second run changed the balance: %.2f", balance.Points)
	}
}

func TestEvaluateDefersUnavailablePeriods(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 23, 21, 0, 0, 0, time.UTC)

	if _, err := env.ledger.ResetPoints(ctx, 100); err != nil {
		t.Fatalf("reset points: %v", err)
	}
	goal := env.addBackdatedGoal(t, now.AddDate(0, 0, -3))

	// No measurement for the 21st yet
	source := &stubSource{byDay: map[string]float64{
		"2026-08-20": 75,
		"2026-08-22": 40,
	}}
	eval := NewEvaluator(env.ledger, env.eventRepo, source, time.UTC, 7)

	events, err := eval.EvaluateDueGoals(ctx, now)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 settled periods with one deferred, got %d", len(events))
	}

	settled, err := env.eventRepo.ExistsForPeriod(ctx, goal.ID, "2026-08-21")
	if err != nil {
		t.Fatalf("check deferred period: %v", err)
	}
	if settled {
		t.Fatal("period without usage data must stay pending")
	}

	// The measurement shows up later; the next run settles only the gap
	source.byDay["2026-08-21"] = 90
	events, err = eval.EvaluateDueGoals(ctx, now)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(events) != 1 || events[0].Period != "2026-08-21" {
		t.Fatalf("expected the deferred period to settle, got %+v", events)
	}

	balance, err := env.ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Points != 90 {
		t.Fatalf("expected balance 90 after both failures, got %.2f", balance.Points)
	}
}

func TestEvaluateSkipsInactiveGoals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 23, 21, 0, 0, 0, time.UTC)

	goal := env.addBackdatedGoal(t, now.AddDate(0, 0, -2))
	if err := env.ledger.DeactivateGoal(ctx, goal.ID); err != nil {
		t.Fatalf("deactivate goal: %v", err)
	}

	source := &stubSource{byDay: map[string]float64{
		"2026-08-21": 75,
		"2026-08-22": 75,
	}}
	eval := NewEvaluator(env.ledger, env.eventRepo, source, time.UTC, 7)

	events, err := eval.EvaluateDueGoals(ctx, now)
	if err != nil {
		t.Fatalf("evaluate due goals: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("deactivated goal was evaluated: %d events", len(events))
	}
	if source.calls != 0 {
		t.Fatalf("usage queried for a deactivated goal %d times", source.calls)
	}
}

func TestEvaluateRespectsLookback(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 23, 21, 0, 0, 0, time.UTC)

	env.addBackdatedGoal(t, now.AddDate(0, 0, -30))

	source := &stubSource{byDay: map[string]float64{
		"2026-08-21": 10,
		"2026-08-22": 10,
	}}
	eval := NewEvaluator(env.ledger, env.eventRepo, source, time.UTC, 2)

	events, err := eval.EvaluateDueGoals(ctx, now)
	if err != nil {
		t.Fatalf("evaluate due goals: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected the 2 most recent periods, got %d", len(events))
	}
	if source.calls != 2 {
		t.Fatalf("lookback not enforced, %d usage queries", source.calls)
	}
}
