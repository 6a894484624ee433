package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"stake-tracker/internal/domain/entity"
	"stake-tracker/internal/domain/repository"
	domainservice "stake-tracker/internal/domain/service"
	"stake-tracker/internal/infrastructure/sqlite"

	"github.com/google/uuid"
)

type testEnv struct {
	ledger      domainservice.LedgerService
	goalRepo    repository.GoalRepository
	eventRepo   repository.EventRepository
	balanceRepo repository.BalanceRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "stake.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	goalRepo := sqlite.NewGoalRepository(db)
	eventRepo := sqlite.NewEventRepository(db)
	balanceRepo := sqlite.NewBalanceRepository(db)

	return &testEnv{
		ledger:      NewLedgerService(goalRepo, eventRepo, balanceRepo),
		goalRepo:    goalRepo,
		eventRepo:   eventRepo,
		balanceRepo: balanceRepo,
	}
}

func (env *testEnv) addFixedGoal(t *testing.T, limit, penalty float64) *entity.Goal {
	t.Helper()

	goal, err := env.ledger.AddGoal(context.Background(), "YouTube daily", "Youtube", nil,
		entity.PeriodTypeDaily, limit, entity.PenaltyModeFixed, penalty, 0)
	if err != nil {
		t.Fatalf("add goal: %v", err)
	}

	return goal
}

func TestRecordObservationDeductsOnFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.ledger.ResetPoints(ctx, 100); err != nil {
		t.Fatalf("reset points: %v", err)
	}

	goal := env.addFixedGoal(t, 60, 5)
	loc := time.UTC

	// Day one: 75 minutes against a 60-minute limit
	dayOne := entity.DailyPeriodAt(time.Date(2026, 8, 21, 12, 0, 0, 0, loc), loc)
	event, err := env.ledger.RecordObservation(ctx, goal.ID, dayOne, 75)
	if err != nil {
		t.Fatalf("record observation: %v", err)
	}
	if event.Outcome != entity.OutcomeFail || event.PointsDeducted != 5 {
		t.Fatalf("expected fail/5, got %s/%.2f", event.Outcome, event.PointsDeducted)
	}

	balance, err := env.ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Points != 95 {
		t.Fatalf("expected balance 95, got %.2f", balance.Points)
	}

	// Day two: under the limit, nothing deducted
	dayTwo := entity.DailyPeriodAt(time.Date(2026, 8, 22, 12, 0, 0, 0, loc), loc)
	event, err = env.ledger.RecordObservation(ctx, goal.ID, dayTwo, 40)
	if err != nil {
		t.Fatalf("record observation: %v", err)
	}
	if event.Outcome != entity.OutcomePass || event.PointsDeducted != 0 {
		t.Fatalf("expected pass/0, got %s/%.2f", event.Outcome, event.PointsDeducted)
	}

	balance, err = env.ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Points != 95 {
		t.Fatalf("pass must not change the balance, got %.2f", balance.Points)
	}
}

func TestRecordObservationSamePeriodTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	goal := env.addFixedGoal(t, 60, 5)
	period := entity.DailyPeriodAt(time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC), time.UTC)

	if _, err := env.ledger.RecordObservation(ctx, goal.ID, period, 75); err != nil {
		t.Fatalf("first record: %v", err)
	}

	_, err := env.ledger.RecordObservation(ctx, goal.ID, period, 75)
	if !errors.Is(err, repository.ErrDuplicateEvent) {
		t.Fatalf("expected ErrDuplicateEvent, got %v", err)
	}
}

func TestRecordObservationUnknownGoal(t *testing.T) {
	env := newTestEnv(t)
	period := entity.DailyPeriodAt(time.Now(), time.UTC)

	_, err := env.ledger.RecordObservation(context.Background(), uuid.New(), period, 30)
	if !errors.Is(err, domainservice.ErrUnknownGoal) {
		t.Fatalf("expected ErrUnknownGoal, got %v", err)
	}
}

func TestRecordObservationInactiveGoal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	goal := env.addFixedGoal(t, 60, 5)
	if err := env.ledger.DeactivateGoal(ctx, goal.ID); err != nil {
		t.Fatalf("deactivate goal: %v", err)
	}

	period := entity.DailyPeriodAt(time.Now(), time.UTC)
	_, err := env.ledger.RecordObservation(ctx, goal.ID, period, 75)
	if !errors.Is(err, domainservice.ErrUnknownGoal) {
		t.Fatalf("expected ErrUnknownGoal for inactive goal, got %v", err)
	}
}

func TestRecordObservationRejectsNegativeMinutes(t *testing.T) {
	env := newTestEnv(t)

	goal := env.addFixedGoal(t, 60, 5)
	period := entity.DailyPeriodAt(time.Now(), time.UTC)

	if _, err := env.ledger.RecordObservation(context.Background(), goal.ID, period, -1); err == nil {
		t.Fatal("expected error for negative observed minutes")
	}
}

func TestBalanceCanGoNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.ledger.ResetPoints(ctx, 3); err != nil {
		t.Fatalf("reset points: %v", err)
	}

	goal := env.addFixedGoal(t, 60, 5)
	period := entity.DailyPeriodAt(time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC), time.UTC)

	if _, err := env.ledger.RecordObservation(ctx, goal.ID, period, 90); err != nil {
		t.Fatalf("record observation: %v", err)
	}

	balance, err := env.ledger.CurrentBalance(ctx)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance.Points != -2 {
		t.Fatalf("expected balance -2, got %.2f", balance.Points)
	}
}

func TestHistorySurvivesDeactivation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	goal := env.addFixedGoal(t, 60, 5)
	period := entity.DailyPeriodAt(time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC), time.UTC)

	if _, err := env.ledger.RecordObservation(ctx, goal.ID, period, 75); err != nil {
		t.Fatalf("record observation: %v", err)
	}
	if err := env.ledger.DeactivateGoal(ctx, goal.ID); err != nil {
		t.Fatalf("deactivate goal: %v", err)
	}

	events, err := env.ledger.History(ctx, goal.ID, time.Time{}, time.Now().AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(events) != 1 || events[0].Period != period.Key {
		t.Fatalf("expected the recorded event to survive deactivation, got %+v", events)
	}
}

func TestUpdateGoal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	goal := env.addFixedGoal(t, 60, 5)

	newLimit := 90.0
	newName := "YouTube relaxed"
	updated, err := env.ledger.UpdateGoal(ctx, goal.ID, &newName, nil, &newLimit, nil, nil)
	if err != nil {
		t.Fatalf("update goal: %v", err)
	}
	if updated.Name != newName || updated.LimitMinutes != 90 {
		t.Fatalf("update not applied: %+v", updated)
	}

	got, err := env.ledger.GetGoal(ctx, goal.ID)
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if got.LimitMinutes != 90 {
		t.Fatalf("update not persisted: %.1f", got.LimitMinutes)
	}
}

func TestVerifyBalanceConsistent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.ledger.ResetPoints(ctx, 100); err != nil {
		t.Fatalf("reset points: %v", err)
	}

	goal := env.addFixedGoal(t, 60, 5)
	loc := time.UTC
	for day := 20; day <= 22; day++ {
		period := entity.DailyPeriodAt(time.Date(2026, 8, day, 12, 0, 0, 0, loc), loc)
		if _, err := env.ledger.RecordObservation(ctx, goal.ID, period, 75); err != nil {
			t.Fatalf("record observation for day %d: %v", day, err)
		}
	}

	report, err := env.ledger.VerifyBalance(ctx)
	if err != nil {
		t.Fatalf("verify balance: %v", err)
	}
	if !report.Consistent {
		t.Fatalf("expected consistent ledger, got %+v", report)
	}
	if report.TotalDeducted != 15 || report.Balance != 85 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestVerifyBalanceDetectsTamper(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.ledger.ResetPoints(ctx, 100); err != nil {
		t.Fatalf("reset points: %v", err)
	}

	goal := env.addFixedGoal(t, 60, 5)
	period := entity.DailyPeriodAt(time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC), time.UTC)
	if _, err := env.ledger.RecordObservation(ctx, goal.ID, period, 75); err != nil {
		t.Fatalf("record observation: %v", err)
	}

	// A raw balance edit bypassing the event log must be detected
	if _, err := env.balanceRepo.Reset(ctx, 100, time.Time{}); err != nil {
		t.Fatalf("tamper with balance: %v", err)
	}

	report, err := env.ledger.VerifyBalance(ctx)
	if err != nil {
		t.Fatalf("verify balance: %v", err)
	}
	if report.Consistent {
		t.Fatalf("expected inconsistency after raw balance edit, got %+v", report)
	}
}

func TestResetRebasesReplay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.ledger.ResetPoints(ctx, 100); err != nil {
		t.Fatalf("initial reset: %v", err)
	}

	goal := env.addFixedGoal(t, 60, 5)
	period := entity.DailyPeriodAt(time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC), time.UTC)
	if _, err := env.ledger.RecordObservation(ctx, goal.ID, period, 75); err != nil {
		t.Fatalf("record observation: %v", err)
	}

	// Re-basing the pool leaves old events in the log but outside the replay
	// window, so the fresh pool verifies clean
	if _, err := env.ledger.ResetPoints(ctx, 50); err != nil {
		t.Fatalf("second reset: %v", err)
	}

	report, err := env.ledger.VerifyBalance(ctx)
	if err != nil {
		t.Fatalf("verify balance: %v", err)
	}
	if !report.Consistent || report.TotalDeducted != 0 || report.Balance != 50 {
		t.Fatalf("unexpected report after re-base: %+v", report)
	}

	events, err := env.ledger.History(ctx, goal.ID, time.Time{}, time.Now().AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("re-base must not erase the audit log, got %d events", len(events))
	}
}

func TestSnapshotContents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.ledger.ResetPoints(ctx, 100); err != nil {
		t.Fatalf("reset points: %v", err)
	}

	goal := env.addFixedGoal(t, 60, 5)
	if err := env.ledger.DeactivateGoal(ctx, goal.ID); err != nil {
		t.Fatalf("deactivate goal: %v", err)
	}
	other := env.addFixedGoal(t, 120, 10)

	period := entity.DailyPeriodAt(time.Date(2026, 8, 22, 12, 0, 0, 0, time.UTC), time.UTC)
	if _, err := env.ledger.RecordObservation(ctx, other.ID, period, 130); err != nil {
		t.Fatalf("record observation: %v", err)
	}

	snapshot, err := env.ledger.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	// Deactivated goals are part of the export
	if len(snapshot.Goals) != 2 {
		t.Fatalf("expected 2 goals in snapshot, got %d", len(snapshot.Goals))
	}
	if len(snapshot.Events) != 1 {
		t.Fatalf("expected 1 event in snapshot, got %d", len(snapshot.Events))
	}
	if snapshot.Balance == nil || snapshot.Balance.Points != 90 {
		t.Fatalf("unexpected snapshot balance: %+v", snapshot.Balance)
	}
}

func TestAddGoalValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		run  func() error
	}{
		{"missing name", func() error {
			_, err := env.ledger.AddGoal(ctx, "", "Youtube", nil,
				entity.PeriodTypeDaily, 60, entity.PenaltyModeFixed, 5, 0)
			return err
		}},
		{"missing target", func() error {
			_, err := env.ledger.AddGoal(ctx, "YouTube daily", "", nil,
				entity.PeriodTypeDaily, 60, entity.PenaltyModeFixed, 5, 0)
			return err
		}},
		{"bad period type", func() error {
			_, err := env.ledger.AddGoal(ctx, "YouTube daily", "Youtube", nil,
				entity.PeriodType("monthly"), 60, entity.PenaltyModeFixed, 5, 0)
			return err
		}},
		{"zero limit", func() error {
			_, err := env.ledger.AddGoal(ctx, "YouTube daily", "Youtube", nil,
				entity.PeriodTypeDaily, 0, entity.PenaltyModeFixed, 5, 0)
			return err
		}},
		{"fixed without penalty points", func() error {
			_, err := env.ledger.AddGoal(ctx, "YouTube daily", "Youtube", nil,
				entity.PeriodTypeDaily, 60, entity.PenaltyModeFixed, 0, 0)
			return err
		}},
		{"per_minute without rate", func() error {
			_, err := env.ledger.AddGoal(ctx, "YouTube daily", "Youtube", nil,
				entity.PeriodTypeDaily, 60, entity.PenaltyModePerMinute, 0, 0)
			return err
		}},
	}

	for _, tc := range cases {
		if err := tc.run(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
