package entity

import "testing"

func TestEvaluateFixedPenalty(t *testing.T) {
	goal := &Goal{
		LimitMinutes:  60,
		PenaltyMode:   PenaltyModeFixed,
		PenaltyPoints: 5,
	}

	outcome, deducted := goal.Evaluate(75)
	if outcome != OutcomeFail || deducted != 5 {
		t.Fatalf("expected fail/5, got %s/%.2f", outcome, deducted)
	}

	outcome, deducted = goal.Evaluate(40)
	if outcome != OutcomePass || deducted != 0 {
		t.Fatalf("expected pass/0, got %s/%.2f", outcome, deducted)
	}
}

func TestEvaluateAtLimitPasses(t *testing.T) {
	goal := &Goal{
		LimitMinutes:  60,
		PenaltyMode:   PenaltyModeFixed,
		PenaltyPoints: 5,
	}

	outcome, deducted := goal.Evaluate(60)
	if outcome != OutcomePass || deducted != 0 {
		t.Fatalf("usage at the limit should pass, got %s/%.2f", outcome, deducted)
	}
}

func TestEvaluatePerMinutePenalty(t *testing.T) {
	goal := &Goal{
		LimitMinutes:    120,
		PenaltyMode:     PenaltyModePerMinute,
		PointsPerMinute: 0.5,
	}

	outcome, deducted := goal.Evaluate(150)
	if outcome != OutcomeFail {
		t.Fatalf("expected fail, got %s", outcome)
	}
	if deducted != 15 {
		t.Fatalf("expected 30 overage minutes at 0.5 = 15 points, got %.2f", deducted)
	}
}
