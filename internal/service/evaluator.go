package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"stake-tracker/internal/domain/entity"
	"stake-tracker/internal/domain/repository"
	"stake-tracker/internal/domain/service"
	"stake-tracker/internal/domain/usage"
)

type evaluator struct {
	ledger    service.LedgerService
	eventRepo repository.EventRepository
	source    usage.Source
	loc       *time.Location
	lookback  int

	// Serializes evaluation runs: a cron tick and a manual invocation must
	// not interleave
	mu sync.Mutex
}

// NewEvaluator creates a new goal evaluator. lookback bounds how many
// completed periods per goal a single run may settle.
func NewEvaluator(
	ledger service.LedgerService,
	eventRepo repository.EventRepository,
	source usage.Source,
	loc *time.Location,
	lookback int,
) service.Evaluator {
	if loc == nil {
		loc = time.Local
	}
	if lookback <= 0 {
		lookback = 7
	}

	return &evaluator{
		ledger:    ledger,
		eventRepo: eventRepo,
		source:    source,
		loc:       loc,
		lookback:  lookback,
	}
}

func (e *evaluator) EvaluateDueGoals(ctx context.Context, now time.Time) ([]*entity.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	goals, err := e.ledger.ListGoals(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list active goals: %w", err)
	}

	var events []*entity.Event

	for _, goal := range goals {
		for _, period := range goal.DuePeriods(now, e.loc, e.lookback) {
			settled, err := e.eventRepo.ExistsForPeriod(ctx, goal.ID, period.Key)
			if err != nil {
				return events, fmt.Errorf("failed to check period %s for goal %s: %w", period.Key, goal.ID, err)
			}
			if settled {
				continue
			}

			observed, err := e.source.Usage(ctx, goal.Target, period.Start, period.End)
			if err != nil {
				// Missing measurements defer the period; it stays
				// pending and is retried on the next run
				if errors.Is(err, usage.ErrUnavailable) {
					log.Printf("Usage unavailable for goal %q period %s, deferring", goal.Name, period.Key)
				} else {
					log.Printf("Usage query failed for goal %q period %s, deferring: %v", goal.Name, period.Key, err)
				}
				continue
			}

			event, err := e.ledger.RecordObservation(ctx, goal.ID, period, observed)
			if err != nil {
				// Settled by a concurrent invocation between the
				// existence check and the append
				if errors.Is(err, repository.ErrDuplicateEvent) {
					continue
				}
				return events, fmt.Errorf("failed to record observation for goal %s period %s: %w", goal.ID, period.Key, err)
			}

			if event.Outcome == entity.OutcomeFail {
				log.Printf("Goal %q failed period %s: %.1f min observed (limit %.1f), %.2f points deducted",
					goal.Name, period.Key, event.ObservedMinutes, goal.LimitMinutes, event.PointsDeducted)
			}

			events = append(events, event)
		}
	}

	return events, nil
}
