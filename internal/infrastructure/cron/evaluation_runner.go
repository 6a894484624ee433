package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"stake-tracker/internal/domain/service"

	"github.com/robfig/cron/v3"
)

// EvaluationRunner periodically settles due goal-periods
type EvaluationRunner struct {
	evaluator service.Evaluator
	cron      *cron.Cron
	spec      string
}

// NewEvaluationRunner creates a new evaluation runner. The schedule runs in
// loc, so "0 21 * * *" means 21:00 local to the configured timezone.
func NewEvaluationRunner(evaluator service.Evaluator, spec string, loc *time.Location) *EvaluationRunner {
	if loc == nil {
		loc = time.Local
	}

	return &EvaluationRunner{
		evaluator: evaluator,
		cron:      cron.New(cron.WithLocation(loc)),
		spec:      spec,
	}
}

// Start starts the evaluation runner
func (r *EvaluationRunner) Start() error {
	log.Printf("Starting evaluation runner with schedule: %s", r.spec)

	_, err := r.cron.AddFunc(r.spec, func() {
		r.runEvaluation()
	})

	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	r.cron.Start()
	log.Println("Evaluation runner started successfully")

	return nil
}

// Stop stops the evaluation runner, draining any running job
func (r *EvaluationRunner) Stop() {
	log.Println("Stopping evaluation runner...")
	ctx := r.cron.Stop()
	<-ctx.Done()
	log.Println("Evaluation runner stopped")
}

// runEvaluation runs one evaluation pass
func (r *EvaluationRunner) runEvaluation() {
	log.Println("Running goal evaluation...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	events, err := r.evaluator.EvaluateDueGoals(ctx, time.Now())
	if err != nil {
		log.Printf("Error evaluating goals: %v", err)
		return
	}

	log.Printf("Goal evaluation completed: %d period(s) settled", len(events))
}
