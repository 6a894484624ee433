package app

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stake-tracker/internal/config"
	domainservice "stake-tracker/internal/domain/service"
	"stake-tracker/internal/domain/usage"
	cronpkg "stake-tracker/internal/infrastructure/cron"
	"stake-tracker/internal/infrastructure/knowledge"
	"stake-tracker/internal/infrastructure/sqlite"
	"stake-tracker/internal/service"
)

// App represents the application
type App struct {
	config    *config.Config
	db        *sql.DB
	loc       *time.Location
	ledger    domainservice.LedgerService
	evaluator domainservice.Evaluator
	runner    *cronpkg.EvaluationRunner
}

// New creates a new application
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	goalRepo := sqlite.NewGoalRepository(db)
	eventRepo := sqlite.NewEventRepository(db)
	balanceRepo := sqlite.NewBalanceRepository(db)

	ledger := service.NewLedgerService(goalRepo, eventRepo, balanceRepo)

	source, err := buildUsageSource(cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	evaluator := service.NewEvaluator(ledger, eventRepo, source, loc, cfg.Scheduler.LookbackPeriods)

	var runner *cronpkg.EvaluationRunner
	if cfg.Scheduler.Enabled {
		runner = cronpkg.NewEvaluationRunner(evaluator, cfg.Scheduler.Cron, loc)
	}

	return &App{
		config:    cfg,
		db:        db,
		loc:       loc,
		ledger:    ledger,
		evaluator: evaluator,
		runner:    runner,
	}, nil
}

func buildUsageSource(cfg *config.Config) (usage.Source, error) {
	switch cfg.Usage.Source {
	case "", "knowledge":
		return knowledge.New(cfg.Usage.KnowledgePath), nil
	default:
		return nil, fmt.Errorf("unknown usage source %q", cfg.Usage.Source)
	}
}

// Ledger returns the ledger store service
func (a *App) Ledger() domainservice.LedgerService {
	return a.ledger
}

// Evaluator returns the goal evaluator
func (a *App) Evaluator() domainservice.Evaluator {
	return a.evaluator
}

// Location returns the configured evaluation timezone
func (a *App) Location() *time.Location {
	return a.loc
}

// SnapshotPath returns the configured snapshot export path
func (a *App) SnapshotPath() string {
	return a.config.Snapshot.Path
}

// Close releases the application's resources
func (a *App) Close() error {
	return a.db.Close()
}

// Run starts the scheduler and blocks until interrupted
func (a *App) Run() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	if a.runner != nil {
		if err := a.runner.Start(); err != nil {
			return fmt.Errorf("failed to start evaluation runner: %w", err)
		}
	} else {
		log.Println("Scheduler is disabled in configuration")
	}

	log.Printf("%s started (database: %s)", a.config.Service.Name, a.config.Database.Path)
	log.Println("Press Ctrl+C to shutdown...")

	<-quit
	log.Println("Shutting down...")

	if a.runner != nil {
		a.runner.Stop()
	}

	log.Println("Shutdown complete")
	return nil
}
