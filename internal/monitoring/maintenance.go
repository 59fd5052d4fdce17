package monitoring

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/isdelr/todo-be/internal/database"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Report summarises one maintenance pass.
type Report struct {
	Users          int           `json:"users"`
	Todos          int           `json:"todos"`
	CompletedTodos int           `json:"completedTodos"`
	Duration       time.Duration `json:"duration"`
}

// Maintenance runs periodic database housekeeping on a cron schedule.
type Maintenance struct {
	db   *sql.DB
	cron *cron.Cron
	spec string
}

// NewMaintenance creates a maintenance runner for a standard cron expression.
func NewMaintenance(db *sql.DB, spec string) (*Maintenance, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid maintenance cron expression: %w", err)
	}

	m := &Maintenance{db: db, cron: cron.New(), spec: spec}
	if _, err := m.cron.AddFunc(spec, m.run); err != nil {
		return nil, err
	}
	return m, nil
}

// Start begins running maintenance in the background.
func (m *Maintenance) Start() {
	log.Info().Str("schedule", m.spec).Msg("Starting database maintenance scheduler")
	m.cron.Start()
}

// Stop halts the scheduler and waits for a running pass to finish.
func (m *Maintenance) Stop() {
	<-m.cron.Stop().Done()
	log.Info().Msg("Stopped database maintenance scheduler")
}

func (m *Maintenance) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	report, err := m.RunOnce(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Maintenance: pass failed")
		return
	}
	log.Info().
		Int("users", report.Users).
		Int("todos", report.Todos).
		Int("completed_todos", report.CompletedTodos).
		Dur("duration", report.Duration).
		Msg("Maintenance: pass complete")
}

// RunOnce optimises the database and gathers row counts.
func (m *Maintenance) RunOnce(ctx context.Context) (Report, error) {
	start := time.Now()
	if err := database.Optimize(ctx, m.db); err != nil {
		return Report{}, fmt.Errorf("optimize: %w", err)
	}

	var r Report
	err := m.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM todos),
			(SELECT COUNT(*) FROM todos WHERE completed)`).
		Scan(&r.Users, &r.Todos, &r.CompletedTodos)
	if err != nil {
		return Report{}, fmt.Errorf("count rows: %w", err)
	}
	r.Duration = time.Since(start)
	return r, nil
}
