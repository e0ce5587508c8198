package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"ShelterScanner/internal/ports"
)

// Scheduler wires the ticker driver with the ingestion pipeline.
type Scheduler struct {
	driver    ports.Scheduler
	pipeline  *Pipeline
	locations []string
	species   []string
	log       *slog.Logger
	running   atomic.Bool
}

// NewScheduler returns a helper to start/stop recurring ingestion runs over
// the configured work items.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, locations, species []string, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		driver:    driver,
		pipeline:  pipeline,
		locations: locations,
		species:   species,
		log:       log.With("component", "scheduler"),
	}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}
	return s.driver.Start(ctx, func(trigger time.Time) { s.Tick(ctx, trigger) })
}

// Tick runs one batch unless the previous one is still in flight, in which
// case the tick is dropped. It reports whether a batch ran.
func (s *Scheduler) Tick(ctx context.Context, trigger time.Time) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("previous run still in progress, tick dropped", "trigger", trigger)
		return false
	}
	defer s.running.Store(false)

	report, err := s.pipeline.Run(ctx, s.locations, s.species)
	if err != nil {
		if errors.Is(err, ErrAllSourcesUnavailable) {
			s.log.Warn("scheduled run reached no source", "run_id", report.RunID)
		} else {
			s.log.Error("scheduled run failed", "run_id", report.RunID, "error", err)
		}
	}
	return true
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
