package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Roller re-evaluates forecast freshness for a new calendar day.
type Roller interface {
	Rollover(now time.Time) int
}

// Scheduler runs the rollover job at local midnight so the selected day and the
// out-of-date notice follow the calendar without user interaction.
type Scheduler struct {
	scheduler *gocron.Scheduler
	roller    Roller
	loc       *time.Location
	logger    *slog.Logger
}

// New creates a new Scheduler that fires at midnight in loc.
func New(roller Roller, loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		roller:    roller,
		loc:       loc,
		logger:    logger,
	}
}

// Start schedules the rollover job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At("00:00").Do(s.rollover)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", "job", "rollover", "timezone", s.loc.String())
	return nil
}

func (s *Scheduler) rollover() {
	now := time.Now().In(s.loc)
	stale := s.roller.Rollover(now)
	s.logger.Info("scheduler: completed rollover job", "date", now.Format("2006-01-02"), "staleDays", stale)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
