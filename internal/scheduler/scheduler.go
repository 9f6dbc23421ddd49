// Package scheduler runs the pipeline on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// RunFunc is one pipeline pass.
type RunFunc func(ctx context.Context) error

// Scheduler triggers runs from a cron spec. Run errors are logged, not
// fatal: the next scheduled run starts fresh.
type Scheduler struct {
	Cron *cron.Cron
	Run  RunFunc
	Ctx  context.Context
}

// NewScheduler creates a scheduler around the given run function.
func NewScheduler(ctx context.Context, run RunFunc) *Scheduler {
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		Run:  run,
		Ctx:  ctx,
	}
}

// Register adds the run to the cron table.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.runOnce); err != nil {
		return fmt.Errorf("register cron %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) runOnce() {
	log.Println("[INFO] scheduled run starting")
	if err := s.Run(s.Ctx); err != nil {
		log.Printf("[ERROR] scheduled run: %v", err)
	}
}
