// Package scheduler periodically recomputes the cached analysis rows and
// refreshes the portfolio state, so stored projections never drift from
// what the engine would produce.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/eodozzy/real-estate-investment-manager/internal/analyzer"
	"github.com/eodozzy/real-estate-investment-manager/internal/portfolio"
)

// Scheduler manages the recurring recompute task.
type Scheduler struct {
	Cron      *cron.Cron
	Analyzer  *analyzer.Analyzer
	Portfolio *portfolio.Manager
	Ctx       context.Context
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, a *analyzer.Analyzer, pm *portfolio.Manager) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Analyzer:  a,
		Portfolio: pm,
		Ctx:       ctx,
	}
}

// Register schedules the recompute task with the given cron expression.
func (s *Scheduler) Register(recomputeCron string) error {
	if _, err := s.Cron.AddFunc(recomputeCron, s.recomputeTask); err != nil {
		return fmt.Errorf("register recompute task: %w", err)
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

// RunNow executes the recompute task immediately (manual trigger).
func (s *Scheduler) RunNow() {
	s.recomputeTask()
}

func (s *Scheduler) recomputeTask() {
	log.Println("[INFO] running analysis recompute")
	computed, failed := s.Analyzer.RecomputeAll(s.Ctx)
	log.Printf("[INFO] recompute done: %d computed, %d failed", computed, failed)

	state, err := s.Portfolio.Refresh()
	if err != nil {
		log.Printf("[ERROR] portfolio refresh: %v", err)
		return
	}
	log.Printf("[INFO] portfolio refreshed: %d properties, equity %.2f", state.PropertyCount, state.TotalEquity)
}
