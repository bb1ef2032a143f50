/*
 * @module service/scheduler/scheduler
 * @description Background job scheduler: drains the pending evidence-analysis
 *              queue and sweeps overdue tasks on cron schedules.
 * @architecture Layered - background worker
 * @stateFlow Start() registers the cron entries; Stop() waits for running
 *            jobs to finish
 * @rules Jobs are skipped, not queued, while a previous run is still active;
 *        job failures are logged and never crash the process
 * @dependencies github.com/robfig/cron/v3, ndi-assessment-service/service/evidence, ndi-assessment-service/service/task
 */

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"ndi-assessment-service/service/evidence"
	"ndi-assessment-service/service/task"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const analysisBatchSize = 20

// Scheduler owns the cron runner and the jobs it drives.
type Scheduler struct {
	cron     *cron.Cron
	db       *gorm.DB
	evidence *evidence.Service
	tasks    *task.Service
}

// NewScheduler creates a scheduler wired to the evidence pipeline.
func NewScheduler(db *gorm.DB, evidenceService *evidence.Service) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		db:       db,
		evidence: evidenceService,
		tasks:    task.NewService(db),
	}
}

// Start registers the job schedule and launches the runner.
func (s *Scheduler) Start() error {
	// Evidence analysis every two minutes.
	if _, err := s.cron.AddFunc("*/2 * * * *", s.runEvidenceAnalysis); err != nil {
		return err
	}
	// Overdue task sweep hourly.
	if _, err := s.cron.AddFunc("0 * * * *", s.runOverdueSweep); err != nil {
		return err
	}

	s.cron.Start()
	slog.Info("scheduler started")
	return nil
}

// Stop halts scheduling and waits for in-flight jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler stopped")
}

// runEvidenceAnalysis drains one batch of pending evidence files.
func (s *Scheduler) runEvidenceAnalysis() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	analyzed := s.evidence.AnalyzePending(ctx, analysisBatchSize)
	if analyzed > 0 {
		slog.Info("evidence analysis batch complete", "analyzed", analyzed)
	}
}

// runOverdueSweep marks past-due open tasks overdue.
func (s *Scheduler) runOverdueSweep() {
	changed, err := s.tasks.MarkOverdue(time.Now())
	if err != nil {
		slog.Warn("overdue sweep failed", "error", err)
		return
	}
	if changed > 0 {
		slog.Info("tasks marked overdue", "count", changed)
	}
}
