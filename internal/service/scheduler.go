package service

import (
	"context"
	"fmt"
	"time"

	"cryptofarm/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic save and eviction jobs.
type Scheduler struct {
	cron    *cron.Cron
	manager *SessionManager
	timeout time.Duration
}

// NewScheduler registers both jobs. Specs use cron syntax or descriptors
// such as "@every 30s".
func NewScheduler(manager *SessionManager, saveSpec, evictSpec string) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		manager: manager,
		timeout: 30 * time.Second,
	}
	if _, err := s.cron.AddFunc(saveSpec, s.flush); err != nil {
		return nil, fmt.Errorf("save schedule %q: %w", saveSpec, err)
	}
	if _, err := s.cron.AddFunc(evictSpec, s.evict); err != nil {
		return nil, fmt.Errorf("evict schedule %q: %w", evictSpec, err)
	}
	return s, nil
}

func (s *Scheduler) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	saved, err := s.manager.Flush(ctx)
	if err != nil {
		logger.Error("[CRON] autosave failed", "saved", saved, "error", err)
		return
	}
	if saved > 0 {
		logger.Debug("[CRON] autosave", "saved", saved)
	}
}

func (s *Scheduler) evict() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if n := s.manager.EvictIdle(ctx); n > 0 {
		logger.Info("[CRON] idle sessions evicted", "count", n, "active", s.manager.Len())
	}
}

// Start launches the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("scheduler stopped")
}
