package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"nostressia/internal/logger"
)

const schedulerLockName = "training-scheduler"

// Locker is a cross-replica mutex, typically Redis.
type Locker interface {
	TryLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, name, owner string) error
}

// TrainingScheduler periodically runs the global training trigger and prunes
// finished jobs.
type TrainingScheduler struct {
	training TrainingService
	locker   Locker
	owner    string
	log      *logger.Logger

	tickInterval    time.Duration
	retention       time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.RWMutex

	lastTick  time.Time
	lastJobID string
}

type SchedulerSettings struct {
	TickInterval    time.Duration
	Retention       time.Duration
	CleanupInterval time.Duration
}

// NewTrainingScheduler builds a scheduler. locker may be nil for a single
// replica deployment.
func NewTrainingScheduler(training TrainingService, locker Locker, settings SchedulerSettings, log *logger.Logger) *TrainingScheduler {
	if settings.TickInterval <= 0 {
		settings.TickInterval = time.Hour
	}
	if settings.CleanupInterval <= 0 {
		settings.CleanupInterval = 30 * time.Minute
	}
	return &TrainingScheduler{
		training:        training,
		locker:          locker,
		owner:           uuid.NewString(),
		log:             log.With("component", "TrainingScheduler"),
		tickInterval:    settings.TickInterval,
		retention:       settings.Retention,
		cleanupInterval: settings.CleanupInterval,
		now:             time.Now,
		stopChan:        make(chan struct{}),
	}
}

// ========== LIFECYCLE ==========

func (s *TrainingScheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.tickRoutine()

	if s.retention > 0 {
		s.wg.Add(1)
		go s.cleanupRoutine()
	}

	s.log.Info("training scheduler started", "tick_interval", s.tickInterval.String())
}

func (s *TrainingScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
	s.log.Info("training scheduler stopped")
}

// ========== ROUTINES ==========

func (s *TrainingScheduler) tickRoutine() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	s.runTick()
	for {
		select {
		case <-ticker.C:
			s.runTick()
		case <-s.stopChan:
			return
		}
	}
}

func (s *TrainingScheduler) runTick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.tickInterval)
	defer cancel()
	if _, err := s.Tick(ctx); err != nil {
		s.log.Warn("global training tick failed", "error", err)
	}
}

// Tick runs the global trigger once. It returns false without error when
// another replica holds the lock.
func (s *TrainingScheduler) Tick(ctx context.Context) (bool, error) {
	if s.locker != nil {
		ok, err := s.locker.TryLock(ctx, schedulerLockName, s.owner, s.tickInterval)
		if err != nil {
			return false, err
		}
		if !ok {
			s.log.Debug("training tick skipped, lock held elsewhere")
			return false, nil
		}
		defer func() {
			if err := s.locker.Unlock(context.WithoutCancel(ctx), schedulerLockName, s.owner); err != nil {
				s.log.Warn("failed to release scheduler lock", "error", err)
			}
		}()
	}

	now := s.now()
	job, err := s.training.EnqueueGlobalIfDue(ctx, now)

	s.mu.Lock()
	s.lastTick = now
	if job != nil {
		s.lastJobID = job.ID
	}
	s.mu.Unlock()

	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *TrainingScheduler) cleanupRoutine() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopChan:
			return
		}
	}
}

// Cleanup deletes finished jobs older than the retention window.
func (s *TrainingScheduler) Cleanup(ctx context.Context) {
	cutoff := s.now().Add(-s.retention)
	removed, err := s.training.CleanupFinished(ctx, cutoff)
	if err != nil {
		s.log.Warn("training job cleanup failed", "error", err)
		return
	}
	if removed > 0 {
		s.log.Info("cleaned up finished training jobs", "removed", removed)
	}
}

func (s *TrainingScheduler) GetStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := map[string]interface{}{
		"running":       s.running,
		"tick_interval": s.tickInterval.String(),
		"retention":     s.retention.String(),
		"distributed":   s.locker != nil,
		"last_job_id":   s.lastJobID,
	}
	if !s.lastTick.IsZero() {
		status["last_tick"] = s.lastTick.UTC().Format(time.RFC3339)
	}
	return status
}
