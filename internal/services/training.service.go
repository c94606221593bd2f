package services

import (
	"context"
	"time"

	"nostressia/internal/logger"
	"nostressia/internal/models"
	"nostressia/internal/repository"
	"nostressia/internal/training"
)

type TrainingService interface {
	// MaybeEnqueuePersonalized runs inside the caller's transaction, after the
	// user's streak has been recomputed.
	MaybeEnqueuePersonalized(ctx context.Context, tx *repository.Store, user *models.User) (*models.TrainingJob, error)
	// EnqueueGlobalIfDue returns nil when a global job is pending or the
	// current global model is still fresh.
	EnqueueGlobalIfDue(ctx context.Context, now time.Time) (*models.TrainingJob, error)
	ListJobs(ctx context.Context, filter repository.JobFilter) ([]models.TrainingJob, error)
	CleanupFinished(ctx context.Context, olderThan time.Time) (int64, error)
}

type TrainingSettings struct {
	MilestoneInterval  int
	GlobalIntervalDays int
}

type trainingService struct {
	store    *repository.Store
	settings TrainingSettings
	log      *logger.Logger
}

func NewTrainingService(store *repository.Store, settings TrainingSettings, log *logger.Logger) TrainingService {
	return &trainingService{
		store:    store,
		settings: settings,
		log:      log.With("service", "TrainingService"),
	}
}

func (s *trainingService) MaybeEnqueuePersonalized(ctx context.Context, tx *repository.Store, user *models.User) (*models.TrainingJob, error) {
	d := training.Personalized(user.Streak, user.LastPersonalizedMilestone, s.settings.MilestoneInterval)

	if d.Reset {
		if err := tx.Users.SetPersonalizedMilestone(ctx, user.ID, 0, nil); err != nil {
			return nil, err
		}
		user.LastPersonalizedMilestone = 0
		user.LastPersonalizedTrainingAt = nil
		s.log.Info("personalized milestone reset", "user_id", user.ID, "streak", user.Streak)
		return nil, nil
	}
	if !d.Fire {
		return nil, nil
	}

	userID := user.ID
	milestone := d.Milestone
	job := &models.TrainingJob{
		JobType:   models.JobTypePersonalized,
		UserID:    &userID,
		Milestone: &milestone,
	}
	if err := tx.Jobs.Enqueue(ctx, job); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := tx.Users.SetPersonalizedMilestone(ctx, user.ID, milestone, &now); err != nil {
		return nil, err
	}
	user.LastPersonalizedMilestone = milestone
	user.LastPersonalizedTrainingAt = &now

	s.log.Info("personalized training job queued", "user_id", user.ID, "milestone", milestone, "job_id", job.ID)
	return job, nil
}

func (s *trainingService) EnqueueGlobalIfDue(ctx context.Context, now time.Time) (*models.TrainingJob, error) {
	var job *models.TrainingJob
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		pending, err := tx.Jobs.HasPending(ctx, models.JobTypeGlobal)
		if err != nil {
			return err
		}
		if pending {
			s.log.Debug("global training already pending")
			return nil
		}

		lastTrained, err := tx.Models.LatestGlobalTrainedAt(ctx)
		if err != nil {
			return err
		}
		if !training.GlobalDue(lastTrained, now, s.settings.GlobalIntervalDays) {
			s.log.Debug("global model still fresh", "trained_at", lastTrained)
			return nil
		}

		job = &models.TrainingJob{JobType: models.JobTypeGlobal}
		return tx.Jobs.Enqueue(ctx, job)
	})
	if err != nil {
		return nil, err
	}
	if job != nil {
		s.log.Info("global training job queued", "job_id", job.ID)
	}
	return job, nil
}

func (s *trainingService) ListJobs(ctx context.Context, filter repository.JobFilter) ([]models.TrainingJob, error) {
	return s.store.Jobs.List(ctx, filter)
}

func (s *trainingService) CleanupFinished(ctx context.Context, olderThan time.Time) (int64, error) {
	return s.store.Jobs.CleanupFinished(ctx, olderThan)
}
