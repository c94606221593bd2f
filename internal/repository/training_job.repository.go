package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nostressia/internal/models"
)

type TrainingJobRepository interface {
	Enqueue(ctx context.Context, job *models.TrainingJob) error
	// HasPending reports whether a queued or running job of jobType exists.
	HasPending(ctx context.Context, jobType string) (bool, error)
	List(ctx context.Context, filter JobFilter) ([]models.TrainingJob, error)
	// CleanupFinished deletes success/failed jobs finished before olderThan.
	CleanupFinished(ctx context.Context, olderThan time.Time) (int64, error)
}

type JobFilter struct {
	JobType string
	Status  string
	UserID  *uint
	Limit   int
}

type trainingJobRepository struct {
	db *gorm.DB
}

func NewTrainingJobRepository(db *gorm.DB) TrainingJobRepository {
	return &trainingJobRepository{db: db}
}

var pendingStatuses = []string{models.JobStatusQueued, models.JobStatusRunning}

func (r *trainingJobRepository) Enqueue(ctx context.Context, job *models.TrainingJob) error {
	if job.JobType == "" {
		return errors.New("training job needs a job type")
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.Status = models.JobStatusQueued
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *trainingJobRepository) HasPending(ctx context.Context, jobType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TrainingJob{}).
		Where("job_type = ? AND status IN ?", jobType, pendingStatuses).
		Count(&count).Error
	return count > 0, err
}

func (r *trainingJobRepository) List(ctx context.Context, filter JobFilter) ([]models.TrainingJob, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.JobType != "" {
		query = query.Where("job_type = ?", filter.JobType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var jobs []models.TrainingJob
	err := query.Find(&jobs).Error
	return jobs, err
}

func (r *trainingJobRepository) CleanupFinished(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("finished_at < ? AND status IN ?", olderThan, []string{models.JobStatusSuccess, models.JobStatusFailed}).
		Delete(&models.TrainingJob{})
	return result.RowsAffected, result.Error
}
