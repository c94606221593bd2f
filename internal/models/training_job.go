package models

import "time"

type TrainingJob struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)" json:"job_id"`
	JobType      string     `gorm:"type:varchar(20);not null;index:ix_training_jobs_type_status,priority:1" json:"job_type"`
	UserID       *uint      `gorm:"index:ix_training_jobs_user_milestone,priority:1" json:"user_id,omitempty"`
	Milestone    *int       `gorm:"index:ix_training_jobs_user_milestone,priority:2" json:"milestone,omitempty"`
	Status       string     `gorm:"type:varchar(20);not null;default:'queued';index:ix_training_jobs_type_status,priority:2" json:"status"`
	ErrorMessage *string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Job status constants. Only the offline worker moves a job past queued.
const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusSuccess = "success"
	JobStatusFailed  = "failed"
)

const (
	JobTypeGlobal       = ScopeGlobal
	JobTypePersonalized = ScopePersonalized
)

func (TrainingJob) TableName() string {
	return "training_jobs"
}
