package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ScopeGlobal       = "global"
	ScopePersonalized = "personalized"
)

// ModelRecord is a registry row pointing at a trained artifact.
type ModelRecord struct {
	ID          uint           `gorm:"primaryKey" json:"model_id"`
	Scope       string         `gorm:"type:varchar(20);not null;index:ix_model_records_scope_active,priority:1" json:"model_type"`
	UserID      *uint          `gorm:"index:ix_model_records_scope_active,priority:2" json:"user_id,omitempty"`
	Milestone   *int           `json:"milestone,omitempty"`
	ArtifactURL string         `gorm:"type:text;not null" json:"artifact_url"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	TrainedAt   time.Time      `gorm:"not null;index" json:"trained_at"`
	IsActive    bool           `gorm:"not null;default:true;index:ix_model_records_scope_active,priority:3" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (ModelRecord) TableName() string {
	return "model_registry"
}

// RegisterModelRequest is what the offline trainer submits after uploading an artifact.
type RegisterModelRequest struct {
	Scope       string                 `json:"model_type" binding:"required,oneof=global personalized"`
	UserID      *uint                  `json:"user_id"`
	Milestone   *int                   `json:"milestone"`
	ArtifactURL string                 `json:"artifact_url" binding:"required"`
	Metadata    map[string]interface{} `json:"metadata"`
	TrainedAt   *time.Time             `json:"trained_at"`
}
