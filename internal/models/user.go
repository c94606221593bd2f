package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `gorm:"unique" json:"email"`
	Verified bool   `gorm:"default:false" json:"verified"`

	// Streak is denormalized from stress_entries and rewritten after every entry.
	Streak int `gorm:"not null;default:0" json:"streak"`

	LastPersonalizedMilestone  int        `gorm:"not null;default:0" json:"last_personalized_milestone"`
	LastPersonalizedTrainingAt *time.Time `json:"last_personalized_training_at,omitempty"`
}
