package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"nostressia/internal/models"
)

type ModelRegistryRepository interface {
	// ActiveGlobal and ActivePersonalized return (nil, nil) when nothing is active.
	ActiveGlobal(ctx context.Context) (*models.ModelRecord, error)
	ActivePersonalized(ctx context.Context, userID uint) (*models.ModelRecord, error)

	// LatestGlobalTrainedAt is the newest trained_at of any global record.
	LatestGlobalTrainedAt(ctx context.Context) (*time.Time, error)

	// Activate deactivates the active records of the same scope and user and
	// inserts record as the new active one.
	Activate(ctx context.Context, record *models.ModelRecord) error
	List(ctx context.Context, scope string, limit int) ([]models.ModelRecord, error)
}

type modelRegistryRepository struct {
	db *gorm.DB
}

func NewModelRegistryRepository(db *gorm.DB) ModelRegistryRepository {
	return &modelRegistryRepository{db: db}
}

func (r *modelRegistryRepository) ActiveGlobal(ctx context.Context) (*models.ModelRecord, error) {
	return r.firstActive(r.db.WithContext(ctx).Where("scope = ?", models.ScopeGlobal))
}

func (r *modelRegistryRepository) ActivePersonalized(ctx context.Context, userID uint) (*models.ModelRecord, error) {
	return r.firstActive(r.db.WithContext(ctx).Where("scope = ? AND user_id = ?", models.ScopePersonalized, userID))
}

func (r *modelRegistryRepository) firstActive(query *gorm.DB) (*models.ModelRecord, error) {
	var record models.ModelRecord
	err := query.Where("is_active = ?", true).
		Order("trained_at DESC").
		Order("id DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *modelRegistryRepository) LatestGlobalTrainedAt(ctx context.Context) (*time.Time, error) {
	var record models.ModelRecord
	err := r.db.WithContext(ctx).
		Where("scope = ?", models.ScopeGlobal).
		Order("trained_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record.TrainedAt, nil
}

func (r *modelRegistryRepository) Activate(ctx context.Context, record *models.ModelRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.ModelRecord{}).
			Where("scope = ? AND is_active = ?", record.Scope, true)
		if record.UserID != nil {
			query = query.Where("user_id = ?", *record.UserID)
		} else {
			query = query.Where("user_id IS NULL")
		}
		if err := query.Update("is_active", false).Error; err != nil {
			return err
		}

		record.IsActive = true
		if record.TrainedAt.IsZero() {
			record.TrainedAt = time.Now().UTC()
		}
		return tx.Create(record).Error
	})
}

func (r *modelRegistryRepository) List(ctx context.Context, scope string, limit int) ([]models.ModelRecord, error) {
	query := r.db.WithContext(ctx).Order("trained_at DESC").Order("id DESC")
	if scope != "" {
		query = query.Where("scope = ?", scope)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var records []models.ModelRecord
	err := query.Find(&records).Error
	return records, err
}
