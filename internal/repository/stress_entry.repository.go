package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"nostressia/internal/models"
)

type StressEntryRepository interface {
	Create(ctx context.Context, entry *models.StressEntry) error
	ExistsOnDate(ctx context.Context, userID uint, date time.Time) (bool, error)

	// ListByUser returns every entry of the user ordered by date ascending.
	ListByUser(ctx context.Context, userID uint) ([]models.StressEntry, error)
	ListDates(ctx context.Context, userID uint) ([]time.Time, error)

	// CountRestored counts restored entries with start <= date < end.
	CountRestored(ctx context.Context, userID uint, start, end time.Time) (int, error)
	LatestGPA(ctx context.Context, userID uint) (*float64, error)
}

type stressEntryRepository struct {
	db *gorm.DB
}

func NewStressEntryRepository(db *gorm.DB) StressEntryRepository {
	return &stressEntryRepository{db: db}
}

func (r *stressEntryRepository) Create(ctx context.Context, entry *models.StressEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *stressEntryRepository) ExistsOnDate(ctx context.Context, userID uint, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StressEntry{}).
		Where("user_id = ? AND date = ?", userID, date).
		Count(&count).Error
	return count > 0, err
}

func (r *stressEntryRepository) ListByUser(ctx context.Context, userID uint) ([]models.StressEntry, error) {
	var entries []models.StressEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&entries).Error
	return entries, err
}

func (r *stressEntryRepository) ListDates(ctx context.Context, userID uint) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).Model(&models.StressEntry{}).
		Where("user_id = ?", userID).
		Order("date ASC").
		Pluck("date", &dates).Error
	return dates, err
}

func (r *stressEntryRepository) CountRestored(ctx context.Context, userID uint, start, end time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StressEntry{}).
		Where("user_id = ? AND is_restored = ? AND date >= ? AND date < ?", userID, true, start, end).
		Count(&count).Error
	return int(count), err
}

func (r *stressEntryRepository) LatestGPA(ctx context.Context, userID uint) (*float64, error) {
	var entry models.StressEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND gpa IS NOT NULL", userID).
		Order("date DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry.GPA, nil
}
