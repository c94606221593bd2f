package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nostressia/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (ur *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return ur.db.WithContext(ctx).Create(user).Error
}

func (ur *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := ur.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

func (ur *UserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := ur.db.WithContext(ctx).First(&user, id).Error
	return &user, err
}

// LockUserByID reads the user with SELECT ... FOR UPDATE, holding the row
// until the surrounding transaction ends. Returns (nil, nil) when missing.
func (ur *UserRepository) LockUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := ur.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *UserRepository) PatchUser(ctx context.Context, id uint, data map[string]interface{}) error {
	result := ur.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (ur *UserRepository) UpdateStreak(ctx context.Context, id uint, streak int) error {
	return ur.PatchUser(ctx, id, map[string]interface{}{"streak": streak})
}

// SetPersonalizedMilestone records the last milestone a personalized job was
// queued for. A zero milestone clears the training timestamp.
func (ur *UserRepository) SetPersonalizedMilestone(ctx context.Context, id uint, milestone int, at *time.Time) error {
	return ur.PatchUser(ctx, id, map[string]interface{}{
		"last_personalized_milestone":   milestone,
		"last_personalized_training_at": at,
	})
}
