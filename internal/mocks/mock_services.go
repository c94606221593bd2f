package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"nostressia/internal/models"
	"nostressia/internal/repository"
)

type MockStressService struct {
	mock.Mock
}

func (m *MockStressService) RecordEntry(ctx context.Context, userID uint, input models.StressEntryInput, isRestore bool) (*models.StressEntry, error) {
	args := m.Called(ctx, userID, input, isRestore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StressEntry), args.Error(1)
}

func (m *MockStressService) ListEntries(ctx context.Context, userID uint) ([]models.StressEntry, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.StressEntry), args.Error(1)
}

func (m *MockStressService) GetEligibility(ctx context.Context, userID uint) (*models.EligibilityResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EligibilityResult), args.Error(1)
}

func (m *MockStressService) GetForecast(ctx context.Context, userID uint) (*models.ForecastPayload, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForecastPayload), args.Error(1)
}

type MockModelService struct {
	mock.Mock
}

func (m *MockModelService) Register(ctx context.Context, req models.RegisterModelRequest) (*models.ModelRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ModelRecord), args.Error(1)
}

func (m *MockModelService) Active(ctx context.Context, userID *uint) (*models.ModelRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ModelRecord), args.Error(1)
}

func (m *MockModelService) List(ctx context.Context, scope string, limit int) ([]models.ModelRecord, error) {
	args := m.Called(ctx, scope, limit)
	return args.Get(0).([]models.ModelRecord), args.Error(1)
}

type MockTrainingService struct {
	mock.Mock
}

func (m *MockTrainingService) MaybeEnqueuePersonalized(ctx context.Context, tx *repository.Store, user *models.User) (*models.TrainingJob, error) {
	args := m.Called(ctx, tx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainingJob), args.Error(1)
}

func (m *MockTrainingService) EnqueueGlobalIfDue(ctx context.Context, now time.Time) (*models.TrainingJob, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainingJob), args.Error(1)
}

func (m *MockTrainingService) ListJobs(ctx context.Context, filter repository.JobFilter) ([]models.TrainingJob, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.TrainingJob), args.Error(1)
}

func (m *MockTrainingService) CleanupFinished(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockLocker is an in-memory stand-in for the Redis scheduler lock.
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) TryLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, name, owner, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) Unlock(ctx context.Context, name, owner string) error {
	args := m.Called(ctx, name, owner)
	return args.Error(0)
}
