package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"nostressia/internal/models"
	"nostressia/internal/testutil"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newUser(t *testing.T, store *Store) *models.User {
	t.Helper()
	u := &models.User{Name: "Dina", Email: "dina@example.com"}
	require.NoError(t, store.Users.CreateUser(context.Background(), u))
	return u
}

func TestStressEntriesOrderingAndLookups(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.OpenTestDB(t))
	u := newUser(t, store)

	gpa := 3.4
	entries := []models.StressEntry{
		{UserID: u.ID, Date: day(2025, 3, 3), StressLevel: 2},
		{UserID: u.ID, Date: day(2025, 3, 1), StressLevel: 1, GPA: &gpa},
		{UserID: u.ID, Date: day(2025, 3, 2), StressLevel: 0, IsRestored: true},
		{UserID: u.ID, Date: day(2025, 2, 28), StressLevel: 0, IsRestored: true},
	}
	for i := range entries {
		require.NoError(t, store.Entries.Create(ctx, &entries[i]))
	}

	list, err := store.Entries.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.True(t, list[0].Date.Equal(day(2025, 2, 28)))
	assert.True(t, list[3].Date.Equal(day(2025, 3, 3)))

	dates, err := store.Entries.ListDates(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, dates, 4)
	assert.True(t, dates[1].Equal(day(2025, 3, 1)))

	exists, err := store.Entries.ExistsOnDate(ctx, u.ID, day(2025, 3, 2))
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = store.Entries.ExistsOnDate(ctx, u.ID, day(2025, 3, 4))
	require.NoError(t, err)
	assert.False(t, exists)

	restored, err := store.Entries.CountRestored(ctx, u.ID, day(2025, 3, 1), day(2025, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, restored)

	latest, err := store.Entries.LatestGPA(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 3.4, *latest)

	none, err := store.Entries.LatestGPA(ctx, u.ID+1)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestStressEntryUniquePerDay(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.OpenTestDB(t))
	u := newUser(t, store)

	require.NoError(t, store.Entries.Create(ctx, &models.StressEntry{UserID: u.ID, Date: day(2025, 1, 1), StressLevel: 1}))
	err := store.Entries.Create(ctx, &models.StressEntry{UserID: u.ID, Date: day(2025, 1, 1), StressLevel: 2})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.OpenTestDB(t))
	u := newUser(t, store)

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx *Store) error {
		if err := tx.Entries.Create(ctx, &models.StressEntry{UserID: u.ID, Date: day(2025, 1, 1)}); err != nil {
			return err
		}
		if err := tx.Users.UpdateStreak(ctx, u.ID, 1); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := store.Entries.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	got, err := store.Users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Streak)
}

func TestUserStreakFields(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.OpenTestDB(t))
	u := newUser(t, store)

	now := time.Now().UTC()
	require.NoError(t, store.Users.UpdateStreak(ctx, u.ID, 60))
	require.NoError(t, store.Users.SetPersonalizedMilestone(ctx, u.ID, 60, &now))

	got, err := store.Users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, got.Streak)
	assert.Equal(t, 60, got.LastPersonalizedMilestone)
	assert.NotNil(t, got.LastPersonalizedTrainingAt)

	require.NoError(t, store.Users.SetPersonalizedMilestone(ctx, u.ID, 0, nil))
	got, err = store.Users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, got.LastPersonalizedMilestone)
	assert.Nil(t, got.LastPersonalizedTrainingAt)

	missing, err := store.Users.LockUserByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.ErrorIs(t, store.Users.UpdateStreak(ctx, 999, 1), gorm.ErrRecordNotFound)
}

func TestLockUserByID(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.OpenTestDB(t))
	u := newUser(t, store)

	err := store.Transaction(ctx, func(tx *Store) error {
		got, err := tx.Users.LockUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, u.Email, got.Email)
		return nil
	})
	require.NoError(t, err)
}

func TestLockUserByIDSelectsForUpdateOnPostgres(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=127.0.0.1 port=1 user=test dbname=test sslmode=disable"}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	var query string
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture_sql", func(tx *gorm.DB) {
		query = tx.Statement.SQL.String()
	}))

	_, err = NewUserRepository(db).LockUserByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Contains(t, query, "FOR UPDATE")
	assert.Contains(t, query, `FROM "users"`)
}

func TestModelRegistryActivation(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.OpenTestDB(t))

	active, err := store.Models.ActiveGlobal(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	first := &models.ModelRecord{Scope: models.ScopeGlobal, ArtifactURL: "gs://m/v1.json", TrainedAt: day(2025, 1, 1)}
	require.NoError(t, store.Models.Activate(ctx, first))
	second := &models.ModelRecord{Scope: models.ScopeGlobal, ArtifactURL: "gs://m/v2.json", TrainedAt: day(2025, 3, 1)}
	require.NoError(t, store.Models.Activate(ctx, second))

	userID := uint(7)
	milestone := 60
	personal := &models.ModelRecord{Scope: models.ScopePersonalized, UserID: &userID, Milestone: &milestone, ArtifactURL: "gs://m/u7.json"}
	require.NoError(t, store.Models.Activate(ctx, personal))

	active, err = store.Models.ActiveGlobal(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "gs://m/v2.json", active.ArtifactURL)

	all, err := store.Models.List(ctx, models.ScopeGlobal, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].IsActive)
	assert.False(t, all[1].IsActive)

	mine, err := store.Models.ActivePersonalized(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, 60, *mine.Milestone)

	other, err := store.Models.ActivePersonalized(ctx, 8)
	require.NoError(t, err)
	assert.Nil(t, other)

	trained, err := store.Models.LatestGlobalTrainedAt(ctx)
	require.NoError(t, err)
	require.NotNil(t, trained)
	assert.True(t, trained.Equal(day(2025, 3, 1)))
}

func TestTrainingJobs(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testutil.OpenTestDB(t))

	pending, err := store.Jobs.HasPending(ctx, models.JobTypeGlobal)
	require.NoError(t, err)
	assert.False(t, pending)

	job := &models.TrainingJob{JobType: models.JobTypeGlobal, Status: models.JobStatusFailed}
	require.NoError(t, store.Jobs.Enqueue(ctx, job))
	assert.Len(t, job.ID, 36)
	assert.Equal(t, models.JobStatusQueued, job.Status)

	pending, err = store.Jobs.HasPending(ctx, models.JobTypeGlobal)
	require.NoError(t, err)
	assert.True(t, pending)
	pending, err = store.Jobs.HasPending(ctx, models.JobTypePersonalized)
	require.NoError(t, err)
	assert.False(t, pending)

	assert.Error(t, store.Jobs.Enqueue(ctx, &models.TrainingJob{}))

	old := time.Now().UTC().AddDate(0, 0, -40)
	done := &models.TrainingJob{ID: "done-1", JobType: models.JobTypeGlobal}
	require.NoError(t, store.Jobs.Enqueue(ctx, done))
	require.NoError(t, store.DB().Model(done).Updates(map[string]interface{}{
		"status":      models.JobStatusSuccess,
		"finished_at": old,
	}).Error)

	removed, err := store.Jobs.CleanupFinished(ctx, time.Now().UTC().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	jobs, err := store.Jobs.List(ctx, JobFilter{JobType: models.JobTypeGlobal})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)
}
