package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"nostressia/internal/artifact"
	"nostressia/internal/features"
	"nostressia/internal/logger"
	"nostressia/internal/ml"
	"nostressia/internal/models"
	"nostressia/internal/repository"
	"nostressia/internal/streak"
)

const DateLayout = "2006-01-02"

var tracer = otel.Tracer("nostressia/internal/services")

type StressService interface {
	RecordEntry(ctx context.Context, userID uint, input models.StressEntryInput, isRestore bool) (*models.StressEntry, error)
	ListEntries(ctx context.Context, userID uint) ([]models.StressEntry, error)
	GetEligibility(ctx context.Context, userID uint) (*models.EligibilityResult, error)
	GetForecast(ctx context.Context, userID uint) (*models.ForecastPayload, error)
}

// ForecastResolver picks and loads the artifact for a user.
type ForecastResolver interface {
	Resolve(ctx context.Context, userID uint) (*ml.Artifact, artifact.Location, error)
	RequiredHistoryDays(ctx context.Context) int
}

type StressSettings struct {
	RequiredStreak int
	RestoreLimit   int
	// Now defaults to time.Now.
	Now func() time.Time
}

type stressService struct {
	store    *repository.Store
	resolver ForecastResolver
	training TrainingService
	settings StressSettings
	log      *logger.Logger
}

func NewStressService(
	store *repository.Store,
	resolver ForecastResolver,
	training TrainingService,
	settings StressSettings,
	log *logger.Logger,
) StressService {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &stressService{
		store:    store,
		resolver: resolver,
		training: training,
		settings: settings,
		log:      log.With("service", "StressService"),
	}
}

func (s *stressService) today() time.Time {
	return streak.Day(s.settings.Now().UTC())
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	return d, nil
}

// RecordEntry stores one entry and recomputes the user's streak in the same
// transaction. Restores are limited per calendar month of the restored date.
func (s *stressService) RecordEntry(ctx context.Context, userID uint, input models.StressEntryInput, isRestore bool) (*models.StressEntry, error) {
	ctx, span := tracer.Start(ctx, "StressService.RecordEntry")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", int64(userID)), attribute.Bool("restore", isRestore))

	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	if isRestore && date.After(s.today()) {
		return nil, &ValidationError{Field: "date", Reason: "a restore must target a past date"}
	}
	if input.StressLevel == nil {
		return nil, &ValidationError{Field: "stress_level", Reason: "required"}
	}

	entry := &models.StressEntry{
		UserID:                     userID,
		Date:                       date,
		StressLevel:                *input.StressLevel,
		GPA:                        input.GPA,
		ExtracurricularHourPerDay:  input.ExtracurricularHourPerDay,
		PhysicalActivityHourPerDay: input.PhysicalActivityHourPerDay,
		SleepHourPerDay:            input.SleepHourPerDay,
		StudyHourPerDay:            input.StudyHourPerDay,
		SocialHourPerDay:           input.SocialHourPerDay,
		Emoji:                      input.Emoji,
		IsRestored:                 isRestore,
	}

	var current int
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		// Row lock serializes writers per user so the restore quota check and
		// the insert act as one unit.
		user, err := tx.Users.LockUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		exists, err := tx.Entries.ExistsOnDate(ctx, userID, date)
		if err != nil {
			return err
		}
		if exists {
			return &DuplicateDateError{Date: input.Date}
		}

		if isRestore {
			start, end := streak.MonthBounds(date)
			used, err := tx.Entries.CountRestored(ctx, userID, start, end)
			if err != nil {
				return err
			}
			if used >= s.settings.RestoreLimit {
				return &QuotaExceededError{Used: used, Limit: s.settings.RestoreLimit, Month: start.Format("2006-01")}
			}
		}

		if entry.GPA == nil {
			gpa, err := tx.Entries.LatestGPA(ctx, userID)
			if err != nil {
				return err
			}
			entry.GPA = gpa
		}

		if err := tx.Entries.Create(ctx, entry); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &DuplicateDateError{Date: input.Date}
			}
			return err
		}

		dates, err := tx.Entries.ListDates(ctx, userID)
		if err != nil {
			return err
		}
		current = streak.Current(dates)
		if err := tx.Users.UpdateStreak(ctx, userID, current); err != nil {
			return err
		}
		user.Streak = current

		_, err = s.training.MaybeEnqueuePersonalized(ctx, tx, user)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.log.Info("stress entry recorded",
		"user_id", userID,
		"date", input.Date,
		"restore", isRestore,
		"streak", current,
	)
	return entry, nil
}

func (s *stressService) ListEntries(ctx context.Context, userID uint) ([]models.StressEntry, error) {
	return s.store.Entries.ListByUser(ctx, userID)
}

// GetEligibility is read-only; streak and restore usage are derived from the
// stored entries at call time.
func (s *stressService) GetEligibility(ctx context.Context, userID uint) (*models.EligibilityResult, error) {
	dates, err := s.store.Entries.ListDates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list entry dates: %w", err)
	}
	current := streak.Current(dates)
	required := streak.RequiredStreak(s.settings.RequiredStreak, s.resolver.RequiredHistoryDays(ctx))

	start, end := streak.MonthBounds(s.today())
	used, err := s.store.Entries.CountRestored(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("count restores: %w", err)
	}

	result := streak.Evaluate(userID, current, required, used, s.settings.RestoreLimit)
	return &result, nil
}

func (s *stressService) GetForecast(ctx context.Context, userID uint) (*models.ForecastPayload, error) {
	ctx, span := tracer.Start(ctx, "StressService.GetForecast")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", int64(userID)))

	payload, err := s.forecast(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("model_type", payload.Forecast.ModelType),
		attribute.Float64("probability", payload.Forecast.Probability),
	)
	return payload, nil
}

func (s *stressService) forecast(ctx context.Context, userID uint) (*models.ForecastPayload, error) {
	eligibility, err := s.GetEligibility(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Eligible {
		return nil, &NotEligibleError{Eligibility: *eligibility}
	}

	art, loc, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.Entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	row, err := features.Latest(entries, art.Meta.FeatureSpec())
	if err != nil {
		return nil, err
	}

	result, err := ml.Predict(art, row, userID)
	if err != nil {
		return nil, err
	}
	result.ModelScope = loc.Scope

	s.log.Info("forecast produced",
		"user_id", userID,
		"forecast_date", result.ForecastDate,
		"model_type", result.ModelType,
		"scope", loc.Scope,
		"probability", result.Probability,
		"label", result.PredictionLabel,
	)
	return &models.ForecastPayload{Forecast: result, Eligibility: eligibility}, nil
}
