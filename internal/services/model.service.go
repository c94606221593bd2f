package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"nostressia/internal/logger"
	"nostressia/internal/models"
	"nostressia/internal/repository"
)

// ModelService is the admin side of the model registry.
type ModelService interface {
	Register(ctx context.Context, req models.RegisterModelRequest) (*models.ModelRecord, error)
	// Active returns the active global record, or the user's personalized one
	// when userID is set. It returns (nil, nil) when none is active.
	Active(ctx context.Context, userID *uint) (*models.ModelRecord, error)
	List(ctx context.Context, scope string, limit int) ([]models.ModelRecord, error)
}

type modelService struct {
	store *repository.Store
	log   *logger.Logger
}

func NewModelService(store *repository.Store, log *logger.Logger) ModelService {
	return &modelService{
		store: store,
		log:   log.With("service", "ModelService"),
	}
}

func (s *modelService) Register(ctx context.Context, req models.RegisterModelRequest) (*models.ModelRecord, error) {
	switch req.Scope {
	case models.ScopeGlobal:
		if req.UserID != nil {
			return nil, &ValidationError{Field: "user_id", Reason: "must be empty for a global model"}
		}
	case models.ScopePersonalized:
		if req.UserID == nil {
			return nil, &ValidationError{Field: "user_id", Reason: "required for a personalized model"}
		}
	default:
		return nil, &ValidationError{Field: "model_type", Reason: "must be global or personalized"}
	}
	if req.ArtifactURL == "" {
		return nil, &ValidationError{Field: "artifact_url", Reason: "required"}
	}

	record := &models.ModelRecord{
		Scope:       req.Scope,
		UserID:      req.UserID,
		Milestone:   req.Milestone,
		ArtifactURL: req.ArtifactURL,
	}
	if req.TrainedAt != nil {
		record.TrainedAt = req.TrainedAt.UTC()
	} else {
		record.TrainedAt = time.Now().UTC()
	}
	if len(req.Metadata) > 0 {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, &ValidationError{Field: "metadata", Reason: err.Error()}
		}
		record.Metadata = datatypes.JSON(raw)
	}

	if err := s.store.Models.Activate(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("model activated",
		"model_id", record.ID,
		"scope", record.Scope,
		"user_id", record.UserID,
		"artifact_url", record.ArtifactURL,
	)
	return record, nil
}

func (s *modelService) Active(ctx context.Context, userID *uint) (*models.ModelRecord, error) {
	if userID != nil {
		return s.store.Models.ActivePersonalized(ctx, *userID)
	}
	return s.store.Models.ActiveGlobal(ctx)
}

func (s *modelService) List(ctx context.Context, scope string, limit int) ([]models.ModelRecord, error) {
	return s.store.Models.List(ctx, scope, limit)
}
