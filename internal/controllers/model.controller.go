package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"nostressia/internal/models"
	"nostressia/internal/repository"
	"nostressia/internal/services"
)

type ModelController struct {
	models   services.ModelService
	training services.TrainingService
}

func NewModelController(modelService services.ModelService, trainingService services.TrainingService) *ModelController {
	return &ModelController{models: modelService, training: trainingService}
}

// RegisterModel godoc
// @Summary Register and activate a trained artifact
// @Description Deactivates the current model of the same scope and user, then activates this one
// @Tags models
// @Accept json
// @Produce json
// @Param X-Admin-Key header string true "Admin key"
// @Param model body models.RegisterModelRequest true "Model record"
// @Success 201 {object} map[string]interface{} "Model registered successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 401 {object} map[string]interface{} "Admin key required"
// @Router /models/ [post]
func (mc *ModelController) RegisterModel(c *gin.Context) {
	var req models.RegisterModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data", err)
		return
	}

	record, err := mc.models.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to register model", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Model registered successfully",
		"data":    record,
	})
}

// GetActiveModel godoc
// @Summary Active model record
// @Description Active global model, or the user's personalized model when user_id is given
// @Tags models
// @Produce json
// @Param X-Admin-Key header string true "Admin key"
// @Param user_id query int false "User ID"
// @Success 200 {object} map[string]interface{} "Active model retrieved successfully"
// @Failure 404 {object} map[string]interface{} "No active model"
// @Router /models/active [get]
func (mc *ModelController) GetActiveModel(c *gin.Context) {
	var userID *uint
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			respondBadRequest(c, "Invalid user ID", errors.New("user_id must be a valid positive integer"))
			return
		}
		u := uint(id)
		userID = &u
	}

	record, err := mc.models.Active(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to retrieve active model", err)
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "No active model",
			"code":    "not_found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Active model retrieved successfully",
		"data":    record,
	})
}

// ListModels godoc
// @Summary Registry history
// @Tags models
// @Produce json
// @Param X-Admin-Key header string true "Admin key"
// @Param scope query string false "global or personalized"
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {object} map[string]interface{} "Models retrieved successfully"
// @Router /models/ [get]
func (mc *ModelController) ListModels(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	records, err := mc.models.List(c.Request.Context(), c.Query("scope"), limit)
	if err != nil {
		respondError(c, "Failed to retrieve models", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Models retrieved successfully",
		"data":    records,
	})
}

// TriggerGlobalTraining godoc
// @Summary Queue global retraining if due
// @Description No-op when a global job is pending or the active global model is still fresh
// @Tags models
// @Produce json
// @Param X-Admin-Key header string true "Admin key"
// @Success 202 {object} map[string]interface{} "Global training job queued"
// @Success 200 {object} map[string]interface{} "Global training not due"
// @Router /models/training/global [post]
func (mc *ModelController) TriggerGlobalTraining(c *gin.Context) {
	job, err := mc.training.EnqueueGlobalIfDue(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, "Failed to queue global training", err)
		return
	}
	if job == nil {
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Global training not due",
			"data":    nil,
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "success",
		"message": "Global training job queued",
		"data":    job,
	})
}

// ListTrainingJobs godoc
// @Summary List training jobs
// @Tags models
// @Produce json
// @Param X-Admin-Key header string true "Admin key"
// @Param job_type query string false "global or personalized"
// @Param status query string false "queued, running, success or failed"
// @Param user_id query int false "User ID"
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {object} map[string]interface{} "Training jobs retrieved successfully"
// @Router /models/training/jobs [get]
func (mc *ModelController) ListTrainingJobs(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	filter := repository.JobFilter{
		JobType: c.Query("job_type"),
		Status:  c.Query("status"),
		Limit:   limit,
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			respondBadRequest(c, "Invalid user ID", errors.New("user_id must be a valid positive integer"))
			return
		}
		u := uint(id)
		filter.UserID = &u
	}

	jobs, err := mc.training.ListJobs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to retrieve training jobs", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Training jobs retrieved successfully",
		"data":    jobs,
	})
}

const defaultListLimit = 50

func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 || limit > 500 {
		respondBadRequest(c, "Invalid limit", errors.New("limit must be between 1 and 500"))
		return 0, false
	}
	return limit, true
}
