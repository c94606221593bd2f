package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nostressia/internal/apierr"
	"nostressia/internal/artifact"
	"nostressia/internal/features"
	"nostressia/internal/ml"
	"nostressia/internal/services"
)

// toAPIError maps domain errors onto HTTP statuses and stable codes.
func toAPIError(err error) *apierr.Error {
	var (
		apiErr       *apierr.Error
		quota        *services.QuotaExceededError
		notEligible  *services.NotEligibleError
		invalid      *services.ValidationError
		history      *features.InsufficientHistoryError
		featureData  *features.InsufficientFeatureDataError
		unavailable  *artifact.UnavailableError
		unknownModel *ml.UnknownModelTypeError
	)

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, services.ErrDuplicateDate):
		return apierr.New(http.StatusConflict, "duplicate_date", err)
	case errors.As(err, &quota):
		return apierr.New(http.StatusForbidden, "restore_quota_exceeded", err).WithDetails(gin.H{
			"used":  quota.Used,
			"limit": quota.Limit,
			"month": quota.Month,
		})
	case errors.As(err, &notEligible):
		return apierr.New(http.StatusForbidden, "not_eligible", err).WithDetails(notEligible.Eligibility)
	case errors.As(err, &invalid):
		return apierr.New(http.StatusBadRequest, "invalid_request", err).WithDetails(gin.H{"field": invalid.Field})
	case errors.As(err, &history):
		return apierr.New(http.StatusBadRequest, "insufficient_history", err).WithDetails(gin.H{
			"required": history.Required,
			"have":     history.Have,
		})
	case errors.As(err, &featureData):
		return apierr.New(http.StatusBadRequest, "insufficient_history", err).WithDetails(gin.H{
			"required": featureData.Required,
		})
	case errors.As(err, &unavailable):
		return apierr.New(http.StatusServiceUnavailable, "artifact_unavailable", err).WithDetails(gin.H{
			"location": unavailable.Location,
		})
	case errors.As(err, &unknownModel):
		return apierr.New(http.StatusInternalServerError, "unknown_model_type", err).WithDetails(gin.H{
			"model_type": unknownModel.Type,
		})
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	}
	return apierr.New(http.StatusInternalServerError, "internal_error", err)
}

// respondError writes the error envelope and records err for the request log.
func respondError(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	e := toAPIError(err)
	body := gin.H{
		"status":  "error",
		"message": message,
		"code":    e.Code,
		"error":   e.Error(),
	}
	if e.Details != nil {
		body["details"] = e.Details
	}
	c.JSON(e.Status, body)
}

func respondBadRequest(c *gin.Context, message string, err error) {
	respondError(c, message, apierr.New(http.StatusBadRequest, "invalid_request", err))
}

// currentUserID reads the id set by the auth middleware.
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "User not authenticated",
			"error":   "Missing user identity",
		})
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "User not authenticated",
			"error":   "Invalid user identity",
		})
		return 0, false
	}
	return id, true
}
