package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nostressia/internal/models"
	"nostressia/internal/services"
)

type StressController struct {
	service services.StressService
}

func NewStressController(service services.StressService) *StressController {
	return &StressController{service: service}
}

// CreateEntry godoc
// @Summary Record today's stress entry
// @Description Store a daily stress level with optional behavioral covariates. One entry per user per date.
// @Tags stress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body models.StressEntryInput true "Stress entry"
// @Success 201 {object} map[string]interface{} "Stress entry recorded successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 401 {object} map[string]interface{} "User not authenticated"
// @Failure 409 {object} map[string]interface{} "Entry already exists for this date"
// @Router /stress-levels/ [post]
func (sc *StressController) CreateEntry(c *gin.Context) {
	sc.record(c, false)
}

// RestoreEntry godoc
// @Summary Restore a missed day
// @Description Backfill a past date. Limited per calendar month of the restored date.
// @Tags stress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body models.StressEntryInput true "Stress entry for the missed date"
// @Success 201 {object} map[string]interface{} "Stress entry restored successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 403 {object} map[string]interface{} "Restore limit reached"
// @Failure 409 {object} map[string]interface{} "Entry already exists for this date"
// @Router /stress-levels/restore [post]
func (sc *StressController) RestoreEntry(c *gin.Context) {
	sc.record(c, true)
}

func (sc *StressController) record(c *gin.Context, isRestore bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input models.StressEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "Invalid request data", err)
		return
	}

	entry, err := sc.service.RecordEntry(c.Request.Context(), userID, input, isRestore)
	if err != nil {
		respondError(c, "Failed to record stress entry", err)
		return
	}

	message := "Stress entry recorded successfully"
	if isRestore {
		message = "Stress entry restored successfully"
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": message,
		"data":    entry,
	})
}

// ListEntries godoc
// @Summary List my stress entries
// @Description All entries of the authenticated user, oldest first
// @Tags stress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Stress entries retrieved successfully"
// @Failure 401 {object} map[string]interface{} "User not authenticated"
// @Router /stress-levels/my-logs [get]
func (sc *StressController) ListEntries(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entries, err := sc.service.ListEntries(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to retrieve stress entries", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Stress entries retrieved successfully",
		"data":    entries,
	})
}

// GetEligibility godoc
// @Summary Forecast eligibility
// @Description Current streak, required streak and this month's restore usage
// @Tags stress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Eligibility retrieved successfully"
// @Failure 401 {object} map[string]interface{} "User not authenticated"
// @Router /stress-levels/eligibility [get]
func (sc *StressController) GetEligibility(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := sc.service.GetEligibility(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to evaluate eligibility", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Eligibility retrieved successfully",
		"data":    result,
	})
}
