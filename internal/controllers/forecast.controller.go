package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nostressia/internal/services"
)

type ForecastController struct {
	service services.StressService
}

func NewForecastController(service services.StressService) *ForecastController {
	return &ForecastController{service: service}
}

// GetGlobalForecast godoc
// @Summary Next-day high-stress forecast
// @Description Probability that tomorrow is a high-stress day. Locked until the streak requirement is met.
// @Tags forecast
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Forecast generated successfully"
// @Failure 400 {object} map[string]interface{} "Not enough history"
// @Failure 403 {object} map[string]interface{} "Forecast locked"
// @Failure 503 {object} map[string]interface{} "Model artifact unavailable"
// @Router /stress/global-forecast [get]
func (fc *ForecastController) GetGlobalForecast(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	payload, err := fc.service.GetForecast(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to generate forecast", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Forecast generated successfully",
		"data":    payload,
	})
}
