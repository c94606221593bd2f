package routes

import (
	"nostressia/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterStressRoutes(router *gin.Engine, stressController *controllers.StressController, auth gin.HandlerFunc) {
	stressRoutes := router.Group("/stress-levels")
	stressRoutes.Use(auth)
	{
		stressRoutes.POST("/", stressController.CreateEntry)
		stressRoutes.POST("/restore", stressController.RestoreEntry)
		stressRoutes.GET("/my-logs", stressController.ListEntries)
		stressRoutes.GET("/eligibility", stressController.GetEligibility)
	}
}

func RegisterForecastRoutes(router *gin.Engine, forecastController *controllers.ForecastController, auth gin.HandlerFunc) {
	forecastRoutes := router.Group("/stress")
	forecastRoutes.Use(auth)
	{
		forecastRoutes.GET("/global-forecast", forecastController.GetGlobalForecast)
	}
}
