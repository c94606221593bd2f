package routes

import (
	"nostressia/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterModelRoutes mounts the registry and training endpoints used by the
// offline trainer and operators.
func RegisterModelRoutes(router *gin.Engine, modelController *controllers.ModelController, adminKey gin.HandlerFunc) {
	modelRoutes := router.Group("/models")
	modelRoutes.Use(adminKey)
	{
		modelRoutes.POST("/", modelController.RegisterModel)
		modelRoutes.GET("/", modelController.ListModels)
		modelRoutes.GET("/active", modelController.GetActiveModel)
		modelRoutes.POST("/training/global", modelController.TriggerGlobalTraining)
		modelRoutes.GET("/training/jobs", modelController.ListTrainingJobs)
	}
}

func RegisterHealthRoutes(router *gin.Engine, healthController *controllers.HealthController) {
	router.GET("/", healthController.Health)
}
