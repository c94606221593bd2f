package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusReporter is implemented by background workers and the Redis client.
type StatusReporter interface {
	GetStatus() map[string]interface{}
}

// StatusFunc adapts a plain function to StatusReporter.
type StatusFunc func() map[string]interface{}

func (f StatusFunc) GetStatus() map[string]interface{} { return f() }

type HealthController struct {
	ping      func(ctx context.Context) error
	reporters map[string]StatusReporter
}

// NewHealthController takes a database ping and optional named reporters.
func NewHealthController(ping func(ctx context.Context) error, reporters map[string]StatusReporter) *HealthController {
	return &HealthController{ping: ping, reporters: reporters}
}

// Health godoc
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service is healthy"
// @Failure 503 {object} map[string]interface{} "Database unreachable"
// @Router / [get]
func (hc *HealthController) Health(c *gin.Context) {
	components := gin.H{}
	for name, r := range hc.reporters {
		components[name] = r.GetStatus()
	}

	if hc.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := hc.ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "error",
				"message": "Database unreachable",
				"error":   err.Error(),
				"data":    components,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Nostressia API is running",
		"data":    components,
	})
}
