package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"nostressia/internal/controllers"
	"nostressia/internal/middleware"
	"nostressia/internal/mocks"
	"nostressia/internal/models"
)

func TestStressRoutesRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	svc := new(mocks.MockStressService)
	RegisterStressRoutes(router, controllers.NewStressController(svc), middleware.AuthMiddleware("secret", nil))
	RegisterForecastRoutes(router, controllers.NewForecastController(svc), middleware.AuthMiddleware("secret", nil))

	for _, path := range []string{"/stress-levels/my-logs", "/stress-levels/eligibility", "/stress/global-forecast"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestModelRoutesRequireAdminKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	modelSvc := new(mocks.MockModelService)
	modelSvc.On("Active", mock.Anything, (*uint)(nil)).Return(&models.ModelRecord{ID: 1, Scope: models.ScopeGlobal}, nil)
	RegisterModelRoutes(router, controllers.NewModelController(modelSvc, new(mocks.MockTrainingService)), middleware.AdminKeyMiddleware("k"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models/active", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/models/active", nil)
	req.Header.Set("X-Admin-Key", "k")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
