package controllers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nostressia/internal/controllers"
	"nostressia/internal/mocks"
	"nostressia/internal/models"
	"nostressia/internal/repository"
	"nostressia/internal/services"
)

func setupModelRouter(m *mocks.MockModelService, tr *mocks.MockTrainingService) *gin.Engine {
	controller := controllers.NewModelController(m, tr)
	router := setupTestRouter()
	router.POST("/models/", controller.RegisterModel)
	router.GET("/models/", controller.ListModels)
	router.GET("/models/active", controller.GetActiveModel)
	router.POST("/models/training/global", controller.TriggerGlobalTraining)
	router.GET("/models/training/jobs", controller.ListTrainingJobs)
	return router
}

func TestRegisterModel(t *testing.T) {
	record := &models.ModelRecord{ID: 3, Scope: models.ScopeGlobal, ArtifactURL: "gs://models/g.json", IsActive: true}

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMock      func(*mocks.MockModelService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:        "registered",
			requestBody: map[string]interface{}{"model_type": "global", "artifact_url": "gs://models/g.json"},
			setupMock: func(m *mocks.MockModelService) {
				m.On("Register", mock.Anything, mock.MatchedBy(func(r models.RegisterModelRequest) bool {
					return r.Scope == models.ScopeGlobal && r.ArtifactURL == "gs://models/g.json"
				})).Return(record, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unknown scope rejected by binding",
			requestBody:    map[string]interface{}{"model_type": "team", "artifact_url": "x"},
			setupMock:      func(m *mocks.MockModelService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_request",
		},
		{
			name:        "personalized without user",
			requestBody: map[string]interface{}{"model_type": "personalized", "artifact_url": "x"},
			setupMock: func(m *mocks.MockModelService) {
				m.On("Register", mock.Anything, mock.Anything).
					Return(nil, &services.ValidationError{Field: "user_id", Reason: "required for a personalized model"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(mocks.MockModelService)
			tt.setupMock(m)
			router := setupModelRouter(m, new(mocks.MockTrainingService))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/models/", tt.requestBody))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeBody(t, w)["code"])
			}
			m.AssertExpectations(t)
		})
	}
}

func TestGetActiveModel(t *testing.T) {
	userID := uint(9)
	personal := &models.ModelRecord{ID: 4, Scope: models.ScopePersonalized, UserID: &userID, ArtifactURL: "file://p.json"}

	t.Run("personalized by user id", func(t *testing.T) {
		m := new(mocks.MockModelService)
		m.On("Active", mock.Anything, mock.MatchedBy(func(id *uint) bool { return id != nil && *id == 9 })).Return(personal, nil)
		router := setupModelRouter(m, new(mocks.MockTrainingService))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models/active?user_id=9", nil))

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "personalized", data["model_type"])
	})

	t.Run("no active global", func(t *testing.T) {
		m := new(mocks.MockModelService)
		m.On("Active", mock.Anything, (*uint)(nil)).Return(nil, nil)
		router := setupModelRouter(m, new(mocks.MockTrainingService))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models/active", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad user id", func(t *testing.T) {
		m := new(mocks.MockModelService)
		router := setupModelRouter(m, new(mocks.MockTrainingService))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models/active?user_id=abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.AssertNotCalled(t, "Active", mock.Anything, mock.Anything)
	})
}

func TestListModels(t *testing.T) {
	m := new(mocks.MockModelService)
	m.On("List", mock.Anything, "global", 10).Return([]models.ModelRecord{{ID: 1}, {ID: 2}}, nil)
	router := setupModelRouter(m, new(mocks.MockTrainingService))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models/?scope=global&limit=10", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"], 2)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models/?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.AssertExpectations(t)
}

func TestTriggerGlobalTraining(t *testing.T) {
	tests := []struct {
		name           string
		job            *models.TrainingJob
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{"queued", &models.TrainingJob{ID: "job-1", JobType: models.JobTypeGlobal, Status: models.JobStatusQueued}, nil, http.StatusAccepted, "Global training job queued"},
		{"not due", nil, nil, http.StatusOK, "Global training not due"},
		{"failure", nil, errors.New("db down"), http.StatusInternalServerError, "Failed to queue global training"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := new(mocks.MockTrainingService)
			if tt.job != nil {
				tr.On("EnqueueGlobalIfDue", mock.Anything, mock.AnythingOfType("time.Time")).Return(tt.job, nil)
			} else {
				tr.On("EnqueueGlobalIfDue", mock.Anything, mock.AnythingOfType("time.Time")).Return(nil, tt.err)
			}
			router := setupModelRouter(new(mocks.MockModelService), tr)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/models/training/global", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedMsg, decodeBody(t, w)["message"])
			tr.AssertExpectations(t)
		})
	}
}

func TestListTrainingJobsFilters(t *testing.T) {
	tr := new(mocks.MockTrainingService)
	tr.On("ListJobs", mock.Anything, mock.MatchedBy(func(f repository.JobFilter) bool {
		return f.JobType == "personalized" && f.Status == "queued" && f.UserID != nil && *f.UserID == 7 && f.Limit == 50
	})).Return([]models.TrainingJob{{ID: "a"}}, nil)
	router := setupModelRouter(new(mocks.MockModelService), tr)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models/training/jobs?job_type=personalized&status=queued&user_id=7", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	tr.AssertExpectations(t)
}

type fixedStatus map[string]interface{}

func (f fixedStatus) GetStatus() map[string]interface{} { return f }

func TestHealth(t *testing.T) {
	reporters := map[string]controllers.StatusReporter{
		"scheduler": fixedStatus{"running": true},
		"redis":     controllers.StatusFunc(func() map[string]interface{} { return map[string]interface{}{"connected": true} }),
	}

	healthy := controllers.NewHealthController(func(context.Context) error { return nil }, reporters)
	router := setupTestRouter()
	router.GET("/", healthy.Health)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Contains(t, data, "scheduler")
	assert.Contains(t, data, "redis")

	down := controllers.NewHealthController(func(context.Context) error { return errors.New("refused") }, nil)
	router = setupTestRouter()
	router.GET("/", down.Health)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
