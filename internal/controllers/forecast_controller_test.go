package controllers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nostressia/internal/artifact"
	"nostressia/internal/controllers"
	"nostressia/internal/features"
	"nostressia/internal/ml"
	"nostressia/internal/mocks"
	"nostressia/internal/models"
	"nostressia/internal/services"
)

func TestGetGlobalForecast(t *testing.T) {
	eligibility := models.EligibilityResult{UserID: 1, Eligible: true, Streak: 8, RequiredStreak: 7, RestoreLimit: 3, RestoreRemaining: 3}
	payload := &models.ForecastPayload{
		Forecast: &models.ForecastResult{
			UserID: 1, ForecastDate: "2025-01-09", Probability: 0.7, ChancePercent: 70,
			Threshold: 0.5, PredictionBinary: 1, PredictionLabel: "High Risk",
			ModelType: "global_markov", ModelScope: "global",
		},
		Eligibility: &eligibility,
	}

	tests := []struct {
		name           string
		returnPayload  *models.ForecastPayload
		returnErr      error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "forecast produced",
			returnPayload:  payload,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not eligible",
			returnErr:      &services.NotEligibleError{Eligibility: models.EligibilityResult{Streak: 3, RequiredStreak: 7, Missing: 4}},
			expectedStatus: http.StatusForbidden,
			expectedCode:   "not_eligible",
		},
		{
			name:           "insufficient history",
			returnErr:      &features.InsufficientHistoryError{Required: 10, Have: 8},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "insufficient_history",
		},
		{
			name:           "insufficient feature data",
			returnErr:      &features.InsufficientFeatureDataError{Required: 4},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "insufficient_history",
		},
		{
			name:           "artifact unavailable",
			returnErr:      &artifact.UnavailableError{Location: "gs://models/global.json", Err: errors.New("timeout")},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "artifact_unavailable",
		},
		{
			name:           "unknown model type",
			returnErr:      &ml.UnknownModelTypeError{Type: "xgboost"},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "unknown_model_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockStressService)
			if tt.returnErr != nil {
				mockService.On("GetForecast", mock.Anything, uint(1)).Return(nil, tt.returnErr)
			} else {
				mockService.On("GetForecast", mock.Anything, uint(1)).Return(tt.returnPayload, nil)
			}
			controller := controllers.NewForecastController(mockService)

			router := setupTestRouter()
			router.Use(addAuthMiddleware(1))
			router.GET("/stress/global-forecast", controller.GetGlobalForecast)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stress/global-forecast", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeBody(t, w)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, body["code"])
			} else {
				data := body["data"].(map[string]interface{})
				forecast := data["forecast"].(map[string]interface{})
				assert.Equal(t, "2025-01-09", forecast["forecast_date"])
				assert.Equal(t, 0.7, forecast["probability"])
				assert.NotNil(t, data["eligibility"])
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestGetGlobalForecastLockedCarriesEligibility(t *testing.T) {
	mockService := new(mocks.MockStressService)
	mockService.On("GetForecast", mock.Anything, uint(1)).Return(nil, &services.NotEligibleError{
		Eligibility: models.EligibilityResult{UserID: 1, Streak: 3, RequiredStreak: 7, Missing: 4, Note: "Need 4 more entries to unlock global forecast."},
	})
	controller := controllers.NewForecastController(mockService)

	router := setupTestRouter()
	router.Use(addAuthMiddleware(1))
	router.GET("/stress/global-forecast", controller.GetGlobalForecast)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stress/global-forecast", nil))

	require.Equal(t, http.StatusForbidden, w.Code)
	details := decodeBody(t, w)["details"].(map[string]interface{})
	assert.Equal(t, float64(4), details["missing"])
	assert.Equal(t, "Need 4 more entries to unlock global forecast.", details["note"])
}
