package models

type EligibilityResult struct {
	UserID           uint   `json:"user_id"`
	Eligible         bool   `json:"eligible"`
	Streak           int    `json:"streak"`
	RequiredStreak   int    `json:"required_streak"`
	RestoreUsed      int    `json:"restore_used"`
	RestoreRemaining int    `json:"restore_remaining"`
	RestoreLimit     int    `json:"restore_limit"`
	Missing          int    `json:"missing"`
	Note             string `json:"note"`
}

type ForecastResult struct {
	UserID           uint    `json:"user_id"`
	ForecastDate     string  `json:"forecast_date"`
	Probability      float64 `json:"probability"`
	ChancePercent    float64 `json:"chance_percent"`
	Threshold        float64 `json:"threshold"`
	PredictionBinary int     `json:"prediction_binary"`
	PredictionLabel  string  `json:"prediction_label"`
	ModelType        string  `json:"model_type"`
	ModelScope       string  `json:"model_scope"`
}

type ForecastPayload struct {
	Forecast    *ForecastResult    `json:"forecast"`
	Eligibility *EligibilityResult `json:"eligibility"`
}
