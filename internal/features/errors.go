package features

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is the common cause of both history errors below.
var ErrInsufficientData = errors.New("insufficient stress history")

type InsufficientHistoryError struct {
	Required int
	Have     int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("stress history too short for a forecast: at least %d days required, have %d", e.Required, e.Have)
}

func (e *InsufficientHistoryError) Unwrap() error { return ErrInsufficientData }

// InsufficientFeatureDataError means enough entries exist but no row has every
// required feature (typically missing covariates).
type InsufficientFeatureDataError struct {
	Required int
}

func (e *InsufficientFeatureDataError) Error() string {
	return fmt.Sprintf("not enough complete history to build forecast features: make sure at least %d days of data are available", e.Required)
}

func (e *InsufficientFeatureDataError) Unwrap() error { return ErrInsufficientData }
