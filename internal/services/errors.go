package services

import (
	"errors"
	"fmt"

	"nostressia/internal/models"
)

var (
	ErrDuplicateDate = errors.New("an entry already exists for this date")
	ErrUserNotFound  = errors.New("user not found")
)

type DuplicateDateError struct {
	Date string
}

func (e *DuplicateDateError) Error() string {
	return fmt.Sprintf("an entry already exists for %s", e.Date)
}

func (e *DuplicateDateError) Is(target error) bool { return target == ErrDuplicateDate }

// QuotaExceededError is returned when a restore would exceed the monthly limit.
type QuotaExceededError struct {
	Used  int
	Limit int
	Month string
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("restore limit reached for %s: %d of %d used", e.Month, e.Used, e.Limit)
}

type NotEligibleError struct {
	Eligibility models.EligibilityResult
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("forecast locked: streak %d of %d required", e.Eligibility.Streak, e.Eligibility.RequiredStreak)
}

// ValidationError rejects a malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
