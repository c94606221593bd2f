// Package streak derives consecutive-day streaks, monthly restore usage and
// forecast eligibility from a user's stored entry dates.
package streak

import (
	"fmt"
	"time"

	"nostressia/internal/models"
)

// Day normalizes t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Current walks backward one day at a time from the latest date present and
// counts how many consecutive days are present. It returns 0 for no dates.
func Current(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	present := make(map[time.Time]struct{}, len(dates))
	var latest time.Time
	for i, d := range dates {
		day := Day(d.UTC())
		present[day] = struct{}{}
		if i == 0 || day.After(latest) {
			latest = day
		}
	}

	count := 0
	for cur := latest; ; cur = cur.AddDate(0, 0, -1) {
		if _, ok := present[cur]; !ok {
			break
		}
		count++
	}
	return count
}

// MonthBounds returns the first day of ref's month and the first day of the
// following month, as a half-open range.
func MonthBounds(ref time.Time) (start, end time.Time) {
	y, m, _ := ref.Date()
	start = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// RequiredStreak raises the configured minimum to the model's history
// requirement when one is known (modelDays > 0).
func RequiredStreak(minimum, modelDays int) int {
	if modelDays > minimum {
		return modelDays
	}
	return minimum
}

// Evaluate builds the eligibility result. It has no side effects.
func Evaluate(userID uint, current, required, restoreUsed, restoreLimit int) models.EligibilityResult {
	eligible := current >= required
	missing := required - current
	if missing < 0 {
		missing = 0
	}
	remaining := restoreLimit - restoreUsed
	if remaining < 0 {
		remaining = 0
	}

	note := "Eligible for global forecast."
	if !eligible {
		note = fmt.Sprintf("Need %d more entries to unlock global forecast.", missing)
	}

	return models.EligibilityResult{
		UserID:           userID,
		Eligible:         eligible,
		Streak:           current,
		RequiredStreak:   required,
		RestoreUsed:      restoreUsed,
		RestoreRemaining: remaining,
		RestoreLimit:     restoreLimit,
		Missing:          missing,
		Note:             note,
	}
}
