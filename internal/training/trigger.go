// Package training decides when offline retraining jobs are due. It never
// trains anything itself.
package training

import "time"

// Decision is the outcome of the personalized milestone check.
type Decision struct {
	// Reset means the streak fell below the recorded milestone and the
	// recorded milestone must go back to 0.
	Reset bool
	// Fire means a job should be enqueued for Milestone.
	Fire      bool
	Milestone int
}

// Personalized checks a freshly recomputed streak against the last milestone
// that was trained for the user.
func Personalized(streak, lastMilestone, interval int) Decision {
	if interval <= 0 {
		return Decision{}
	}
	if streak < lastMilestone {
		return Decision{Reset: true}
	}
	if streak <= 0 || streak%interval != 0 {
		return Decision{}
	}
	if streak <= lastMilestone {
		return Decision{}
	}
	return Decision{Fire: true, Milestone: streak}
}

// GlobalDue reports whether the global model is older than intervalDays. A
// model that was never trained is always due.
func GlobalDue(lastTrained *time.Time, now time.Time, intervalDays int) bool {
	if lastTrained == nil {
		return true
	}
	return !now.Before(lastTrained.AddDate(0, 0, intervalDays))
}
