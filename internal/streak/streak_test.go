package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrent(t *testing.T) {
	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{name: "no entries", dates: nil, want: 0},
		{name: "single day", dates: []time.Time{date(2024, 1, 1)}, want: 1},
		{
			name:  "consecutive run",
			dates: []time.Time{date(2024, 1, 1), date(2024, 1, 2), date(2024, 1, 3)},
			want:  3,
		},
		{
			name:  "gap resets to the run ending at the latest date",
			dates: []time.Time{date(2024, 1, 1), date(2024, 1, 2), date(2024, 1, 4)},
			want:  1,
		},
		{
			name:  "unordered input",
			dates: []time.Time{date(2024, 1, 5), date(2024, 1, 3), date(2024, 1, 4), date(2024, 1, 1)},
			want:  3,
		},
		{
			name:  "crosses month and year boundary",
			dates: []time.Time{date(2023, 12, 30), date(2023, 12, 31), date(2024, 1, 1)},
			want:  3,
		},
		{
			name:  "duplicates and non-midnight times",
			dates: []time.Time{date(2024, 2, 1).Add(5 * time.Hour), date(2024, 2, 1), date(2024, 2, 2).Add(23 * time.Hour)},
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Current(tt.dates))
		})
	}
}

func TestCurrentMatchesBackwardWalk(t *testing.T) {
	// every prefix of a run of ten days, followed by a gap and a shorter run
	var dates []time.Time
	for i := 0; i < 10; i++ {
		dates = append(dates, date(2024, 3, 1).AddDate(0, 0, i))
		assert.Equal(t, i+1, Current(dates))
	}
	dates = append(dates, date(2024, 3, 13), date(2024, 3, 14))
	assert.Equal(t, 2, Current(dates))
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(date(2024, 2, 17))
	assert.Equal(t, date(2024, 2, 1), start)
	assert.Equal(t, date(2024, 3, 1), end)

	start, end = MonthBounds(date(2024, 12, 31))
	assert.Equal(t, date(2024, 12, 1), start)
	assert.Equal(t, date(2025, 1, 1), end)
}

func TestRequiredStreak(t *testing.T) {
	assert.Equal(t, 7, RequiredStreak(7, 0))
	assert.Equal(t, 7, RequiredStreak(7, 4))
	assert.Equal(t, 15, RequiredStreak(7, 15))
}

func TestEvaluate(t *testing.T) {
	for required := 1; required <= 10; required++ {
		for current := 0; current <= 12; current++ {
			res := Evaluate(1, current, required, 0, 3)
			assert.Equal(t, current >= required, res.Eligible, "streak=%d required=%d", current, required)
			if res.Eligible {
				assert.Zero(t, res.Missing)
			} else {
				assert.Equal(t, required-current, res.Missing)
			}
		}
	}

	res := Evaluate(9, 7, 7, 2, 3)
	assert.True(t, res.Eligible)
	assert.Equal(t, 1, res.RestoreRemaining)
	assert.Equal(t, "Eligible for global forecast.", res.Note)

	res = Evaluate(9, 3, 7, 5, 3)
	assert.False(t, res.Eligible)
	assert.Equal(t, 0, res.RestoreRemaining)
	assert.Equal(t, "Need 4 more entries to unlock global forecast.", res.Note)
}
