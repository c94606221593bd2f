// Package features turns a user's ordered stress history into model-ready
// feature rows.
package features

import (
	"fmt"
	"math"
	"sort"
	"time"

	"nostressia/internal/models"
)

const (
	ColDow         = "dow"
	ColIsWeekend   = "is_weekend"
	ColMean        = "sp_mean"
	ColStd         = "sp_std"
	ColMin         = "sp_min"
	ColMax         = "sp_max"
	ColCountHigh   = "count_high"
	ColCountLow    = "count_low"
	ColStreakHigh  = "streak_high"
	ColTransitions = "transitions"

	lagPrefix   = "lag_sp_"
	lag1Prefix  = "lag1_"
	DefaultHigh = 1.0
)

// LagCol names the k-th lag of the target.
func LagCol(k int) string { return fmt.Sprintf("%s%d", lagPrefix, k) }

// CovariateCol names the lag-1 column of a behavioral covariate.
func CovariateCol(name string) string { return lag1Prefix + name }

// Spec is the slice of artifact metadata the builder needs.
type Spec struct {
	Window        int
	FeatureCols   []string
	BehaviorCols  []string
	HighThreshold float64
}

// Columns returns the configured feature columns, or the default layout when
// none are configured.
func (s Spec) Columns() []string {
	if len(s.FeatureCols) > 0 {
		return s.FeatureCols
	}
	cols := []string{ColDow, ColIsWeekend}
	for k := 1; k <= s.Window; k++ {
		cols = append(cols, LagCol(k))
	}
	cols = append(cols, ColMean, ColStd, ColMin, ColMax, ColCountHigh, ColCountLow, ColStreakHigh, ColTransitions)
	for _, c := range s.BehaviorCols {
		cols = append(cols, CovariateCol(c))
	}
	return cols
}

func (s Spec) high() float64 {
	if s.HighThreshold > 0 {
		return s.HighThreshold
	}
	return DefaultHigh
}

// Row is one featurized day. Values only holds non-null features.
type Row struct {
	Date   time.Time
	Target float64
	Values map[string]float64
}

// Value returns a feature and whether it is set.
func (r Row) Value(col string) (float64, bool) {
	v, ok := r.Values[col]
	return v, ok
}

// ForecastDate is the day the row is used to predict.
func (r Row) ForecastDate() time.Time {
	return r.Date.AddDate(0, 0, 1)
}

// Build featurizes every entry of one user's history and drops rows missing
// any known required column. Rows come back in ascending date order.
func Build(entries []models.StressEntry, spec Spec) []Row {
	sorted := make([]models.StressEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	n := len(sorted)
	w := spec.Window
	high := spec.high()

	y := make([]float64, n)
	for i, e := range sorted {
		y[i] = float64(e.StressLevel)
	}

	// shifted[i] is the previous day's target; shifted[0] is missing.
	shifted := make([]nullable, n)
	for i := 1; i < n; i++ {
		shifted[i] = nullable{v: y[i-1], ok: true}
	}

	// changed[i] mirrors a shift-and-compare where a missing value never
	// equals anything.
	changed := make([]float64, n)
	for i := 0; i < n; i++ {
		if i == 0 || !shifted[i].ok || !shifted[i-1].ok || shifted[i].v != shifted[i-1].v {
			changed[i] = 1
		}
	}

	highRun := make([]int, n)
	for i := 0; i < n; i++ {
		if shifted[i].ok && shifted[i].v >= high {
			highRun[i] = 1
			if i > 0 {
				highRun[i] += highRun[i-1]
			}
		}
	}

	cols := spec.Columns()
	known := knownColumns(spec)

	rows := make([]Row, 0, n)
	for i, e := range sorted {
		day := e.Date.UTC()
		values := make(map[string]float64, len(cols))

		dow := mondayFirst(day.Weekday())
		values[ColDow] = float64(dow)
		values[ColIsWeekend] = boolFloat(dow >= 5)

		for k := 1; k <= w; k++ {
			if i-k >= 0 {
				values[LagCol(k)] = y[i-k]
			}
		}

		for _, c := range spec.BehaviorCols {
			if i == 0 {
				continue
			}
			if v := sorted[i-1].Covariate(c); v != nil {
				values[CovariateCol(c)] = *v
			}
		}

		if w > 0 && i-w+1 >= 1 {
			win := make([]float64, 0, w)
			for j := i - w + 1; j <= i; j++ {
				win = append(win, shifted[j].v)
			}
			mean, std, lo, hi := summarize(win)
			values[ColMean] = mean
			values[ColStd] = std
			values[ColMin] = lo
			values[ColMax] = hi
		}

		// A missing previous value is neither high nor low.
		if w > 0 && i-w+1 >= 0 {
			var countHigh, countLow, transitions float64
			for j := i - w + 1; j <= i; j++ {
				if shifted[j].ok && shifted[j].v >= high {
					countHigh++
				}
				if shifted[j].ok && shifted[j].v == 0 {
					countLow++
				}
				transitions += changed[j]
			}
			values[ColCountHigh] = countHigh
			values[ColCountLow] = countLow
			values[ColTransitions] = transitions
		}

		values[ColStreakHigh] = float64(highRun[i])

		if !complete(values, cols, known) {
			continue
		}
		rows = append(rows, Row{Date: day, Target: y[i], Values: values})
	}
	return rows
}

// Latest builds the single inference row: the last surviving row of the
// history. It fails when the history is shorter than Window+1 entries or no
// row survives.
func Latest(entries []models.StressEntry, spec Spec) (Row, error) {
	required := spec.Window + 1
	if len(entries) < required {
		return Row{}, &InsufficientHistoryError{Required: required, Have: len(entries)}
	}
	rows := Build(entries, spec)
	if len(rows) == 0 {
		return Row{}, &InsufficientFeatureDataError{Required: required}
	}
	return rows[len(rows)-1], nil
}

type nullable struct {
	v  float64
	ok bool
}

func knownColumns(spec Spec) map[string]bool {
	known := map[string]bool{
		ColDow: true, ColIsWeekend: true, ColMean: true, ColStd: true, ColMin: true, ColMax: true,
		ColCountHigh: true, ColCountLow: true, ColStreakHigh: true, ColTransitions: true,
	}
	for k := 1; k <= spec.Window; k++ {
		known[LagCol(k)] = true
	}
	for _, c := range spec.BehaviorCols {
		known[CovariateCol(c)] = true
	}
	return known
}

// complete reports whether every column the builder produces has a value.
// Columns it cannot produce are left for the scorer to impute.
func complete(values map[string]float64, cols []string, known map[string]bool) bool {
	for _, c := range cols {
		if !known[c] {
			continue
		}
		if _, ok := values[c]; !ok {
			return false
		}
	}
	return true
}

func summarize(win []float64) (mean, std, lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range win {
		mean += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	mean /= float64(len(win))
	if len(win) > 1 {
		var ss float64
		for _, v := range win {
			ss += (v - mean) * (v - mean)
		}
		std = math.Sqrt(ss / float64(len(win)-1))
	}
	return mean, std, lo, hi
}

// mondayFirst maps time.Weekday (Sunday=0) to Monday=0..Sunday=6.
func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
