package ml

import (
	"fmt"
	"math"

	"nostressia/internal/features"
	"nostressia/internal/models"
)

const (
	LabelHighRisk = "HighRisk"
	LabelLowRisk  = "LowRisk"

	dateLayout = "2006-01-02"
)

// Predict evaluates the artifact against the user's latest feature row.
func Predict(art *Artifact, row features.Row, userID uint) (*models.ForecastResult, error) {
	if art == nil || art.Model == nil {
		return nil, &UnknownModelTypeError{}
	}

	var (
		p   float64
		err error
	)
	switch m := art.Model.(type) {
	case Markov:
		p, err = markovProba(m.Probs, row, art.Meta)
	case Pipeline:
		p, err = m.Scorer.PredictProba(row.Values)
	case Blend:
		var pml, pmk float64
		if pml, err = m.Scorer.PredictProba(row.Values); err != nil {
			break
		}
		if pmk, err = markovProba(m.Markov, row, art.Meta); err != nil {
			break
		}
		p = BlendProba(m.Alpha, pml, pmk)
	default:
		return nil, &UnknownModelTypeError{Type: art.Type}
	}
	if err != nil {
		return nil, fmt.Errorf("score %s model: %w", art.Kind(), err)
	}

	thr := art.Threshold.For(userID)
	binary := 0
	label := LabelLowRisk
	if p >= thr {
		binary = 1
		label = LabelHighRisk
	}

	return &models.ForecastResult{
		UserID:           userID,
		ForecastDate:     row.ForecastDate().Format(dateLayout),
		Probability:      p,
		ChancePercent:    math.Round(p*100*100) / 100,
		Threshold:        thr,
		PredictionBinary: binary,
		PredictionLabel:  label,
		ModelType:        art.Type,
	}, nil
}

// BlendProba is alpha*pML + (1-alpha)*pMarkov.
func BlendProba(alpha, pML, pMarkov float64) float64 {
	return alpha*pML + (1-alpha)*pMarkov
}

func markovProba(t Table, row features.Row, meta Meta) (float64, error) {
	lag, ok := row.Value(features.LagCol(1))
	if !ok {
		return 0, fmt.Errorf("row has no %s value", features.LagCol(1))
	}
	dow, ok := row.Value(features.ColDow)
	if !ok || dow < 0 || dow > 6 {
		return 0, fmt.Errorf("row has no valid %s value", features.ColDow)
	}
	high := meta.HighThreshold
	if high <= 0 {
		high = features.DefaultHigh
	}
	prev := 0
	if lag >= high {
		prev = 1
	}
	return t[prev][int(dow)][1], nil
}
