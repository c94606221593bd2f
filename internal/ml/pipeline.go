package ml

import (
	"fmt"
	"math"
)

const PipelineLogistic = "logistic"

// Scorer returns the probability of the high-stress class for one feature row.
type Scorer interface {
	PredictProba(values map[string]float64) (float64, error)
}

// PipeSpec is the serialized form of a fitted pipeline.
type PipeSpec struct {
	Kind      string    `json:"kind"`
	Columns   []string  `json:"columns"`
	Impute    []float64 `json:"impute"`
	Mean      []float64 `json:"mean"`
	Scale     []float64 `json:"scale"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func NewScorer(spec PipeSpec) (Scorer, error) {
	switch spec.Kind {
	case PipelineLogistic, "":
		return newLogisticPipeline(spec)
	default:
		return nil, fmt.Errorf("%w: unsupported pipeline kind %q", ErrMalformedArtifact, spec.Kind)
	}
}

// LogisticPipeline imputes missing values, standardizes, then applies a
// logistic regression.
type LogisticPipeline struct {
	columns   []string
	impute    []float64
	mean      []float64
	scale     []float64
	coef      []float64
	intercept float64
}

func newLogisticPipeline(spec PipeSpec) (*LogisticPipeline, error) {
	n := len(spec.Columns)
	if n == 0 {
		return nil, fmt.Errorf("%w: pipeline has no columns", ErrMalformedArtifact)
	}
	if len(spec.Coef) != n {
		return nil, fmt.Errorf("%w: pipeline has %d coefficients for %d columns", ErrMalformedArtifact, len(spec.Coef), n)
	}
	for name, v := range map[string][]float64{"impute": spec.Impute, "mean": spec.Mean, "scale": spec.Scale} {
		if v != nil && len(v) != n {
			return nil, fmt.Errorf("%w: pipeline %s has %d values for %d columns", ErrMalformedArtifact, name, len(v), n)
		}
	}
	return &LogisticPipeline{
		columns:   spec.Columns,
		impute:    spec.Impute,
		mean:      spec.Mean,
		scale:     spec.Scale,
		coef:      spec.Coef,
		intercept: spec.Intercept,
	}, nil
}

func (p *LogisticPipeline) PredictProba(values map[string]float64) (float64, error) {
	z := p.intercept
	for i, col := range p.columns {
		v, ok := values[col]
		if !ok || math.IsNaN(v) {
			if p.impute == nil {
				return 0, fmt.Errorf("feature %q is missing and the pipeline has no imputer", col)
			}
			v = p.impute[i]
		}
		if p.mean != nil {
			v -= p.mean[i]
		}
		if p.scale != nil && p.scale[i] != 0 {
			v /= p.scale[i]
		}
		z += p.coef[i] * v
	}
	return 1 / (1 + math.Exp(-z)), nil
}
