package ml

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"nostressia/internal/features"
)

const (
	TypeMarkov     = "markov"
	TypeMLPipeline = "ml_pipeline"
	TypeBlend      = "blend"

	DefaultThreshold = 0.5
	DefaultAlpha     = 0.5

	// DefaultWindow is the lag window used when the metadata omits one.
	DefaultWindow = 3
)

// ErrMalformedArtifact is returned when an artifact has a known type but is
// missing, or carries badly shaped, model data.
var ErrMalformedArtifact = errors.New("malformed model artifact")

type UnknownModelTypeError struct {
	Type string
}

func (e *UnknownModelTypeError) Error() string {
	if e.Type == "" {
		return "model artifact has no recognizable type"
	}
	return fmt.Sprintf("unrecognized model type %q", e.Type)
}

// Model is one of Markov, Pipeline or Blend.
type Model interface {
	kind() string
}

// Table holds P(outcome | previous day high/low, day of week), indexed
// [prevHigh][dow][outcome].
type Table [2][7][2]float64

type Markov struct {
	Probs Table
}

type Pipeline struct {
	Scorer Scorer
}

type Blend struct {
	Markov Table
	Scorer Scorer
	Alpha  float64
}

func (Markov) kind() string   { return TypeMarkov }
func (Pipeline) kind() string { return TypeMLPipeline }
func (Blend) kind() string    { return TypeBlend }

type Meta struct {
	Window        int      `json:"window"`
	FeatureCols   []string `json:"feature_cols"`
	BehaviorCols  []string `json:"behavior_cols"`
	HighThreshold float64  `json:"high_threshold"`
	DateCol       string   `json:"date_col"`
	TargetCol     string   `json:"target_col"`
	TrainedAt     string   `json:"trained_at"`
}

// FeatureSpec maps the metadata onto the feature builder's settings. A
// missing or non-positive window falls back to DefaultWindow.
func (m Meta) FeatureSpec() features.Spec {
	window := m.Window
	if window <= 0 {
		window = DefaultWindow
	}
	return features.Spec{
		Window:        window,
		FeatureCols:   m.FeatureCols,
		BehaviorCols:  m.BehaviorCols,
		HighThreshold: m.HighThreshold,
	}
}

// Threshold is either one scalar or a per-user map keyed by user id.
type Threshold struct {
	Scalar  *float64
	PerUser map[string]float64
}

func (t *Threshold) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		return json.Unmarshal(data, &t.PerUser)
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("threshold must be a number or an object: %w", err)
	}
	t.Scalar = &v
	return nil
}

func (t Threshold) MarshalJSON() ([]byte, error) {
	if t.PerUser != nil {
		return json.Marshal(t.PerUser)
	}
	if t.Scalar != nil {
		return json.Marshal(*t.Scalar)
	}
	return []byte("null"), nil
}

// For returns the decision threshold for a user.
func (t Threshold) For(userID uint) float64 {
	if v, ok := t.PerUser[strconv.FormatUint(uint64(userID), 10)]; ok {
		return v
	}
	if t.Scalar != nil {
		return *t.Scalar
	}
	return DefaultThreshold
}

type Artifact struct {
	// Type is the artifact's declared type, or the inferred kind when absent.
	Type      string
	Model     Model
	Meta      Meta
	Threshold Threshold
}

// Kind is the canonical model shape: markov, ml_pipeline or blend.
func (a *Artifact) Kind() string {
	return a.Model.kind()
}

// RequiredHistoryDays is window+1, or 0 when the artifact does not declare a
// window. It does not apply DefaultWindow.
func (a *Artifact) RequiredHistoryDays() int {
	if a == nil || a.Meta.Window <= 0 {
		return 0
	}
	return a.Meta.Window + 1
}

type rawArtifact struct {
	Type        string          `json:"type"`
	Meta        Meta            `json:"meta"`
	Thr         Threshold       `json:"thr"`
	Probs       json.RawMessage `json:"probs"`
	MarkovProbs json.RawMessage `json:"markov_probs"`
	Alpha       *float64        `json:"alpha"`
	Pipe        *PipeSpec       `json:"pipe"`
}

var typeAliases = map[string]string{
	"markov":                   TypeMarkov,
	"global_markov":            TypeMarkov,
	"personalized_markov":      TypeMarkov,
	"ml_pipeline":              TypeMLPipeline,
	"ml":                       TypeMLPipeline,
	"global_ml_model":          TypeMLPipeline,
	"personalized_ml_model":    TypeMLPipeline,
	"blend":                    TypeBlend,
	"global_blend_model":       TypeBlend,
	"personalized_blend_model": TypeBlend,
}

// Decode parses a JSON artifact into its model variant.
func Decode(data []byte) (*Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}

	kind, err := resolveKind(raw)
	if err != nil {
		return nil, err
	}

	art := &Artifact{Type: raw.Type, Meta: raw.Meta, Threshold: raw.Thr}
	if art.Type == "" {
		art.Type = kind
	}

	switch kind {
	case TypeMarkov:
		table, err := decodeTable(raw.Probs)
		if err != nil {
			return nil, err
		}
		art.Model = Markov{Probs: table}
	case TypeMLPipeline:
		scorer, err := buildScorer(raw.Pipe, raw.Meta)
		if err != nil {
			return nil, err
		}
		art.Model = Pipeline{Scorer: scorer}
	case TypeBlend:
		table, err := decodeTable(raw.MarkovProbs)
		if err != nil {
			return nil, err
		}
		scorer, err := buildScorer(raw.Pipe, raw.Meta)
		if err != nil {
			return nil, err
		}
		alpha := DefaultAlpha
		if raw.Alpha != nil {
			alpha = *raw.Alpha
		}
		if alpha < 0 || alpha > 1 {
			return nil, fmt.Errorf("%w: blend alpha %v outside [0,1]", ErrMalformedArtifact, alpha)
		}
		art.Model = Blend{Markov: table, Scorer: scorer, Alpha: alpha}
	}
	return art, nil
}

func resolveKind(raw rawArtifact) (string, error) {
	if raw.Type != "" {
		kind, ok := typeAliases[raw.Type]
		if !ok {
			return "", &UnknownModelTypeError{Type: raw.Type}
		}
		return kind, nil
	}
	switch {
	case raw.Pipe != nil && len(raw.MarkovProbs) > 0:
		return TypeBlend, nil
	case raw.Pipe != nil:
		return TypeMLPipeline, nil
	case len(raw.Probs) > 0:
		return TypeMarkov, nil
	}
	return "", &UnknownModelTypeError{}
}

func decodeTable(data json.RawMessage) (Table, error) {
	var table Table
	if len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return table, fmt.Errorf("%w: missing markov probabilities", ErrMalformedArtifact)
	}
	var nested [][][]float64
	if err := json.Unmarshal(data, &nested); err != nil {
		return table, fmt.Errorf("%w: markov probabilities: %v", ErrMalformedArtifact, err)
	}
	if len(nested) != 2 {
		return table, fmt.Errorf("%w: markov table must have 2 states, got %d", ErrMalformedArtifact, len(nested))
	}
	for s := range nested {
		if len(nested[s]) != 7 {
			return table, fmt.Errorf("%w: markov state %d must have 7 weekdays, got %d", ErrMalformedArtifact, s, len(nested[s]))
		}
		for d := range nested[s] {
			if len(nested[s][d]) != 2 {
				return table, fmt.Errorf("%w: markov cell [%d][%d] must have 2 outcomes", ErrMalformedArtifact, s, d)
			}
			table[s][d][0] = nested[s][d][0]
			table[s][d][1] = nested[s][d][1]
		}
	}
	return table, nil
}

func buildScorer(spec *PipeSpec, meta Meta) (Scorer, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: missing pipeline", ErrMalformedArtifact)
	}
	if len(spec.Columns) == 0 {
		spec.Columns = meta.FeatureSpec().Columns()
	}
	return NewScorer(*spec)
}
