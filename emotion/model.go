package emotion

import (
	"encoding/json"
	"fmt"
	"os"
)

// LinearModelParams is the serialized form of a linear scoring model.
// Weights is one row per label, each row Dimensions long; Bias has one
// entry per label.
type LinearModelParams struct {
	Labels  []string    `json:"labels"`
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// LinearModel scores a feature vector as W·x + b per label. Parameters are
// copied at construction and never mutated afterwards, so one instance can
// be shared as a read-only handle across request workers.
type LinearModel struct {
	labels  []string
	weights [][]float64
	bias    []float64
	dims    int
}

// NewLinearModel validates and wraps model parameters
func NewLinearModel(params LinearModelParams) (*LinearModel, error) {
	if len(params.Labels) == 0 {
		return nil, fmt.Errorf("model has no labels")
	}
	if len(params.Weights) != len(params.Labels) {
		return nil, fmt.Errorf("model has %d weight rows for %d labels",
			len(params.Weights), len(params.Labels))
	}
	if len(params.Bias) != len(params.Labels) {
		return nil, fmt.Errorf("model has %d bias entries for %d labels",
			len(params.Bias), len(params.Labels))
	}

	dims := len(params.Weights[0])
	if dims == 0 {
		return nil, fmt.Errorf("model weight rows are empty")
	}
	for i, row := range params.Weights {
		if len(row) != dims {
			return nil, fmt.Errorf("weight row %d has %d entries, expected %d", i, len(row), dims)
		}
	}

	m := &LinearModel{
		labels:  make([]string, len(params.Labels)),
		weights: make([][]float64, len(params.Weights)),
		bias:    make([]float64, len(params.Bias)),
		dims:    dims,
	}
	copy(m.labels, params.Labels)
	copy(m.bias, params.Bias)
	for i, row := range params.Weights {
		m.weights[i] = make([]float64, dims)
		copy(m.weights[i], row)
	}

	return m, nil
}

// LoadLinearModel reads model parameters from a JSON file
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var params LinearModelParams
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to parse model file %s: %w", path, err)
	}

	return NewLinearModel(params)
}

// Labels returns the label set in score order
func (m *LinearModel) Labels() []string {
	labels := make([]string, len(m.labels))
	copy(labels, m.labels)
	return labels
}

// Dimensions returns the expected feature-vector length
func (m *LinearModel) Dimensions() int {
	return m.dims
}

// Score computes W·x + b for each label
func (m *LinearModel) Score(features FeatureVector) ([]float64, error) {
	if len(features) != m.dims {
		return nil, fmt.Errorf("%w: got %d, model expects %d",
			ErrFeatureDimensionMismatch, len(features), m.dims)
	}

	scores := make([]float64, len(m.labels))
	for i := range m.labels {
		sum := m.bias[i]
		for j, w := range m.weights[i] {
			sum += w * features[j]
		}
		scores[i] = sum
	}

	return scores, nil
}

// RuleModel scores the prosodic block of the feature vector with fixed
// thresholds ported from the original rule-based analyzer: bright energetic
// voiced speech leans Joy, low energy and low pitch leans Sadness, high
// zero-crossing leans Anxiety, loud and harsh leans Anger. It needs no
// trained weights, which also makes it the deterministic model of choice
// for tests.
type RuleModel struct {
	mfccCoefficients int
}

// NewRuleModel creates a rule-based model for the given MFCC front-end size
func NewRuleModel(mfccCoefficients int) *RuleModel {
	return &RuleModel{mfccCoefficients: mfccCoefficients}
}

// Labels returns the label set in score order
func (m *RuleModel) Labels() []string {
	return Labels()
}

// Dimensions returns the expected feature-vector length
func (m *RuleModel) Dimensions() int {
	return 2*m.mfccCoefficients + prosodicFeatureCount
}

// Score applies the threshold rules and returns raw scores for softmax
func (m *RuleModel) Score(features FeatureVector) ([]float64, error) {
	if len(features) != m.Dimensions() {
		return nil, fmt.Errorf("%w: got %d, model expects %d",
			ErrFeatureDimensionMismatch, len(features), m.Dimensions())
	}

	base := 2 * m.mfccCoefficients
	pitchMean := features[base+offsetPitchMean]
	voicedRatio := features[base+offsetVoicedRatio]
	energyMean := features[base+offsetEnergyMean]
	zcrMean := features[base+offsetZCRMean]

	// Raw scores in Labels() order: Joy, Sadness, Anxiety, Neutral, Anger.
	// Neutral gets a constant floor so it wins when nothing stands out.
	scores := make([]float64, 5)
	scores[3] = 1.0

	if energyMean > 0.08 && pitchMean > 180 && voicedRatio > 0.4 {
		scores[0] = 2.0 + 5.0*(energyMean-0.08)
	}
	if energyMean < 0.05 && pitchMean > 0 && pitchMean < 160 {
		scores[1] = 2.0 + 10.0*(0.05-energyMean)
	}
	if zcrMean > 0.12 && voicedRatio < 0.5 {
		scores[2] = 1.5 + 8.0*(zcrMean-0.12)
	}
	if energyMean > 0.15 && zcrMean > 0.08 {
		scores[4] = 1.8 + 4.0*(energyMean-0.15)
	}

	return scores, nil
}
