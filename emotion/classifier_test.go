package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubModel returns fixed raw scores regardless of input
type stubModel struct {
	labels []string
	dims   int
	scores []float64
}

func (m *stubModel) Labels() []string { return m.labels }
func (m *stubModel) Dimensions() int  { return m.dims }
func (m *stubModel) Score(FeatureVector) ([]float64, error) {
	out := make([]float64, len(m.scores))
	copy(out, m.scores)
	return out, nil
}

func TestClassifyProducesDistribution(t *testing.T) {
	model := &stubModel{
		labels: Labels(),
		dims:   4,
		scores: []float64{2.0, 0.5, -1.0, 0.0, 1.5},
	}
	classifier := NewClassifier(model)

	scores, err := classifier.Classify(FeatureVector{0.1, 0.2, 0.3, 0.4})
	require.NoError(t, err)
	require.Len(t, scores, 5)

	sum := 0.0
	for label, p := range scores {
		assert.GreaterOrEqual(t, p, 0.0, "probability for %s must be non-negative", label)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-6)

	// Softmax preserves score ordering
	assert.Greater(t, scores[LabelJoy], scores[LabelAnger])
	assert.Greater(t, scores[LabelAnger], scores[LabelSadness])
}

func TestClassifyPassesThroughValidDistribution(t *testing.T) {
	model := &stubModel{
		labels: Labels(),
		dims:   3,
		scores: []float64{0.9, 0.05, 0.02, 0.02, 0.01},
	}
	classifier := NewClassifier(model)

	scores, err := classifier.Classify(FeatureVector{0, 0, 0})
	require.NoError(t, err)

	// Already a valid distribution: no softmax distortion
	assert.InDelta(t, 0.9, scores[LabelJoy], 1e-9)
	assert.InDelta(t, 0.05, scores[LabelSadness], 1e-9)
}

func TestClassifyDimensionMismatch(t *testing.T) {
	model := &stubModel{labels: Labels(), dims: 33, scores: []float64{1, 0, 0, 0, 0}}
	classifier := NewClassifier(model)

	_, err := classifier.Classify(FeatureVector{0.1, 0.2})
	assert.ErrorIs(t, err, ErrFeatureDimensionMismatch)
}

func TestClassifyDeterministic(t *testing.T) {
	model := &stubModel{
		labels: Labels(),
		dims:   2,
		scores: []float64{0.3, 1.2, -0.7, 0.0, 2.1},
	}
	classifier := NewClassifier(model)

	fv := FeatureVector{0.5, -0.5}
	first, err := classifier.Classify(fv)
	require.NoError(t, err)
	second, err := classifier.Classify(fv)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
