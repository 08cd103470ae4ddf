package emotion

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearModelScore(t *testing.T) {
	model, err := NewLinearModel(LinearModelParams{
		Labels: []string{"A", "B"},
		Weights: [][]float64{
			{1.0, 0.0, 2.0},
			{0.0, -1.0, 0.5},
		},
		Bias: []float64{0.5, -0.5},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, model.Dimensions())
	assert.Equal(t, []string{"A", "B"}, model.Labels())

	scores, err := model.Score(FeatureVector{1.0, 2.0, 3.0})
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.InDelta(t, 1.0*1.0+2.0*3.0+0.5, scores[0], 1e-12)
	assert.InDelta(t, -1.0*2.0+0.5*3.0-0.5, scores[1], 1e-12)
}

func TestLinearModelValidation(t *testing.T) {
	cases := map[string]LinearModelParams{
		"no labels": {
			Weights: [][]float64{{1.0}},
			Bias:    []float64{0.0},
		},
		"weight row count mismatch": {
			Labels:  []string{"A", "B"},
			Weights: [][]float64{{1.0}},
			Bias:    []float64{0.0, 0.0},
		},
		"bias count mismatch": {
			Labels:  []string{"A"},
			Weights: [][]float64{{1.0}},
			Bias:    []float64{0.0, 0.0},
		},
		"ragged weight rows": {
			Labels:  []string{"A", "B"},
			Weights: [][]float64{{1.0, 2.0}, {1.0}},
			Bias:    []float64{0.0, 0.0},
		},
	}

	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewLinearModel(params)
			assert.Error(t, err)
		})
	}
}

func TestLinearModelDimensionMismatch(t *testing.T) {
	model, err := NewLinearModel(LinearModelParams{
		Labels:  []string{"A"},
		Weights: [][]float64{{1.0, 1.0}},
		Bias:    []float64{0.0},
	})
	require.NoError(t, err)

	_, err = model.Score(FeatureVector{1.0})
	assert.ErrorIs(t, err, ErrFeatureDimensionMismatch)
}

func TestLoadLinearModel(t *testing.T) {
	params := LinearModelParams{
		Labels:  []string{"A", "B"},
		Weights: [][]float64{{1.0, 2.0}, {3.0, 4.0}},
		Bias:    []float64{0.1, 0.2},
	}
	data, err := json.Marshal(params)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	model, err := LoadLinearModel(path)
	require.NoError(t, err)
	assert.Equal(t, 2, model.Dimensions())
	assert.Equal(t, []string{"A", "B"}, model.Labels())
}

func TestLoadLinearModelMissingFile(t *testing.T) {
	_, err := LoadLinearModel(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestRuleModelDimensions(t *testing.T) {
	model := NewRuleModel(13)
	assert.Equal(t, 33, model.Dimensions())
	assert.Equal(t, Labels(), model.Labels())
}

func TestRuleModelScoresByProsody(t *testing.T) {
	model := NewRuleModel(13)
	base := 2 * 13

	// Neutral floor: nothing stands out
	fv := make(FeatureVector, model.Dimensions())
	scores, err := model.Score(fv)
	require.NoError(t, err)
	best := argmaxIndex(scores)
	assert.Equal(t, LabelNeutral, Labels()[best])

	// Bright energetic voiced speech leans Joy
	fv = make(FeatureVector, model.Dimensions())
	fv[base+offsetPitchMean] = 220.0
	fv[base+offsetVoicedRatio] = 0.8
	fv[base+offsetEnergyMean] = 0.12
	scores, err = model.Score(fv)
	require.NoError(t, err)
	assert.Equal(t, LabelJoy, Labels()[argmaxIndex(scores)])

	// Quiet low-pitched speech leans Sadness
	fv = make(FeatureVector, model.Dimensions())
	fv[base+offsetPitchMean] = 120.0
	fv[base+offsetVoicedRatio] = 0.6
	fv[base+offsetEnergyMean] = 0.02
	scores, err = model.Score(fv)
	require.NoError(t, err)
	assert.Equal(t, LabelSadness, Labels()[argmaxIndex(scores)])
}

func argmaxIndex(scores []float64) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}
