package emotion

import (
	"fmt"
	"math"
)

// EmotionScore maps each label to a probability. Produced by the classifier;
// probabilities are non-negative and sum to 1.
type EmotionScore map[string]float64

// ScoringModel is the capability the classifier depends on: anything that
// maps a D-dimensional feature vector to raw per-label scores qualifies —
// a trained statistical model, a calibrated linear model, or a rule-based
// scorer for tests. Implementations must be immutable after construction
// and safe for concurrent use.
type ScoringModel interface {
	// Labels returns the label set in score order
	Labels() []string

	// Dimensions returns the expected feature-vector length
	Dimensions() int

	// Score returns raw (unnormalized) scores, one per label
	Score(features FeatureVector) ([]float64, error)
}

// Classifier turns a model's raw scores into a valid probability
// distribution. Stateless apart from the read-only model handle.
type Classifier struct {
	model ScoringModel
}

// NewClassifier wraps a scoring model
func NewClassifier(model ScoringModel) *Classifier {
	return &Classifier{model: model}
}

// Model returns the underlying scoring model
func (c *Classifier) Model() ScoringModel {
	return c.model
}

// Classify maps a feature vector to a probability distribution over the
// model's labels. A dimensionality disagreement is a configuration defect,
// not an input problem, and is reported as ErrFeatureDimensionMismatch.
func (c *Classifier) Classify(features FeatureVector) (EmotionScore, error) {
	if len(features) != c.model.Dimensions() {
		return nil, fmt.Errorf("%w: got %d, model expects %d",
			ErrFeatureDimensionMismatch, len(features), c.model.Dimensions())
	}

	raw, err := c.model.Score(features)
	if err != nil {
		return nil, fmt.Errorf("model scoring failed: %w", err)
	}

	labels := c.model.Labels()
	if len(raw) != len(labels) {
		return nil, fmt.Errorf("%w: model returned %d scores for %d labels",
			ErrFeatureDimensionMismatch, len(raw), len(labels))
	}

	// Models that already emit a valid distribution (e.g. calibrated or
	// stub models) pass through untouched; raw scores get softmaxed.
	probs := raw
	if !isDistribution(raw) {
		probs = softmax(raw)
	}

	scores := make(EmotionScore, len(labels))
	for i, label := range labels {
		scores[label] = probs[i]
	}

	return scores, nil
}

// isDistribution reports whether scores already form a valid probability
// distribution: all non-negative, summing to 1 within a small tolerance.
func isDistribution(scores []float64) bool {
	sum := 0.0
	for _, s := range scores {
		if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return false
		}
		sum += s
	}
	return math.Abs(sum-1) <= 1e-6
}

// softmax normalizes raw scores into a probability distribution, with
// max-subtraction for numeric stability.
func softmax(raw []float64) []float64 {
	maxScore := raw[0]
	for _, s := range raw[1:] {
		if s > maxScore {
			maxScore = s
		}
	}

	probs := make([]float64, len(raw))
	sum := 0.0
	for i, s := range raw {
		probs[i] = math.Exp(s - maxScore)
		sum += probs[i]
	}

	for i := range probs {
		probs[i] /= sum
	}

	return probs
}
