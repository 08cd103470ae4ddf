package emotion

import (
	"fmt"
	"math"
	"sort"
)

// tieEpsilon is the probability margin under which two labels are considered
// tied; ties resolve to the lexicographically first label for determinism.
const tieEpsilon = 1e-6

// AnalysisResult is the composed outcome of one analysis. Immutable once
// produced; identical clip and model state always compose the same result.
type AnalysisResult struct {
	Label             string       `json:"label"`
	ConfidencePercent int          `json:"confidence_percent"`
	Message           string       `json:"message"`
	Scores            EmotionScore `json:"scores,omitempty"`
}

// Composer selects the winning label and attaches its supportive message.
// The message table is validated against the label set at construction, so
// a missing message is a startup failure rather than a request-time one.
type Composer struct {
	messages map[string]string
}

// NewComposer validates that the message table covers exactly the given
// label set (both directions) and returns a composer.
func NewComposer(labels []string, messages map[string]string) (*Composer, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("label set cannot be empty")
	}

	for _, label := range labels {
		if _, ok := messages[label]; !ok {
			return nil, fmt.Errorf("%w: no message for label %q", ErrUnknownLabel, label)
		}
	}
	if len(messages) != len(labels) {
		known := make(map[string]bool, len(labels))
		for _, label := range labels {
			known[label] = true
		}
		for label := range messages {
			if !known[label] {
				return nil, fmt.Errorf("message table has entry %q outside the label set", label)
			}
		}
	}

	copied := make(map[string]string, len(messages))
	for k, v := range messages {
		copied[k] = v
	}

	return &Composer{messages: copied}, nil
}

// Compose picks the argmax label (lexicographically first within tieEpsilon)
// and derives the confidence percentage.
func (c *Composer) Compose(scores EmotionScore) (*AnalysisResult, error) {
	if len(scores) == 0 {
		return nil, fmt.Errorf("empty score distribution")
	}

	labels := make([]string, 0, len(scores))
	for label := range scores {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	// Walking labels in lexicographic order and requiring a strictly
	// better-than-epsilon improvement keeps ties on the first name.
	bestLabel := labels[0]
	bestProb := scores[bestLabel]
	for _, label := range labels[1:] {
		if scores[label] > bestProb+tieEpsilon {
			bestLabel = label
			bestProb = scores[label]
		}
	}

	message, ok := c.messages[bestLabel]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, bestLabel)
	}

	confidence := int(math.Round(bestProb * 100))
	if confidence < 0 {
		confidence = 0
	} else if confidence > 100 {
		confidence = 100
	}

	return &AnalysisResult{
		Label:             bestLabel,
		ConfidencePercent: confidence,
		Message:           message,
		Scores:            scores,
	}, nil
}
