package emotion

import "errors"

// Configuration-integrity errors. These indicate a build or deployment
// defect and are validated at startup; they must never surface per-request
// when the startup checks pass.
var (
	// ErrFeatureDimensionMismatch indicates a feature vector whose length
	// disagrees with the scoring model's expected dimensionality.
	ErrFeatureDimensionMismatch = errors.New("feature vector dimensionality mismatch")

	// ErrUnknownLabel indicates a label with no entry in the message table.
	ErrUnknownLabel = errors.New("unknown emotion label")
)
