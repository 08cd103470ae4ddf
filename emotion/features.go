package emotion

import "math"

// FeatureVector is the fixed-length clip-level acoustic summary handed to
// the scoring model. Its layout for the default 13-coefficient front-end
// (D = 33):
//
//	[0..12]  MFCC means across frames
//	[13..25] MFCC variances across frames
//	[26]     pitch mean over voiced frames (Hz, 0 when no voiced frames)
//	[27]     pitch variance over voiced frames (0 when no voiced frames)
//	[28]     voiced frame ratio (0-1)
//	[29]     RMS energy mean
//	[30]     RMS energy variance
//	[31]     zero-crossing rate mean (normalized 0-1)
//	[32]     zero-crossing rate variance
//
// For other MFCC sizes the prosodic block starts at 2*numCoefficients.
type FeatureVector []float64

// Offsets of the prosodic block relative to 2*numCoefficients.
const (
	offsetPitchMean = iota
	offsetPitchVariance
	offsetVoicedRatio
	offsetEnergyMean
	offsetEnergyVariance
	offsetZCRMean
	offsetZCRVariance
	prosodicFeatureCount
)

// sanitize replaces NaN and Inf entries with 0 so degenerate audio yields a
// defined vector instead of propagating invalid numbers downstream.
func (fv FeatureVector) sanitize() {
	for i, v := range fv {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			fv[i] = 0
		}
	}
}
