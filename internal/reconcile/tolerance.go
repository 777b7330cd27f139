package reconcile

import "math"

// Verdict is the outcome of evaluating one numeric dimension against a
// tolerance threshold. Deviations are absent when there is no basis for a
// deviation claim: a missing input, or a zero expected value that would
// make the percentage undefined.
type Verdict struct {
	AbsoluteDeviation *float64
	PercentDeviation  *float64
	WithinTolerance   bool
}

// EvaluateTolerance compares an expected and an actual value against a
// percentage threshold.
//
// The absolute deviation is signed (actual - expected); the sign is kept
// for reporting while only the magnitude counts against the threshold.
// When either input is absent, or the expected value is zero, the percent
// deviation is absent and the dimension counts as within tolerance.
func EvaluateTolerance(expected, actual *float64, thresholdPercent float64) Verdict {
	if expected == nil || actual == nil {
		return Verdict{WithinTolerance: true}
	}

	abs := *actual - *expected

	if *expected == 0 {
		return Verdict{AbsoluteDeviation: &abs, WithinTolerance: true}
	}

	percent := abs / *expected * 100
	return Verdict{
		AbsoluteDeviation: &abs,
		PercentDeviation:  &percent,
		WithinTolerance:   math.Abs(percent) <= thresholdPercent,
	}
}
