// Package curve provides the pure numeric helpers shared by the component
// calculators: a capped diminishing-return curve, a recency-weighted
// average, and a least-squares slope normalizer.
package curve

import "math"

// Recency weighting constants for RecencyWeightedAverage.
const (
	recencyMaxWeight  = 1.5
	recencyDecayStep  = 0.1
	recencyFloor      = 1.0
	slopeNeutralScore = 50.0
	slopeGain         = 10.0
	maxScore          = 100.0
)

// DiminishingCurve maps a raw count onto [0, cap] along a logarithmic curve
// that reaches cap exactly at target and keeps growing, flatter, beyond it.
// The half-target scale is what gives the curve its early steepness.
func DiminishingCurve(count, target, capValue int) int {
	if count <= 0 || target <= 0 || capValue <= 0 {
		return 0
	}
	scale := float64(target) / 2
	raw := float64(capValue) * math.Log(1+float64(count)/scale) / math.Log(1+float64(target)/scale)
	score := int(math.Round(raw))
	if score > capValue {
		return capValue
	}
	if score < 0 {
		return 0
	}
	return score
}

// RecencyWeightedAverage returns the weighted mean of percentage values
// ordered newest-first. The newest value weighs 1.5, each older one 0.1
// less, floored at 1.0. Empty input returns 0.
func RecencyWeightedAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum, weightSum float64
	for i, v := range values {
		w := recencyMaxWeight - recencyDecayStep*float64(i)
		if w < recencyFloor {
			w = recencyFloor
		}
		sum += v * w
		weightSum += w
	}
	return sum / weightSum
}

// LinearSlopeNormalized fits an ordinary least-squares line through the
// series (oldest first, x = index) and maps its slope onto [0, 100] via
// 50 + 10*slope. A flat or sub-two-point series is neutral: exactly 50.
func LinearSlopeNormalized(series []float64) float64 {
	n := len(series)
	if n < 2 {
		return slopeNeutralScore
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := float64(n)*sumXX - sumX*sumX
	if denom == 0 {
		return slopeNeutralScore
	}
	slope := (float64(n)*sumXY - sumX*sumY) / denom

	score := slopeNeutralScore + slopeGain*slope
	return math.Max(0, math.Min(maxScore, score))
}
