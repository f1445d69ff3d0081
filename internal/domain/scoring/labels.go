package scoring

// Score label thresholds.
const (
	labelExcellent  = 85
	labelStrong     = 70
	labelGood       = 55
	labelDeveloping = 40
	labelNeedsWork  = 25
)

// Readiness classification thresholds.
const (
	classPlacementReady     = 80
	classHighPotential      = 60
	classDeveloping         = 40
	classBuildingFoundation = 20
)

// ScoreLabel buckets a readiness score into a user-facing quality label.
func ScoreLabel(score float64) string {
	switch {
	case score >= labelExcellent:
		return "Excellent"
	case score >= labelStrong:
		return "Strong"
	case score >= labelGood:
		return "Good"
	case score >= labelDeveloping:
		return "Developing"
	case score >= labelNeedsWork:
		return "Needs Work"
	default:
		return "Getting Started"
	}
}

// ReadinessClassification buckets a readiness score into a placement
// readiness stage.
func ReadinessClassification(score float64) string {
	switch {
	case score >= classPlacementReady:
		return "Placement Ready"
	case score >= classHighPotential:
		return "High Potential"
	case score >= classDeveloping:
		return "Developing"
	case score >= classBuildingFoundation:
		return "Building Foundation"
	default:
		return "Just Starting"
	}
}
