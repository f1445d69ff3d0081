package model

import "time"

// Component identifies one of the eleven readiness sub-scores.
type Component string

// The fixed component keys. Weight maps and breakdowns are keyed by these.
const (
	ComponentCodingPractice     Component = "coding_practice"
	ComponentProjects           Component = "projects"
	ComponentInternships        Component = "internships"
	ComponentTechnicalSkills    Component = "technical_skills"
	ComponentAssessments        Component = "assessments"
	ComponentInterviewReadiness Component = "interview_readiness"
	ComponentGitHubActivity     Component = "github_activity"
	ComponentCertifications     Component = "certifications"
	ComponentEvents             Component = "events"
	ComponentLearningPace       Component = "learning_pace"
	ComponentRoadmapProgress    Component = "roadmap_progress"
)

// Components lists all component keys in a stable order.
func Components() []Component {
	return []Component{
		ComponentCodingPractice,
		ComponentProjects,
		ComponentInternships,
		ComponentTechnicalSkills,
		ComponentAssessments,
		ComponentInterviewReadiness,
		ComponentGitHubActivity,
		ComponentCertifications,
		ComponentEvents,
		ComponentLearningPace,
		ComponentRoadmapProgress,
	}
}

// ScoreBreakdown is the persistent per-student scoring record. It is
// upserted whole on every recomputation; last write wins.
type ScoreBreakdown struct {
	StudentID         string
	Components        map[Component]int     // each 0-100
	Weights           map[Component]float64 // weights applied at computation time
	Total             float64               // 0-100, two-decimal precision
	ProfileCompletion int                   // 0-100
	CalculatedAt      time.Time
}
