// Package model contains domain models passed between layers.
package model

import "time"

// StudentStatus describes a student's lifecycle state.
type StudentStatus string

// Student lifecycle states. Only active students are eligible for ranking.
const (
	StatusActive   StudentStatus = "active"
	StatusInactive StudentStatus = "inactive"
	StatusDeleted  StudentStatus = "deleted"
)

// Student is the denormalized student record the engine reads and writes.
// ReadinessScore and ProfileCompletion are maintained by the score
// aggregator; everything else belongs to the surrounding application.
type Student struct {
	ID                string
	Name              string
	Status            StudentStatus
	Profile           Profile
	ReadinessScore    float64
	ProfileCompletion int
}

// Eligible reports whether the student participates in global ranking.
func (s Student) Eligible() bool {
	return s.Status == StatusActive
}

// Profile holds the optional profile fields that feed the profile-completion
// percentage. Absence is nil, never an empty-string sentinel.
type Profile struct {
	Phone            *string
	Location         *string
	Bio              *string
	AvatarURL        *string
	ResumeURL        *string
	LinkedInURL      *string
	PortfolioURL     *string
	GitHubUsername   *string
	LeetCodeUsername *string
	Degree           *string
	Branch           *string
	GraduationYear   *int
}

// OptionalFieldCount is the fixed denominator of the completion percentage.
const OptionalFieldCount = 12

// FilledFieldCount returns how many optional profile fields carry a value.
// Whitespace-only strings still count as filled; presence is the signal,
// not content quality.
func (p Profile) FilledFieldCount() int {
	n := 0
	for _, f := range []*string{
		p.Phone, p.Location, p.Bio, p.AvatarURL, p.ResumeURL,
		p.LinkedInURL, p.PortfolioURL, p.GitHubUsername, p.LeetCodeUsername,
		p.Degree, p.Branch,
	} {
		if f != nil {
			n++
		}
	}
	if p.GraduationYear != nil {
		n++
	}
	return n
}

// Skill is one entry of a student's skill inventory.
type Skill struct {
	Name        string
	Category    string
	Proficiency float64 // 0-100
	Level       string
}

// Project is a snapshot of a student project.
type Project struct {
	Description string
	TechStack   []string
	GitHubURL   *string
	LiveURL     *string
}

// Internship is a snapshot of one internship position, ordered
// most-significant-first by the source application.
type Internship struct {
	Company   string
	StartDate time.Time
	EndDate   *time.Time // nil means ongoing
}

// Achievement is the outcome tier of an event participation.
type Achievement string

// Achievement tiers recognized by the events calculator.
const (
	AchievementWinner      Achievement = "winner"
	AchievementRunnerUp    Achievement = "runner_up"
	AchievementFinalist    Achievement = "finalist"
	AchievementSpeaker     Achievement = "speaker"
	AchievementOrganizer   Achievement = "organizer"
	AchievementParticipant Achievement = "participant"
)

// EventParticipation is a snapshot of one hackathon/competition/meetup entry.
type EventParticipation struct {
	Name        string
	Achievement Achievement
}

// Assessment is one graded assessment attempt. Slices passed to the engine
// are ordered most-recent-first.
type Assessment struct {
	TotalScore  float64
	MaxScore    float64
	CompletedAt time.Time
}

// MockInterview is one mock-interview session. Only completed sessions
// contribute to interview readiness.
type MockInterview struct {
	OverallScore float64 // 0-10
	Type         string  // e.g. "technical", "behavioral", "system_design"
	Status       string
}

// InterviewCompleted is the status value that makes a session count.
const InterviewCompleted = "completed"

// CodingProfile is the cached coding-practice summary for a student.
type CodingProfile struct {
	EasySolved    int
	MediumSolved  int
	HardSolved    int
	ContestRating *int
}

// GitHubProfile is the cached GitHub activity summary for a student.
type GitHubProfile struct {
	PublicRepos       int
	ContributionCount int
}

// RoadmapProgress tracks completed roadmap modules and their test scores.
type RoadmapProgress struct {
	CompletedModules int
	AvgTestScore     *float64 // 0-100, nil when no module tests were taken
}

// StudentSignals is the read-only input bundle for one score computation.
// It is a snapshot assembled by the persistence gateway; calculators never
// mutate it.
type StudentSignals struct {
	Skills             []Skill
	Projects           []Project
	Internships        []Internship
	CertificationCount int
	Events             []EventParticipation
	Assessments        []Assessment // most-recent-first
	MockInterviews     []MockInterview
	CodingProfile      *CodingProfile
	GitHubProfile      *GitHubProfile
	LearningPace       *float64 // externally computed 0-100 composite
	RoadmapProgress    *RoadmapProgress
}

// Job describes an open position used for per-job relevance ranking.
type Job struct {
	ID             string
	Title          string
	RequiredSkills []string
	MinScore       float64
}
