// Package scoring implements the per-signal component calculators that turn
// raw student records into 0-100 sub-scores. Every calculator is a total
// function: missing or empty inputs yield 0, never an error. The constants
// below are business tuning carried over from the product team, not derived
// values.
package scoring

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/okian/readyrank/internal/domain/curve"
	"github.com/okian/readyrank/internal/domain/model"
)

// Coding practice tuning.
const (
	easyCap          = 50
	mediumCap        = 80
	hardCap          = 30
	easyWeight       = 0.3
	mediumWeight     = 0.6
	hardWeight       = 1.2
	ratingBonusTier1 = 1500
	ratingBonusTier2 = 1800
)

// Project tuning.
const (
	projectTarget        = 5
	projectBaseCap       = 40
	projectQualityCap    = 60
	perProjectQualityCap = 12
	qualityPoints        = 3
	minDescriptionLen    = 50
	minTechStackSize     = 2
)

// Internship tuning.
const (
	firstInternshipPoints  = 40
	secondInternshipPoints = 25
	laterInternshipPoints  = 10
	durationBonus          = 5
	threeMonths            = 90 * 24 * time.Hour
	sixMonths              = 180 * 24 * time.Hour
)

// Remaining component tuning.
const (
	skillCountBonusCap    = 8
	skillCountBonusRate   = 0.05
	maxRecentAssessments  = 20
	interviewScoreScale   = 10
	interviewTypeBonus    = 5
	interviewTypeBonusCap = 10
	contributionTarget    = 200
	contributionCap       = 70
	repoPoints            = 6
	repoPointsCap         = 30
	certificationTarget   = 4
	certificationCap      = 100
	eventTarget           = 5
	eventBaseCap          = 50
	roadmapModulePoints   = 10
	roadmapModuleCap      = 60
	roadmapTestScoreRate  = 0.4
	roadmapTestScoreCap   = 40
	maxComponentScore     = 100
)

// Achievement bonuses for the events calculator.
const (
	topTierBonus     = 15
	runnerUpBonus    = 12
	contributorBonus = 8
	participantBonus = 2
)

// clamp100 rounds and bounds a raw component value to [0, 100].
func clamp100(v float64) int {
	if v <= 0 {
		return 0
	}
	if v >= maxComponentScore {
		return maxComponentScore
	}
	return int(math.Round(v))
}

// CodingPractice scores solved-problem counts with hard problems weighted
// heaviest, plus a contest-rating bonus.
func CodingPractice(p *model.CodingProfile) int {
	if p == nil {
		return 0
	}
	score := float64(min(p.EasySolved, easyCap))*easyWeight +
		float64(min(p.MediumSolved, mediumCap))*mediumWeight +
		float64(min(p.HardSolved, hardCap))*hardWeight
	if p.ContestRating != nil {
		switch {
		case *p.ContestRating >= ratingBonusTier2:
			score += 10
		case *p.ContestRating >= ratingBonusTier1:
			score += 5
		}
	}
	return clamp100(score)
}

// Projects scores project count on a diminishing curve plus per-project
// quality points for documentation, stack breadth, and published URLs.
func Projects(projects []model.Project) int {
	if len(projects) == 0 {
		return 0
	}
	base := curve.DiminishingCurve(len(projects), projectTarget, projectBaseCap)

	quality := 0
	for _, p := range projects {
		pts := 0
		if len(p.Description) >= minDescriptionLen {
			pts += qualityPoints
		}
		if len(p.TechStack) >= minTechStackSize {
			pts += qualityPoints
		}
		if p.GitHubURL != nil {
			pts += qualityPoints
		}
		if p.LiveURL != nil {
			pts += qualityPoints
		}
		quality += min(pts, perProjectQualityCap)
	}
	quality = min(quality, projectQualityCap)

	return clamp100(float64(base + quality))
}

// Internships scores positions with steeply decreasing base points and a
// duration bonus per position. Open-ended internships are measured to now.
func Internships(internships []model.Internship) int {
	score := 0
	for i, in := range internships {
		switch i {
		case 0:
			score += firstInternshipPoints
		case 1:
			score += secondInternshipPoints
		default:
			score += laterInternshipPoints
		}

		end := time.Now()
		if in.EndDate != nil {
			end = *in.EndDate
		}
		d := end.Sub(in.StartDate)
		if d >= threeMonths {
			score += durationBonus
		}
		if d >= sixMonths {
			score += durationBonus
		}
	}
	return clamp100(float64(score))
}

// TechnicalSkills scores average proficiency with a depth bonus that stops
// growing past eight skills.
func TechnicalSkills(skills []model.Skill) int {
	if len(skills) == 0 {
		return 0
	}
	var sum float64
	for _, s := range skills {
		sum += s.Proficiency
	}
	avg := sum / float64(len(skills))
	bonus := 1 + skillCountBonusRate*float64(min(len(skills), skillCountBonusCap))
	return clamp100(avg * bonus)
}

// Assessments scores the recency-weighted average of up to the 20 most
// recent percentage results. Records with a non-positive max are skipped.
func Assessments(assessments []model.Assessment) int {
	percentages := make([]float64, 0, min(len(assessments), maxRecentAssessments))
	for _, a := range assessments {
		if len(percentages) == maxRecentAssessments {
			break
		}
		if a.MaxScore <= 0 {
			continue
		}
		percentages = append(percentages, a.TotalScore/a.MaxScore*100)
	}
	return clamp100(curve.RecencyWeightedAverage(percentages))
}

// InterviewReadiness scores the average completed mock-interview score with
// a bonus for practicing across distinct interview types.
func InterviewReadiness(interviews []model.MockInterview) int {
	var sum float64
	types := make(map[string]struct{})
	completed := 0
	for _, iv := range interviews {
		if iv.Status != model.InterviewCompleted {
			continue
		}
		completed++
		sum += iv.OverallScore
		types[iv.Type] = struct{}{}
	}
	if completed == 0 {
		return 0
	}
	avg := sum / float64(completed)
	typeBonus := min((len(types)-1)*interviewTypeBonus, interviewTypeBonusCap)
	return clamp100(avg*interviewScoreScale + float64(typeBonus))
}

// GitHubActivity scores contributions on a diminishing curve plus capped
// per-repository points.
func GitHubActivity(p *model.GitHubProfile) int {
	if p == nil {
		return 0
	}
	score := curve.DiminishingCurve(p.ContributionCount, contributionTarget, contributionCap) +
		min(p.PublicRepos*repoPoints, repoPointsCap)
	return clamp100(float64(score))
}

// Certifications scores the raw count on a diminishing curve reaching 100
// at four certifications.
func Certifications(count int) int {
	return curve.DiminishingCurve(count, certificationTarget, certificationCap)
}

// Events scores participation count on a diminishing curve plus a bonus per
// event tiered by achievement.
func Events(events []model.EventParticipation) int {
	if len(events) == 0 {
		return 0
	}
	score := curve.DiminishingCurve(len(events), eventTarget, eventBaseCap)
	for _, e := range events {
		switch e.Achievement {
		case model.AchievementWinner, model.AchievementFinalist:
			score += topTierBonus
		case model.AchievementRunnerUp:
			score += runnerUpBonus
		case model.AchievementSpeaker, model.AchievementOrganizer:
			score += contributorBonus
		default:
			score += participantBonus
		}
	}
	return clamp100(float64(score))
}

// LearningPace passes through the externally computed 0-100 composite.
// A pace that failed to compute arrives nil and scores 0.
func LearningPace(pace *float64) int {
	if pace == nil {
		return 0
	}
	return clamp100(*pace)
}

// RoadmapProgress scores completed-module count plus a fraction of the
// average module test score.
func RoadmapProgress(p *model.RoadmapProgress) int {
	if p == nil {
		return 0
	}
	score := float64(min(p.CompletedModules*roadmapModulePoints, roadmapModuleCap))
	if p.AvgTestScore != nil {
		score += math.Min(*p.AvgTestScore*roadmapTestScoreRate, roadmapTestScoreCap)
	}
	return clamp100(score)
}

// Calculate dispatches a single component calculation.
func Calculate(c model.Component, sig model.StudentSignals) int {
	switch c {
	case model.ComponentCodingPractice:
		return CodingPractice(sig.CodingProfile)
	case model.ComponentProjects:
		return Projects(sig.Projects)
	case model.ComponentInternships:
		return Internships(sig.Internships)
	case model.ComponentTechnicalSkills:
		return TechnicalSkills(sig.Skills)
	case model.ComponentAssessments:
		return Assessments(sig.Assessments)
	case model.ComponentInterviewReadiness:
		return InterviewReadiness(sig.MockInterviews)
	case model.ComponentGitHubActivity:
		return GitHubActivity(sig.GitHubProfile)
	case model.ComponentCertifications:
		return Certifications(sig.CertificationCount)
	case model.ComponentEvents:
		return Events(sig.Events)
	case model.ComponentLearningPace:
		return LearningPace(sig.LearningPace)
	case model.ComponentRoadmapProgress:
		return RoadmapProgress(sig.RoadmapProgress)
	default:
		return 0
	}
}

// All evaluates every component concurrently. The calculators share no
// state, so one goroutine per component is safe.
func All(sig model.StudentSignals) map[model.Component]int {
	components := model.Components()
	results := make([]int, len(components))

	var wg sync.WaitGroup
	for i, c := range components {
		wg.Add(1)
		go func(i int, c model.Component) {
			defer wg.Done()
			results[i] = Calculate(c, sig)
		}(i, c)
	}
	wg.Wait()

	out := make(map[model.Component]int, len(components))
	for i, c := range components {
		out[c] = results[i]
	}
	return out
}

// MatchingSkillCount counts how many of the required skill names appear in
// the student's skill inventory, case-insensitively.
func MatchingSkillCount(skills []model.Skill, required []string) int {
	if len(required) == 0 {
		return 0
	}
	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		have[strings.ToLower(strings.TrimSpace(s.Name))] = struct{}{}
	}
	n := 0
	for _, r := range required {
		if _, ok := have[strings.ToLower(strings.TrimSpace(r))]; ok {
			n++
		}
	}
	return n
}
