package loadgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/okian/readyrank/internal/domain/model"
)

// Seed generation tuning constants.
const (
	randomFloatDivisor = 1000000

	maxEasySolved     = 250
	maxMediumSolved   = 150
	maxHardSolved     = 50
	maxContestRating  = 2200
	minContestRating  = 1000
	maxProjects       = 8
	maxInternships    = 3
	maxSkills         = 12
	maxCertifications = 6
	maxEvents         = 8
	maxAssessments    = 25
	maxInterviews     = 6
	maxRepos          = 30
	maxContributions  = 400
	maxModules        = 15
	internshipSpanMin = 30
	internshipSpanMax = 240
	profileFillChance = 0.7
)

// seedSkillPool is the vocabulary seeded students draw skills from. Seeded
// jobs require subsets of the same pool so skill matching is non-trivial.
var seedSkillPool = []string{
	"go", "python", "javascript", "typescript", "java", "sql",
	"react", "docker", "kubernetes", "aws", "linux", "git",
}

// SeededStudent pairs a synthetic student with its scoring signals.
type SeededStudent struct {
	Student model.Student
	Signals model.StudentSignals
}

// StudentID returns the deterministic ID of the i-th seeded student. The
// load tool reconstructs the same IDs the server seeded at startup.
func StudentID(i int) string {
	return fmt.Sprintf("student-%06d", i)
}

// JobID returns the deterministic ID of the i-th seeded job.
func JobID(i int) string {
	return fmt.Sprintf("job-%03d", i)
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomInt returns a random int in [0, max).
func randomInt(max int) int {
	if max <= 0 {
		return 0
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// GenerateStudents creates n synthetic students with randomized signals and
// deterministic IDs.
func GenerateStudents(n int) []SeededStudent {
	out := make([]SeededStudent, n)
	for i := 0; i < n; i++ {
		id := StudentID(i)
		out[i] = SeededStudent{
			Student: model.Student{
				ID:      id,
				Name:    "Student " + id,
				Status:  model.StatusActive,
				Profile: generateProfile(),
			},
			Signals: generateSignals(),
		}
	}
	return out
}

// GenerateJobs creates n synthetic jobs requiring random skill subsets.
func GenerateJobs(n int) []model.Job {
	out := make([]model.Job, n)
	for i := 0; i < n; i++ {
		required := make([]string, 0, 4)
		offset := randomInt(len(seedSkillPool))
		for j := 0; j < 2+randomInt(3); j++ {
			required = append(required, seedSkillPool[(offset+j)%len(seedSkillPool)])
		}
		out[i] = model.Job{
			ID:             JobID(i),
			Title:          "Role " + JobID(i),
			RequiredSkills: required,
			MinScore:       float64(randomInt(40)),
		}
	}
	return out
}

func generateProfile() model.Profile {
	strOrNil := func(v string) *string {
		if getRandomFloat() < profileFillChance {
			return &v
		}
		return nil
	}
	p := model.Profile{
		Phone:            strOrNil("555-0100"),
		Location:         strOrNil("Bengaluru"),
		Bio:              strOrNil("seeded profile"),
		AvatarURL:        strOrNil("https://example.com/avatar.png"),
		ResumeURL:        strOrNil("https://example.com/resume.pdf"),
		LinkedInURL:      strOrNil("https://linkedin.com/in/seed"),
		PortfolioURL:     strOrNil("https://example.com"),
		GitHubUsername:   strOrNil("seed"),
		LeetCodeUsername: strOrNil("seed"),
		Degree:           strOrNil("B.Tech"),
		Branch:           strOrNil("CSE"),
	}
	if getRandomFloat() < profileFillChance {
		year := 2024 + randomInt(4)
		p.GraduationYear = &year
	}
	return p
}

func generateSignals() model.StudentSignals {
	sig := model.StudentSignals{
		CertificationCount: randomInt(maxCertifications),
	}

	rating := minContestRating + randomInt(maxContestRating-minContestRating)
	sig.CodingProfile = &model.CodingProfile{
		EasySolved:    randomInt(maxEasySolved),
		MediumSolved:  randomInt(maxMediumSolved),
		HardSolved:    randomInt(maxHardSolved),
		ContestRating: &rating,
	}

	sig.GitHubProfile = &model.GitHubProfile{
		PublicRepos:       randomInt(maxRepos),
		ContributionCount: randomInt(maxContributions),
	}

	for i := 0; i < randomInt(maxSkills); i++ {
		sig.Skills = append(sig.Skills, model.Skill{
			Name:        seedSkillPool[i%len(seedSkillPool)],
			Category:    "technical",
			Proficiency: getRandomFloat() * PercentageMultiplier,
			Level:       "intermediate",
		})
	}

	github := "https://github.com/seed/project"
	for i := 0; i < randomInt(maxProjects); i++ {
		sig.Projects = append(sig.Projects, model.Project{
			Description: "A seeded project with enough description text to count as substantial.",
			TechStack:   []string{"go", "postgres", "docker"},
			GitHubURL:   &github,
		})
	}

	now := time.Now()
	for i := 0; i < randomInt(maxInternships); i++ {
		span := internshipSpanMin + randomInt(internshipSpanMax-internshipSpanMin)
		start := now.AddDate(0, 0, -span-randomInt(365))
		end := start.AddDate(0, 0, span)
		sig.Internships = append(sig.Internships, model.Internship{
			Company:   "Seed Corp",
			StartDate: start,
			EndDate:   &end,
		})
	}

	achievements := []model.Achievement{
		model.AchievementWinner, model.AchievementRunnerUp,
		model.AchievementFinalist, model.AchievementParticipant,
	}
	for i := 0; i < randomInt(maxEvents); i++ {
		sig.Events = append(sig.Events, model.EventParticipation{
			Name:        "Seed Hackathon",
			Achievement: achievements[randomInt(len(achievements))],
		})
	}

	for i := 0; i < randomInt(maxAssessments); i++ {
		sig.Assessments = append(sig.Assessments, model.Assessment{
			TotalScore:  getRandomFloat() * PercentageMultiplier,
			MaxScore:    PercentageMultiplier,
			CompletedAt: now.AddDate(0, 0, -i),
		})
	}

	interviewTypes := []string{"technical", "behavioral", "system_design"}
	for i := 0; i < randomInt(maxInterviews); i++ {
		sig.MockInterviews = append(sig.MockInterviews, model.MockInterview{
			OverallScore: getRandomFloat() * 10,
			Type:         interviewTypes[randomInt(len(interviewTypes))],
			Status:       model.InterviewCompleted,
		})
	}

	pace := getRandomFloat() * PercentageMultiplier
	sig.LearningPace = &pace

	avg := getRandomFloat() * PercentageMultiplier
	sig.RoadmapProgress = &model.RoadmapProgress{
		CompletedModules: randomInt(maxModules),
		AvgTestScore:     &avg,
	}

	return sig
}
