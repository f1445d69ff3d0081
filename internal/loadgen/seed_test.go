package loadgen_test

import (
	"testing"

	"github.com/okian/readyrank/internal/domain/model"
	loadgen "github.com/okian/readyrank/internal/loadgen"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDeterministicIDs(t *testing.T) {
	Convey("Given the seed ID scheme", t, func() {
		Convey("Then student IDs are zero-padded and stable", func() {
			So(loadgen.StudentID(0), ShouldEqual, "student-000000")
			So(loadgen.StudentID(42), ShouldEqual, "student-000042")
			So(loadgen.StudentID(999999), ShouldEqual, "student-999999")
		})

		Convey("Then job IDs are zero-padded and stable", func() {
			So(loadgen.JobID(0), ShouldEqual, "job-000")
			So(loadgen.JobID(7), ShouldEqual, "job-007")
		})
	})
}

func TestGenerateStudents(t *testing.T) {
	Convey("Given a generated population", t, func() {
		students := loadgen.GenerateStudents(50)

		Convey("Then the count and IDs line up", func() {
			So(len(students), ShouldEqual, 50)
			for i, s := range students {
				So(s.Student.ID, ShouldEqual, loadgen.StudentID(i))
			}
		})

		Convey("Then every student is active and scoreable", func() {
			for _, s := range students {
				So(s.Student.Status, ShouldEqual, model.StatusActive)
				So(s.Student.Name, ShouldNotBeEmpty)
				So(s.Signals.CodingProfile, ShouldNotBeNil)
				So(s.Signals.LearningPace, ShouldNotBeNil)
			}
		})

		Convey("Then signal magnitudes stay in range", func() {
			for _, s := range students {
				for _, sk := range s.Signals.Skills {
					So(sk.Proficiency, ShouldBeBetweenOrEqual, 0, 100)
				}
				for _, a := range s.Signals.Assessments {
					So(a.MaxScore, ShouldEqual, 100)
					So(a.TotalScore, ShouldBeBetweenOrEqual, 0, 100)
				}
				for _, iv := range s.Signals.MockInterviews {
					So(iv.OverallScore, ShouldBeBetweenOrEqual, 0, 10)
					So(iv.Status, ShouldEqual, model.InterviewCompleted)
				}
			}
		})
	})
}

func TestGenerateJobs(t *testing.T) {
	Convey("Given generated jobs", t, func() {
		jobs := loadgen.GenerateJobs(20)

		Convey("Then each job is well formed", func() {
			So(len(jobs), ShouldEqual, 20)
			for i, j := range jobs {
				So(j.ID, ShouldEqual, loadgen.JobID(i))
				So(len(j.RequiredSkills), ShouldBeBetweenOrEqual, 2, 4)
				So(j.MinScore, ShouldBeBetweenOrEqual, 0, 39)
			}
		})
	})
}
