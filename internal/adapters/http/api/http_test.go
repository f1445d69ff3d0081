package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "github.com/okian/readyrank/internal/adapters/http/api"
	repository "github.com/okian/readyrank/internal/adapters/repository"
	"github.com/okian/readyrank/internal/domain/model"
	"github.com/okian/readyrank/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeEngine satisfies api.Dependencies and api.StatsProvider with canned
// responses so handler behavior can be exercised in isolation.
type fakeEngine struct {
	pending    map[string]bool
	unrecorded []string
	enqueued   []model.Trigger
	enqueueOK  bool

	breakdown model.ScoreBreakdown
	scoreErr  error
	scoredIDs []string

	globalRanked int
	jobRanked    int
	jobErr       error
	jobIDs       []string

	rank    model.GlobalRank
	rankErr error

	top    []model.RankingEntry
	topErr error
	topNs  []int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{pending: make(map[string]bool), enqueueOK: true}
}

func (f *fakeEngine) SeenAndRecord(_ context.Context, key string) bool {
	if f.pending[key] {
		return true
	}
	f.pending[key] = true
	return false
}

func (f *fakeEngine) Unrecord(_ context.Context, key string) {
	delete(f.pending, key)
	f.unrecorded = append(f.unrecorded, key)
}

func (f *fakeEngine) Enqueue(_ context.Context, t model.Trigger) bool {
	if !f.enqueueOK {
		return false
	}
	f.enqueued = append(f.enqueued, t)
	return true
}

func (f *fakeEngine) RecalculateScore(_ context.Context, studentID string) (model.ScoreBreakdown, error) {
	f.scoredIDs = append(f.scoredIDs, studentID)
	if f.scoreErr != nil {
		return model.ScoreBreakdown{}, f.scoreErr
	}
	bd := f.breakdown
	bd.StudentID = studentID
	return bd, nil
}

func (f *fakeEngine) RecalculateGlobalRankings(_ context.Context) int {
	return f.globalRanked
}

func (f *fakeEngine) RecalculateJobRankings(_ context.Context, jobID string) (int, error) {
	f.jobIDs = append(f.jobIDs, jobID)
	if f.jobErr != nil {
		return 0, f.jobErr
	}
	return f.jobRanked, nil
}

func (f *fakeEngine) GetStudentGlobalRank(_ context.Context, _ string) (model.GlobalRank, error) {
	if f.rankErr != nil {
		return model.GlobalRank{}, f.rankErr
	}
	return f.rank, nil
}

func (f *fakeEngine) ScoreLabel(score float64) string {
	return scoring.ScoreLabel(score)
}

func (f *fakeEngine) ReadinessClassification(score float64) string {
	return scoring.ReadinessClassification(score)
}

func (f *fakeEngine) TopN(_ context.Context, n int) ([]model.RankingEntry, error) {
	f.topNs = append(f.topNs, n)
	if f.topErr != nil {
		return nil, f.topErr
	}
	if n > len(f.top) {
		n = len(f.top)
	}
	return f.top[:n], nil
}

func (f *fakeEngine) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "totalStudents": 3}
}

func newTestServer(engine *fakeEngine, maxLimit int) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(engine, engine, maxLimit).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	decoded := make(map[string]any)
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestHandlePostTrigger(t *testing.T) {
	Convey("Given a trigger endpoint", t, func() {
		engine := newFakeEngine()
		srv := newTestServer(engine, 100)
		defer srv.Close()

		Convey("When a valid score trigger is posted", func() {
			resp, body := doJSON(t, http.MethodPost, srv.URL+"/triggers",
				`{"kind":"score","student_id":"s1"}`)

			Convey("Then it is accepted and enqueued", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				So(body["status"], ShouldEqual, "accepted")
				So(body["duplicate"], ShouldBeFalse)
				So(len(engine.enqueued), ShouldEqual, 1)
				So(engine.enqueued[0].Kind, ShouldEqual, model.TriggerScore)
				So(engine.enqueued[0].StudentID, ShouldEqual, "s1")
			})

			Convey("Then an omitted trigger ID is filled in", func() {
				So(engine.enqueued[0].ID, ShouldNotBeEmpty)
			})
		})

		Convey("When the same coalesce key is posted twice", func() {
			doJSON(t, http.MethodPost, srv.URL+"/triggers", `{"kind":"score","student_id":"s1"}`)
			resp, body := doJSON(t, http.MethodPost, srv.URL+"/triggers",
				`{"kind":"score","student_id":"s1"}`)

			Convey("Then the second is acknowledged as a duplicate", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["duplicate"], ShouldBeTrue)
				So(len(engine.enqueued), ShouldEqual, 1)
			})
		})

		Convey("When the payload is invalid", func() {
			Convey("Then an unknown kind is rejected", func() {
				resp, body := doJSON(t, http.MethodPost, srv.URL+"/triggers", `{"kind":"partial"}`)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(body["code"], ShouldEqual, "bad_request")
			})

			Convey("Then a score trigger without a student is rejected", func() {
				resp, _ := doJSON(t, http.MethodPost, srv.URL+"/triggers", `{"kind":"score"}`)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then a job trigger without a job is rejected", func() {
				resp, _ := doJSON(t, http.MethodPost, srv.URL+"/triggers", `{"kind":"job"}`)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then a malformed timestamp is rejected", func() {
				resp, _ := doJSON(t, http.MethodPost, srv.URL+"/triggers",
					`{"kind":"global","ts":"yesterday"}`)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then malformed JSON is rejected", func() {
				resp, _ := doJSON(t, http.MethodPost, srv.URL+"/triggers", `{"kind":`)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And nothing reaches the queue", func() {
				doJSON(t, http.MethodPost, srv.URL+"/triggers", `{"kind":"partial"}`)
				So(engine.enqueued, ShouldBeEmpty)
			})
		})

		Convey("When the queue is full", func() {
			engine.enqueueOK = false
			resp, body := doJSON(t, http.MethodPost, srv.URL+"/triggers",
				`{"kind":"global"}`)

			Convey("Then backpressure is reported", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusTooManyRequests)
				So(body["code"], ShouldEqual, "backpressure")
			})

			Convey("Then the pending mark is rolled back", func() {
				So(engine.unrecorded, ShouldContain, "global")
				So(engine.pending["global"], ShouldBeFalse)
			})
		})

		Convey("When the method is not POST", func() {
			resp, _ := doJSON(t, http.MethodGet, srv.URL+"/triggers", "")

			Convey("Then the route does not exist", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestHandlePostScore(t *testing.T) {
	Convey("Given a score endpoint", t, func() {
		engine := newFakeEngine()
		engine.breakdown = model.ScoreBreakdown{
			Components: map[model.Component]int{
				model.ComponentProjects:       60,
				model.ComponentCertifications: 100,
			},
			Weights: map[model.Component]float64{
				model.ComponentProjects:       15,
				model.ComponentCertifications: 4,
			},
			Total:             72.5,
			ProfileCompletion: 83,
			CalculatedAt:      time.Now().UTC(),
		}
		srv := newTestServer(engine, 100)
		defer srv.Close()

		Convey("When a score recalculation is requested", func() {
			resp, body := doJSON(t, http.MethodPost, srv.URL+"/students/s1/score", "")

			Convey("Then the breakdown comes back with label and classification", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["student_id"], ShouldEqual, "s1")
				So(body["total"], ShouldEqual, 72.5)
				So(body["profile_completion"], ShouldEqual, 83)
				So(body["label"], ShouldEqual, scoring.ScoreLabel(72.5))
				So(body["classification"], ShouldEqual, scoring.ReadinessClassification(72.5))
			})

			Convey("Then components and weights serialize by name", func() {
				components := body["components"].(map[string]any)
				So(components["projects"], ShouldEqual, 60)
				So(components["certifications"], ShouldEqual, 100)

				weights := body["weights"].(map[string]any)
				So(weights["projects"], ShouldEqual, 15)
			})
		})

		Convey("When the student does not exist", func() {
			engine.scoreErr = repository.ErrNotFound
			resp, body := doJSON(t, http.MethodPost, srv.URL+"/students/ghost/score", "")

			Convey("Then it maps to 404", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				So(body["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When the engine fails", func() {
			engine.scoreErr = errors.New("store unavailable")
			resp, _ := doJSON(t, http.MethodPost, srv.URL+"/students/s1/score", "")

			Convey("Then it maps to 500", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When the student segment is nested", func() {
			resp, _ := doJSON(t, http.MethodPost, srv.URL+"/students/a/b/score", "")

			Convey("Then it is a bad request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(engine.scoredIDs, ShouldBeEmpty)
			})
		})

		Convey("When the method is GET", func() {
			resp, _ := doJSON(t, http.MethodGet, srv.URL+"/students/s1/score", "")

			Convey("Then the route does not exist", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestHandleGetRank(t *testing.T) {
	Convey("Given a rank endpoint", t, func() {
		engine := newFakeEngine()
		srv := newTestServer(engine, 100)
		defer srv.Close()

		Convey("When a ranked student is looked up", func() {
			rank, percentile := 3, 75
			engine.rank = model.GlobalRank{
				Rank: &rank, Score: 88.25, TotalEligible: 12, Percentile: &percentile,
			}
			resp, body := doJSON(t, http.MethodGet, srv.URL+"/students/s1/rank", "")

			Convey("Then the position and percentile come back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["student_id"], ShouldEqual, "s1")
				So(body["rank"], ShouldEqual, 3)
				So(body["score"], ShouldEqual, 88.25)
				So(body["total_eligible"], ShouldEqual, 12)
				So(body["percentile"], ShouldEqual, 75)
			})
		})

		Convey("When an unranked student is looked up", func() {
			engine.rank = model.GlobalRank{TotalEligible: 12}
			resp, body := doJSON(t, http.MethodGet, srv.URL+"/students/s9/rank", "")

			Convey("Then rank and percentile serialize as null", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["rank"], ShouldBeNil)
				So(body["percentile"], ShouldBeNil)
				So(body["total_eligible"], ShouldEqual, 12)
			})
		})

		Convey("When the lookup fails", func() {
			engine.rankErr = errors.New("store unavailable")
			resp, _ := doJSON(t, http.MethodGet, srv.URL+"/students/s1/rank", "")

			Convey("Then it maps to 500", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When the student segment is nested", func() {
			resp, _ := doJSON(t, http.MethodGet, srv.URL+"/students/a/b/rank", "")

			Convey("Then it is a bad request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the action is unknown", func() {
			resp, _ := doJSON(t, http.MethodGet, srv.URL+"/students/s1/history", "")

			Convey("Then the route does not exist", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestHandleGetLeaderboard(t *testing.T) {
	Convey("Given a leaderboard endpoint", t, func() {
		engine := newFakeEngine()
		for i := 1; i <= 20; i++ {
			engine.top = append(engine.top, model.RankingEntry{
				StudentID:    "s" + strings.Repeat("x", i),
				Rank:         i,
				Score:        float64(100 - i),
				CalculatedAt: time.Now().UTC(),
			})
		}
		srv := newTestServer(engine, 15)
		defer srv.Close()

		Convey("When no limit is given", func() {
			resp, body := doJSON(t, http.MethodGet, srv.URL+"/leaderboard", "")

			Convey("Then the default of ten rows applies", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				entries := body["entries"].([]any)
				So(len(entries), ShouldEqual, 10)

				first := entries[0].(map[string]any)
				So(first["rank"], ShouldEqual, 1)
				So(first["score"], ShouldEqual, 99)
			})
		})

		Convey("When an explicit limit is given", func() {
			resp, body := doJSON(t, http.MethodGet, srv.URL+"/leaderboard?limit=3", "")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(len(body["entries"].([]any)), ShouldEqual, 3)
		})

		Convey("When the limit exceeds the configured maximum", func() {
			resp, _ := doJSON(t, http.MethodGet, srv.URL+"/leaderboard?limit=500", "")

			Convey("Then it clamps rather than erroring", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(engine.topNs, ShouldResemble, []int{15})
			})
		})

		Convey("When the limit is not a positive integer", func() {
			for _, raw := range []string{"0", "-5", "ten"} {
				resp, _ := doJSON(t, http.MethodGet, srv.URL+"/leaderboard?limit="+raw, "")
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the method is POST", func() {
			resp, _ := doJSON(t, http.MethodPost, srv.URL+"/leaderboard", "")
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHandleRankingsRebuild(t *testing.T) {
	Convey("Given the rebuild endpoints", t, func() {
		engine := newFakeEngine()
		engine.globalRanked = 42
		engine.jobRanked = 7
		srv := newTestServer(engine, 100)
		defer srv.Close()

		Convey("When a global rebuild is forced", func() {
			resp, body := doJSON(t, http.MethodPost, srv.URL+"/rankings/global", "")

			Convey("Then the ranked count comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["ranked"], ShouldEqual, 42)
			})
		})

		Convey("When a job rebuild is forced", func() {
			resp, body := doJSON(t, http.MethodPost, srv.URL+"/jobs/job-1/rankings", "")

			Convey("Then the ranked count comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["ranked"], ShouldEqual, 7)
				So(engine.jobIDs, ShouldResemble, []string{"job-1"})
			})
		})

		Convey("When the job path is malformed", func() {
			resp, _ := doJSON(t, http.MethodPost, srv.URL+"/jobs/a/b/rankings", "")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the job rebuild fails", func() {
			engine.jobErr = errors.New("store unavailable")
			resp, _ := doJSON(t, http.MethodPost, srv.URL+"/jobs/job-1/rankings", "")
			So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("When a rebuild is requested with GET", func() {
			resp, _ := doJSON(t, http.MethodGet, srv.URL+"/rankings/global", "")
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHandleStats(t *testing.T) {
	Convey("Given a stats endpoint", t, func() {
		engine := newFakeEngine()
		srv := newTestServer(engine, 100)
		defer srv.Close()

		Convey("When stats are requested", func() {
			resp, body := doJSON(t, http.MethodGet, srv.URL+"/stats", "")

			Convey("Then the provider's view is returned as JSON", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldStartWith, "application/json")
				So(body["started"], ShouldBeTrue)
				So(body["totalStudents"], ShouldEqual, 3)
			})
		})
	})
}
