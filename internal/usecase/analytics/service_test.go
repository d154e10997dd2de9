package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	domapp "github.com/kailas-cloud/talentmatch/internal/domain/application"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/profile"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// --- Mocks ---

type mockJobs struct {
	jobs      map[string]*job.Job
	counts    map[job.Status]int
	countErr  error
	getCalls  int
	lastCount string
}

func (m *mockJobs) Get(_ context.Context, id string) (*job.Job, error) {
	m.getCalls++
	if j, ok := m.jobs[id]; ok {
		return j, nil
	}
	return nil, domain.ErrJobNotFound
}

func (m *mockJobs) CountByEmployer(_ context.Context, employerID string, status job.Status) (int, error) {
	m.lastCount = employerID
	return m.counts[status], m.countErr
}

type mockApps struct {
	byJob   []*domapp.Application
	recent  []*domapp.Application
	counts  map[domapp.Status]int
	listErr error
}

func (m *mockApps) ListByJob(_ context.Context, _ string) ([]*domapp.Application, error) {
	return m.byJob, m.listErr
}

func (m *mockApps) ListByEmployer(_ context.Context, _ string, limit int) ([]*domapp.Application, error) {
	if len(m.recent) > limit {
		return m.recent[:limit], m.listErr
	}
	return m.recent, m.listErr
}

func (m *mockApps) CountByEmployer(_ context.Context, _ string, status domapp.Status) (int, error) {
	return m.counts[status], nil
}

type mockProfiles struct {
	profiles map[string]*profile.Profile
}

func (m *mockProfiles) GetMany(_ context.Context, ids []string) (map[string]*profile.Profile, error) {
	out := make(map[string]*profile.Profile)
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type mockHealer struct {
	err error
}

func (m *mockHealer) EnsureJob(_ context.Context, j *job.Job) (vector.Triple, error) {
	if m.err != nil {
		return vector.Triple{}, m.err
	}
	return j.Vectors, nil
}

// --- Fixtures ---

var (
	unitX = []float32{1, 0}
	unitY = []float32{0, 1}
	now   = time.Date(2026, time.March, 15, 14, 0, 0, 0, time.UTC)
)

func triple(s, e, r []float32) vector.Triple {
	return vector.Triple{Skills: s, Experience: e, Role: r}
}

func app(id, seeker string, status domapp.Status, appliedAt time.Time) *domapp.Application {
	return &domapp.Application{ID: id, JobID: "job", SeekerID: seeker, EmployerID: "emp", Status: status, AppliedAt: appliedAt}
}

func newService(jobs *mockJobs, apps *mockApps, profiles *mockProfiles, healer *mockHealer) *Service {
	svc := New(jobs, apps, profiles, healer)
	svc.now = func() time.Time { return now }
	return svc
}

func defaultJobs() *mockJobs {
	return &mockJobs{jobs: map[string]*job.Job{
		"job": {ID: "job", Title: "Go Engineer", Status: job.StatusPublished, Vectors: triple(unitX, unitX, unitX)},
	}}
}

// --- JobAnalytics ---

func TestJobAnalytics_Distribution(t *testing.T) {
	profiles := &mockProfiles{profiles: map[string]*profile.Profile{
		"perfect": {ID: "perfect", Vectors: triple(unitX, unitX, unitX)}, // 100
		"good":    {ID: "good", Vectors: triple(unitX, unitX, unitY)},    // 80
		"half":    {ID: "half", Vectors: triple(unitX, unitY, unitY)},    // 50
		"none":    {ID: "none"},                                          // 0
		"expRole": {ID: "expRole", Vectors: triple(unitY, unitX, unitX)}, // 50
	}}
	apps := &mockApps{byJob: []*domapp.Application{
		app("a1", "perfect", domapp.StatusApplied, now),
		app("a2", "good", domapp.StatusScreening, now),
		app("a3", "half", domapp.StatusInterview, now),
		app("a4", "none", domapp.StatusRejected, now),
		app("a5", "expRole", domapp.StatusOffer, now),
		app("a6", "missing-profile", domapp.StatusShortlisted, now),
	}}

	rep, err := newService(defaultJobs(), apps, profiles, &mockHealer{}).JobAnalytics(context.Background(), "job")
	if err != nil {
		t.Fatal(err)
	}

	want := []Bucket{{"90-100%", 1}, {"80-89%", 1}, {"70-79%", 0}, {"60-69%", 0}, {"<60%", 4}}
	for i, b := range want {
		if rep.MatchDistribution[i] != b {
			t.Errorf("bucket[%d] = %+v, want %+v", i, rep.MatchDistribution[i], b)
		}
	}
	// (100+80+50+0+50+0)/6 = 46.67
	if rep.AvgMatch != 47 {
		t.Errorf("avgMatch = %d, want 47", rep.AvgMatch)
	}
	if rep.TotalApplicants != 6 {
		t.Errorf("totalApplicants = %d", rep.TotalApplicants)
	}
	wantPipe := Pipeline{Applied: 2, Shortlisted: 1, Interview: 1, Offer: 1, Rejected: 1, Total: 6}
	if rep.Pipeline != wantPipe {
		t.Errorf("pipeline = %+v, want %+v", rep.Pipeline, wantPipe)
	}
}

func TestJobAnalytics_NoApplicants(t *testing.T) {
	rep, err := newService(defaultJobs(), &mockApps{}, &mockProfiles{}, &mockHealer{}).
		JobAnalytics(context.Background(), "job")
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.MatchDistribution) != 5 {
		t.Errorf("buckets = %d, want 5", len(rep.MatchDistribution))
	}
	if rep.AvgMatch != 0 || rep.TotalApplicants != 0 {
		t.Errorf("report = %+v", rep)
	}
	if len(rep.ApplicantTrends) != 7 {
		t.Errorf("trend days = %d", len(rep.ApplicantTrends))
	}
}

func TestJobAnalytics_Trends(t *testing.T) {
	apps := &mockApps{byJob: []*domapp.Application{
		app("a1", "s1", domapp.StatusApplied, now.Add(-time.Hour)),
		app("a2", "s2", domapp.StatusApplied, now.Add(-15*time.Hour)),
		app("a3", "s3", domapp.StatusApplied, now.AddDate(0, 0, -6)),
		app("a4", "s4", domapp.StatusApplied, now.AddDate(0, 0, -7)),
		app("a5", "s5", domapp.StatusApplied, now.AddDate(0, 0, -2)),
	}}

	rep, err := newService(defaultJobs(), apps, &mockProfiles{}, &mockHealer{}).JobAnalytics(context.Background(), "job")
	if err != nil {
		t.Fatal(err)
	}

	want := []DayCount{
		{"Mon Mar 9", 1},
		{"Tue Mar 10", 0},
		{"Wed Mar 11", 0},
		{"Thu Mar 12", 0},
		{"Fri Mar 13", 1},
		{"Sat Mar 14", 1},
		{"Sun Mar 15", 1},
	}
	for i, d := range want {
		if rep.ApplicantTrends[i] != d {
			t.Errorf("trend[%d] = %+v, want %+v", i, rep.ApplicantTrends[i], d)
		}
	}
}

func TestJobAnalytics_JobVectorsUnavailable(t *testing.T) {
	profiles := &mockProfiles{profiles: map[string]*profile.Profile{
		"s1": {ID: "s1", Vectors: triple(unitX, unitX, unitX)},
	}}
	apps := &mockApps{byJob: []*domapp.Application{app("a1", "s1", domapp.StatusApplied, now)}}

	rep, err := newService(defaultJobs(), apps, profiles, &mockHealer{err: domain.ErrVectorsUnavailable}).
		JobAnalytics(context.Background(), "job")
	if err != nil {
		t.Fatal(err)
	}
	if rep.AvgMatch != 0 || rep.MatchDistribution[4].Count != 1 {
		t.Errorf("report = %+v", rep)
	}
}

func TestJobAnalytics_DuplicateApplicationsCountOnce(t *testing.T) {
	profiles := &mockProfiles{profiles: map[string]*profile.Profile{
		"s1": {ID: "s1", Vectors: triple(unitX, unitX, unitX)}, // 100
		"s2": {ID: "s2"},                                       // 0
	}}
	apps := &mockApps{byJob: []*domapp.Application{
		app("a1", "s1", domapp.StatusApplied, now),
		app("a2", "s1", domapp.StatusInterview, now),
		app("a3", "s2", domapp.StatusApplied, now),
	}}

	rep, err := newService(defaultJobs(), apps, profiles, &mockHealer{}).JobAnalytics(context.Background(), "job")
	if err != nil {
		t.Fatal(err)
	}
	if rep.MatchDistribution[0].Count != 1 || rep.MatchDistribution[4].Count != 1 {
		t.Errorf("distribution = %+v, want one seeker per bucket", rep.MatchDistribution)
	}
	if rep.TotalApplicants != 2 {
		t.Errorf("totalApplicants = %d, want 2", rep.TotalApplicants)
	}
	if rep.AvgMatch != 50 {
		t.Errorf("avgMatch = %d, want 50", rep.AvgMatch)
	}
	if rep.Pipeline.Total != 3 {
		t.Errorf("pipeline total = %d, want every application", rep.Pipeline.Total)
	}
}

func TestJobAnalytics_BucketsOnDisplayedScore(t *testing.T) {
	// role cosine 4/sqrt(65) ~ 0.496 gives a weighted 0.899, shown as 90%.
	profiles := &mockProfiles{profiles: map[string]*profile.Profile{
		"s1": {ID: "s1", Vectors: triple(unitX, unitX, []float32{4, 7})},
	}}
	apps := &mockApps{byJob: []*domapp.Application{app("a1", "s1", domapp.StatusApplied, now)}}

	rep, err := newService(defaultJobs(), apps, profiles, &mockHealer{}).JobAnalytics(context.Background(), "job")
	if err != nil {
		t.Fatal(err)
	}
	if rep.MatchDistribution[0].Count != 1 {
		t.Errorf("distribution = %+v, want the 90-100%% bucket", rep.MatchDistribution)
	}
	if rep.AvgMatch != 90 {
		t.Errorf("avgMatch = %d, want 90", rep.AvgMatch)
	}
}

func TestJobAnalytics_Errors(t *testing.T) {
	svc := newService(defaultJobs(), &mockApps{}, &mockProfiles{}, &mockHealer{})
	if _, err := svc.JobAnalytics(context.Background(), "nope"); !errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("err = %v", err)
	}

	svc = newService(defaultJobs(), &mockApps{listErr: errors.New("down")}, &mockProfiles{}, &mockHealer{})
	if _, err := svc.JobAnalytics(context.Background(), "job"); err == nil {
		t.Error("expected error")
	}
}

// --- EmployerDashboard ---

func TestEmployerDashboard(t *testing.T) {
	jobs := defaultJobs()
	jobs.counts = map[job.Status]int{job.StatusPublished: 3}
	apps := &mockApps{
		counts: map[domapp.Status]int{"": 12, domapp.StatusInterview: 2},
		recent: []*domapp.Application{
			app("a1", "s1", domapp.StatusApplied, now),
			app("a2", "s2", domapp.StatusApplied, now),
			app("a3", "s1", domapp.StatusApplied, now),
			app("a4", "s2", domapp.StatusApplied, now),
			app("a5", "s1", domapp.StatusApplied, now),
			app("a6", "s2", domapp.StatusApplied, now),
		},
	}
	profiles := &mockProfiles{profiles: map[string]*profile.Profile{
		"s1": {ID: "s1", Name: domain.Text("Ada"), Vectors: triple(unitX, unitX, unitX)},
		"s2": {ID: "s2", Name: domain.Text("Linus")},
	}}

	d, err := newService(jobs, apps, profiles, &mockHealer{}).EmployerDashboard(context.Background(), "emp")
	if err != nil {
		t.Fatal(err)
	}
	if d.ActiveJobs != 3 || d.TotalApplications != 12 || d.Interviews != 2 {
		t.Errorf("counts = %d/%d/%d", d.ActiveJobs, d.TotalApplications, d.Interviews)
	}
	if len(d.RecentApplications) != 5 {
		t.Fatalf("recent = %d, want 5", len(d.RecentApplications))
	}
	first := d.RecentApplications[0]
	if first.SeekerName != "Ada" || first.JobTitle != "Go Engineer" || first.Match.Overall != 100 {
		t.Errorf("first row = %+v", first)
	}
	if d.RecentApplications[1].Match.Overall != 0 {
		t.Errorf("profile without vectors scored %d", d.RecentApplications[1].Match.Overall)
	}
	if jobs.getCalls != 1 {
		t.Errorf("job looked up %d times, want 1", jobs.getCalls)
	}
}

func TestEmployerDashboard_MissingJob(t *testing.T) {
	apps := &mockApps{recent: []*domapp.Application{{ID: "a1", JobID: "gone", SeekerID: "s1"}}}

	d, err := newService(defaultJobs(), apps, &mockProfiles{}, &mockHealer{}).EmployerDashboard(context.Background(), "emp")
	if err != nil {
		t.Fatal(err)
	}
	if d.RecentApplications[0].JobTitle != "" || d.RecentApplications[0].Match.Overall != 0 {
		t.Errorf("row = %+v", d.RecentApplications[0])
	}
}

func TestEmployerDashboard_CountError(t *testing.T) {
	jobs := defaultJobs()
	jobs.countErr = errors.New("down")
	if _, err := newService(jobs, &mockApps{}, &mockProfiles{}, &mockHealer{}).
		EmployerDashboard(context.Background(), "emp"); err == nil {
		t.Error("expected error")
	}
}
