// Package analytics aggregates match scores and application pipelines for employers.
// Every score here comes from the scoring package; nothing is stored.
package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	domapp "github.com/kailas-cloud/talentmatch/internal/domain/application"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
	"github.com/kailas-cloud/talentmatch/internal/logger"
	"github.com/kailas-cloud/talentmatch/internal/usecase/scoring"
)

const (
	trendDays     = 7
	trendLayout   = "Mon Jan 2"
	recentDefault = 5
)

// Bucket is one bar of the match distribution.
type Bucket struct {
	Range string
	Count int
}

// DayCount is applications received on one day.
type DayCount struct {
	Day        string
	Applicants int
}

// Pipeline counts applications per stage. Applied covers APPLIED and SCREENING.
type Pipeline struct {
	Applied     int
	Shortlisted int
	Interview   int
	Offer       int
	Rejected    int
	Total       int
}

// JobReport is the analytics of one job. The distribution, AvgMatch and
// TotalApplicants count each seeker once; Pipeline and ApplicantTrends count
// applications.
type JobReport struct {
	MatchDistribution []Bucket
	ApplicantTrends   []DayCount
	Pipeline          Pipeline
	AvgMatch          int
	TotalApplicants   int
}

// RecentApplication is a dashboard row.
type RecentApplication struct {
	Application *domapp.Application
	JobTitle    string
	SeekerName  string
	Match       scoring.Result
}

// Dashboard is the employer overview.
type Dashboard struct {
	ActiveJobs         int
	TotalApplications  int
	Interviews         int
	RecentApplications []RecentApplication
}

// Service computes analytics.
type Service struct {
	jobs     JobRepository
	apps     ApplicationRepository
	profiles ProfileBatchReader
	healer   JobHealer
	now      func() time.Time
}

// New creates an analytics service.
func New(jobs JobRepository, apps ApplicationRepository, profiles ProfileBatchReader, healer JobHealer) *Service {
	return &Service{jobs: jobs, apps: apps, profiles: profiles, healer: healer, now: time.Now}
}

// JobAnalytics scores every applicant of a job and aggregates the results.
// Applicants without vectors score 0; a job whose vectors cannot be built scores all 0.
func (s *Service) JobAnalytics(ctx context.Context, jobID string) (*JobReport, error) {
	j, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	apps, err := s.apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	seekers := seekerIDs(apps)
	profiles, err := s.profiles.GetMany(ctx, seekers)
	if err != nil {
		return nil, fmt.Errorf("load applicants: %w", err)
	}

	jobVectors := s.jobTriple(ctx, j)
	scores := make([]int, 0, len(seekers))
	for _, id := range seekers {
		var pv vector.Triple
		if p, ok := profiles[id]; ok {
			pv = p.Vectors
		}
		// buckets use the displayed percentage
		scores = append(scores, scoring.Score(pv, jobVectors).Overall)
	}

	return &JobReport{
		MatchDistribution: distribution(scores),
		ApplicantTrends:   trends(apps, s.now()),
		Pipeline:          pipeline(apps),
		AvgMatch:          average(scores),
		TotalApplicants:   len(seekers),
	}, nil
}

// EmployerDashboard summarizes an employer's jobs and their most recent applications.
func (s *Service) EmployerDashboard(ctx context.Context, employerID string) (*Dashboard, error) {
	active, err := s.jobs.CountByEmployer(ctx, employerID, job.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	total, err := s.apps.CountByEmployer(ctx, employerID, "")
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	interviews, err := s.apps.CountByEmployer(ctx, employerID, domapp.StatusInterview)
	if err != nil {
		return nil, fmt.Errorf("count interviews: %w", err)
	}
	recent, err := s.apps.ListByEmployer(ctx, employerID, recentDefault)
	if err != nil {
		return nil, fmt.Errorf("list recent applications: %w", err)
	}
	profiles, err := s.profiles.GetMany(ctx, seekerIDs(recent))
	if err != nil {
		return nil, fmt.Errorf("load applicants: %w", err)
	}

	jobs := make(map[string]*job.Job)
	rows := make([]RecentApplication, 0, len(recent))
	for _, a := range recent {
		j, ok := jobs[a.JobID]
		if !ok {
			j, err = s.jobs.Get(ctx, a.JobID)
			if err != nil {
				logger.FromContext(ctx).Warn("Dashboard job lookup failed",
					zap.String("job_id", a.JobID), zap.Error(err))
				j = &job.Job{ID: a.JobID}
			}
			jobs[a.JobID] = j
		}

		row := RecentApplication{Application: a, JobTitle: j.Title}
		var pv vector.Triple
		if p, ok := profiles[a.SeekerID]; ok {
			row.SeekerName = p.Name.OrElse("")
			pv = p.Vectors
		}
		row.Match = scoring.Score(pv, j.Vectors.Usable())
		rows = append(rows, row)
	}

	return &Dashboard{
		ActiveJobs:         active,
		TotalApplications:  total,
		Interviews:         interviews,
		RecentApplications: rows,
	}, nil
}

func (s *Service) jobTriple(ctx context.Context, j *job.Job) vector.Triple {
	t, err := s.healer.EnsureJob(ctx, j)
	if err != nil {
		logger.FromContext(ctx).Warn("Job vectors unavailable for analytics",
			zap.String("job_id", j.ID), zap.Error(err))
		return vector.Triple{}
	}
	return t
}

func seekerIDs(apps []*domapp.Application) []string {
	seen := make(map[string]struct{}, len(apps))
	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		if _, ok := seen[a.SeekerID]; ok {
			continue
		}
		seen[a.SeekerID] = struct{}{}
		ids = append(ids, a.SeekerID)
	}
	return ids
}

// distribution buckets percentage scores; all five buckets are always present.
func distribution(scores []int) []Bucket {
	out := []Bucket{{Range: "90-100%"}, {Range: "80-89%"}, {Range: "70-79%"}, {Range: "60-69%"}, {Range: "<60%"}}
	for _, sc := range scores {
		switch {
		case sc >= 90:
			out[0].Count++
		case sc >= 80:
			out[1].Count++
		case sc >= 70:
			out[2].Count++
		case sc >= 60:
			out[3].Count++
		default:
			out[4].Count++
		}
	}
	return out
}

// trends counts applications per calendar day over the last week, oldest first.
func trends(apps []*domapp.Application, now time.Time) []DayCount {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	out := make([]DayCount, trendDays)
	for i := range out {
		out[i].Day = today.AddDate(0, 0, i-(trendDays-1)).Format(trendLayout)
	}
	for _, a := range apps {
		ay, am, ad := a.AppliedAt.In(now.Location()).Date()
		day := time.Date(ay, am, ad, 0, 0, 0, 0, now.Location())
		idx := trendDays - 1 - int(today.Sub(day).Hours()/24+0.5)
		if idx >= 0 && idx < trendDays {
			out[idx].Applicants++
		}
	}
	return out
}

func pipeline(apps []*domapp.Application) Pipeline {
	p := Pipeline{Total: len(apps)}
	for _, a := range apps {
		switch a.Status {
		case domapp.StatusApplied, domapp.StatusScreening:
			p.Applied++
		case domapp.StatusShortlisted:
			p.Shortlisted++
		case domapp.StatusInterview:
			p.Interview++
		case domapp.StatusOffer:
			p.Offer++
		case domapp.StatusRejected:
			p.Rejected++
		}
	}
	return p
}

func average(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, sc := range scores {
		sum += sc
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}
