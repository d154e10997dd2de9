package chi

import (
	"time"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	domapp "github.com/kailas-cloud/talentmatch/internal/domain/application"
	domjob "github.com/kailas-cloud/talentmatch/internal/domain/job"
	domprofile "github.com/kailas-cloud/talentmatch/internal/domain/profile"
	"github.com/kailas-cloud/talentmatch/internal/usecase/analytics"
	"github.com/kailas-cloud/talentmatch/internal/usecase/matching"
	"github.com/kailas-cloud/talentmatch/internal/usecase/scoring"
	"github.com/kailas-cloud/talentmatch/internal/usecase/skillgap"
)

type experienceBody struct {
	Role        string  `json:"role"`
	Company     string  `json:"company"`
	Duration    *string `json:"duration,omitempty"`
	Description *string `json:"description,omitempty"`
}

type projectBody struct {
	Title        string   `json:"title"`
	Description  *string  `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

type educationBody struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
}

// ProfileRequest is the body of PUT /v1/profiles/{id}.
type ProfileRequest struct {
	Name       *string          `json:"name,omitempty"`
	Headline   *string          `json:"headline,omitempty"`
	Bio        *string          `json:"bio,omitempty"`
	Skills     []string         `json:"skills"`
	Experience []experienceBody `json:"experience"`
	Projects   []projectBody    `json:"projects"`
	Education  []educationBody  `json:"education"`
}

// ProfileResponse is a profile without its vectors.
type ProfileResponse struct {
	ID         string           `json:"id"`
	Name       *string          `json:"name,omitempty"`
	Headline   *string          `json:"headline,omitempty"`
	Bio        *string          `json:"bio,omitempty"`
	Skills     []string         `json:"skills"`
	Experience []experienceBody `json:"experience"`
	Projects   []projectBody    `json:"projects"`
	Education  []educationBody  `json:"education"`
	HasVectors bool             `json:"hasVectors"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// JobRequest is the body of PUT /v1/jobs/{id}.
type JobRequest struct {
	EmployerID      string   `json:"employerId"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Skills          []string `json:"skills"`
	Requirements    []string `json:"requirements"`
	ExperienceLevel *string  `json:"experienceLevel,omitempty"`
	Location        *string  `json:"location,omitempty"`
	Status          string   `json:"status"`
}

// JobResponse is a job without its vectors.
type JobResponse struct {
	ID              string    `json:"id"`
	EmployerID      string    `json:"employerId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Skills          []string  `json:"skills"`
	Requirements    []string  `json:"requirements"`
	ExperienceLevel *string   `json:"experienceLevel,omitempty"`
	Location        *string   `json:"location,omitempty"`
	Status          string    `json:"status"`
	HasVectors      bool      `json:"hasVectors"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ApplyRequest is the body of POST /v1/jobs/{id}/applications.
type ApplyRequest struct {
	SeekerID  string  `json:"seekerId"`
	ResumeURL *string `json:"resumeUrl,omitempty"`
}

// StatusRequest is the body of PATCH /v1/applications/{id}.
type StatusRequest struct {
	Status string `json:"status"`
}

// ApplicationResponse is a stored application.
type ApplicationResponse struct {
	ID         string    `json:"id"`
	JobID      string    `json:"jobId"`
	SeekerID   string    `json:"seekerId"`
	EmployerID string    `json:"employerId"`
	Status     string    `json:"status"`
	ResumeURL  *string   `json:"resumeUrl,omitempty"`
	AppliedAt  time.Time `json:"appliedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// JobMatchResponse is one recommended job.
type JobMatchResponse struct {
	Job JobResponse `json:"job"`
	scoring.Payload
}

// CandidateMatchResponse is one ranked candidate.
type CandidateMatchResponse struct {
	Profile ProfileResponse `json:"profile"`
	scoring.Payload
}

// ListResponse wraps a consumer result. Available is false when matching degraded.
type ListResponse[T any] struct {
	Items     []T  `json:"items"`
	Available bool `json:"available"`
}

// BucketResponse is one bar of the match histogram.
type BucketResponse struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// DayCountResponse is applications per day.
type DayCountResponse struct {
	Day        string `json:"day"`
	Applicants int    `json:"applicants"`
}

// PipelineResponse counts applications per stage.
type PipelineResponse struct {
	Applied     int `json:"applied"`
	Shortlisted int `json:"shortlisted"`
	Interview   int `json:"interview"`
	Offer       int `json:"offer"`
	Rejected    int `json:"rejected"`
	Total       int `json:"total"`
}

// AnalyticsResponse is the body of GET /v1/jobs/{id}/analytics.
type AnalyticsResponse struct {
	MatchDistribution []BucketResponse   `json:"matchDistribution"`
	ApplicantTrends   []DayCountResponse `json:"applicantTrends"`
	Pipeline          PipelineResponse   `json:"pipeline"`
	AvgMatch          int                `json:"avgMatch"`
	TotalApplicants   int                `json:"totalApplicants"`
}

// RecentApplicationResponse is a dashboard row.
type RecentApplicationResponse struct {
	Application ApplicationResponse `json:"application"`
	JobTitle    string              `json:"jobTitle"`
	SeekerName  string              `json:"seekerName"`
	scoring.Payload
}

// DashboardResponse is the body of GET /v1/employers/{id}/dashboard.
type DashboardResponse struct {
	ActiveJobs         int                         `json:"activeJobs"`
	TotalApplications  int                         `json:"totalApplications"`
	Interviews         int                         `json:"interviews"`
	RecentApplications []RecentApplicationResponse `json:"recentApplications"`
}

// SkillGapResponse is the body of GET /v1/profiles/{id}/skill-gap/{jobId}.
type SkillGapResponse struct {
	scoring.Payload
	Analysis      string                  `json:"analysis"`
	GapReasoning  string                  `json:"gapReasoning"`
	MissingSkills []skillgap.MissingSkill `json:"missingSkills"`
	LearningPath  []skillgap.LearningStep `json:"learningPath"`
	Explained     bool                    `json:"explained"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (req *ProfileRequest) toDomain(id string) *domprofile.Profile {
	p := &domprofile.Profile{
		ID:       id,
		Name:     optionalText(req.Name),
		Headline: optionalText(req.Headline),
		Bio:      optionalText(req.Bio),
		Skills:   req.Skills,
	}
	for _, e := range req.Experience {
		p.Experience = append(p.Experience, domprofile.Experience{
			Role:        e.Role,
			Company:     e.Company,
			Duration:    optionalText(e.Duration),
			Description: optionalText(e.Description),
		})
	}
	for _, pr := range req.Projects {
		p.Projects = append(p.Projects, domprofile.Project{
			Title:        pr.Title,
			Description:  optionalText(pr.Description),
			Technologies: pr.Technologies,
		})
	}
	for _, ed := range req.Education {
		p.Education = append(p.Education, domprofile.Education(ed))
	}
	return p
}

func profileToResponse(p *domprofile.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:         p.ID,
		Name:       p.Name.Ptr(),
		Headline:   p.Headline.Ptr(),
		Bio:        p.Bio.Ptr(),
		Skills:     nonNil(p.Skills),
		Experience: make([]experienceBody, 0, len(p.Experience)),
		Projects:   make([]projectBody, 0, len(p.Projects)),
		Education:  make([]educationBody, 0, len(p.Education)),
		HasVectors: p.Vectors.Complete(),
		UpdatedAt:  p.UpdatedAt,
	}
	for _, e := range p.Experience {
		resp.Experience = append(resp.Experience, experienceBody{
			Role:        e.Role,
			Company:     e.Company,
			Duration:    e.Duration.Ptr(),
			Description: e.Description.Ptr(),
		})
	}
	for _, pr := range p.Projects {
		resp.Projects = append(resp.Projects, projectBody{
			Title:        pr.Title,
			Description:  pr.Description.Ptr(),
			Technologies: pr.Technologies,
		})
	}
	for _, ed := range p.Education {
		resp.Education = append(resp.Education, educationBody(ed))
	}
	return resp
}

func (req *JobRequest) toDomain(id string) *domjob.Job {
	return &domjob.Job{
		ID:              id,
		EmployerID:      req.EmployerID,
		Title:           req.Title,
		Description:     req.Description,
		Skills:          req.Skills,
		Requirements:    req.Requirements,
		ExperienceLevel: optionalText(req.ExperienceLevel),
		Location:        optionalText(req.Location),
		Status:          domjob.Status(req.Status),
	}
}

func jobToResponse(j *domjob.Job) JobResponse {
	return JobResponse{
		ID:              j.ID,
		EmployerID:      j.EmployerID,
		Title:           j.Title,
		Description:     j.Description,
		Skills:          nonNil(j.Skills),
		Requirements:    nonNil(j.Requirements),
		ExperienceLevel: j.ExperienceLevel.Ptr(),
		Location:        j.Location.Ptr(),
		Status:          string(j.Status),
		HasVectors:      j.Vectors.Complete(),
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}

func applicationToResponse(a *domapp.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:         a.ID,
		JobID:      a.JobID,
		SeekerID:   a.SeekerID,
		EmployerID: a.EmployerID,
		Status:     string(a.Status),
		ResumeURL:  a.ResumeURL.Ptr(),
		AppliedAt:  a.AppliedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func recommendationsToResponse(recs matching.Recommendations) ListResponse[JobMatchResponse] {
	items := make([]JobMatchResponse, 0, len(recs.Items))
	for _, m := range recs.Items {
		items = append(items, JobMatchResponse{Job: jobToResponse(m.Job), Payload: m.Match.Payload()})
	}
	return ListResponse[JobMatchResponse]{Items: items, Available: recs.Available}
}

func candidatesToResponse(c matching.Candidates) ListResponse[CandidateMatchResponse] {
	items := make([]CandidateMatchResponse, 0, len(c.Items))
	for _, m := range c.Items {
		items = append(items, CandidateMatchResponse{Profile: profileToResponse(m.Profile), Payload: m.Match.Payload()})
	}
	return ListResponse[CandidateMatchResponse]{Items: items, Available: c.Available}
}

func analyticsToResponse(rep *analytics.JobReport) AnalyticsResponse {
	resp := AnalyticsResponse{
		MatchDistribution: make([]BucketResponse, 0, len(rep.MatchDistribution)),
		ApplicantTrends:   make([]DayCountResponse, 0, len(rep.ApplicantTrends)),
		Pipeline:          PipelineResponse(rep.Pipeline),
		AvgMatch:          rep.AvgMatch,
		TotalApplicants:   rep.TotalApplicants,
	}
	for _, b := range rep.MatchDistribution {
		resp.MatchDistribution = append(resp.MatchDistribution, BucketResponse(b))
	}
	for _, d := range rep.ApplicantTrends {
		resp.ApplicantTrends = append(resp.ApplicantTrends, DayCountResponse(d))
	}
	return resp
}

func dashboardToResponse(d *analytics.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		ActiveJobs:         d.ActiveJobs,
		TotalApplications:  d.TotalApplications,
		Interviews:         d.Interviews,
		RecentApplications: make([]RecentApplicationResponse, 0, len(d.RecentApplications)),
	}
	for _, row := range d.RecentApplications {
		resp.RecentApplications = append(resp.RecentApplications, RecentApplicationResponse{
			Application: applicationToResponse(row.Application),
			JobTitle:    row.JobTitle,
			SeekerName:  row.SeekerName,
			Payload:     row.Match.Payload(),
		})
	}
	return resp
}

func skillGapToResponse(rep *skillgap.Report) SkillGapResponse {
	resp := SkillGapResponse{
		Payload:       rep.Match.Payload(),
		Analysis:      rep.Analysis,
		GapReasoning:  rep.GapReasoning,
		MissingSkills: rep.MissingSkills,
		LearningPath:  rep.LearningPath,
		Explained:     rep.Explained,
	}
	if resp.MissingSkills == nil {
		resp.MissingSkills = []skillgap.MissingSkill{}
	}
	if resp.LearningPath == nil {
		resp.LearningPath = []skillgap.LearningStep{}
	}
	return resp
}

func optionalText(s *string) domain.Optional[string] {
	if s == nil {
		return domain.None[string]()
	}
	return domain.Text(*s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
