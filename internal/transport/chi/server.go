// Package chi exposes the matching engine over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	domapp "github.com/kailas-cloud/talentmatch/internal/domain/application"
	domjob "github.com/kailas-cloud/talentmatch/internal/domain/job"
	domprofile "github.com/kailas-cloud/talentmatch/internal/domain/profile"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
	"github.com/kailas-cloud/talentmatch/internal/usecase/analytics"
	healthuc "github.com/kailas-cloud/talentmatch/internal/usecase/health"
	"github.com/kailas-cloud/talentmatch/internal/usecase/matching"
	"github.com/kailas-cloud/talentmatch/internal/usecase/skillgap"
)

// ProfileService saves and reads profiles.
type ProfileService interface {
	Save(ctx context.Context, p *domprofile.Profile) (*domprofile.Profile, error)
	Get(ctx context.Context, id string) (*domprofile.Profile, error)
}

// JobService saves and reads jobs.
type JobService interface {
	Save(ctx context.Context, j *domjob.Job) (*domjob.Job, error)
	Get(ctx context.Context, id string) (*domjob.Job, error)
}

// ApplicationService records applications and moves them through the pipeline.
type ApplicationService interface {
	Apply(ctx context.Context, seekerID, jobID string, resumeURL domain.Optional[string]) (*domapp.Application, error)
	UpdateStatus(ctx context.Context, id, status string) (*domapp.Application, error)
}

// MatchingService runs recommendations and candidate ranking.
type MatchingService interface {
	Recommend(ctx context.Context, seekerID string) (matching.Recommendations, error)
	RankCandidates(ctx context.Context, jobID string, limit int) (matching.Candidates, error)
}

// AnalyticsService aggregates per-job and per-employer numbers.
type AnalyticsService interface {
	JobAnalytics(ctx context.Context, jobID string) (*analytics.JobReport, error)
	EmployerDashboard(ctx context.Context, employerID string) (*analytics.Dashboard, error)
}

// SkillGapService explains a profile/job match.
type SkillGapService interface {
	Analyze(ctx context.Context, seekerID, jobID string) (*skillgap.Report, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Services groups the use cases the server dispatches to.
type Services struct {
	Profiles     ProfileService
	Jobs         JobService
	Applications ApplicationService
	Matching     MatchingService
	Analytics    AnalyticsService
	SkillGap     SkillGapService
	Health       HealthService
}

// Server is the HTTP API.
type Server struct {
	svc    Services
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, logger *zap.Logger) *Server {
	return &Server{svc: svc, logger: logger}
}

// Handler builds the router with the full middleware stack.
func (s *Server) Handler(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestContext(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Put("/profiles/{id}", s.PutProfile)
		r.Get("/profiles/{id}", s.GetProfile)
		r.Get("/profiles/{id}/recommendations", s.Recommendations)
		r.Get("/profiles/{id}/skill-gap/{jobId}", s.SkillGap)

		r.Put("/jobs/{id}", s.PutJob)
		r.Get("/jobs/{id}", s.GetJob)
		r.Post("/jobs/{id}/applications", s.Apply)
		r.Get("/jobs/{id}/candidates", s.Candidates)
		r.Get("/jobs/{id}/analytics", s.JobAnalytics)

		r.Patch("/applications/{id}", s.UpdateApplication)
		r.Get("/employers/{id}/dashboard", s.Dashboard)
	})
	return r
}

// PutProfile handles PUT /v1/profiles/{id}.
func (s *Server) PutProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := s.svc.Profiles.Save(r.Context(), req.toDomain(chi.URLParam(r, "id")))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	setEmbeddingHeaders(w, r)
	writeJSON(w, http.StatusOK, profileToResponse(p))
}

// GetProfile handles GET /v1/profiles/{id}.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Profiles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileToResponse(p))
}

// PutJob handles PUT /v1/jobs/{id}.
func (s *Server) PutJob(w http.ResponseWriter, r *http.Request) {
	var req JobRequest
	if !decodeBody(w, r, &req) {
		return
	}
	j, err := s.svc.Jobs.Save(r.Context(), req.toDomain(chi.URLParam(r, "id")))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	setEmbeddingHeaders(w, r)
	writeJSON(w, http.StatusOK, jobToResponse(j))
}

// GetJob handles GET /v1/jobs/{id}.
func (s *Server) GetJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.svc.Jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToResponse(j))
}

// Apply handles POST /v1/jobs/{id}/applications.
func (s *Server) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := s.svc.Applications.Apply(r.Context(), req.SeekerID, chi.URLParam(r, "id"), optionalText(req.ResumeURL))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, applicationToResponse(a))
}

// UpdateApplication handles PATCH /v1/applications/{id}.
func (s *Server) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := s.svc.Applications.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, applicationToResponse(a))
}

// Recommendations handles GET /v1/profiles/{id}/recommendations.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.svc.Matching.Recommend(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	setEmbeddingHeaders(w, r)
	writeJSON(w, http.StatusOK, recommendationsToResponse(recs))
}

// Candidates handles GET /v1/jobs/{id}/candidates.
func (s *Server) Candidates(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	cands, err := s.svc.Matching.RankCandidates(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	setEmbeddingHeaders(w, r)
	writeJSON(w, http.StatusOK, candidatesToResponse(cands))
}

// JobAnalytics handles GET /v1/jobs/{id}/analytics.
func (s *Server) JobAnalytics(w http.ResponseWriter, r *http.Request) {
	rep, err := s.svc.Analytics.JobAnalytics(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	setEmbeddingHeaders(w, r)
	writeJSON(w, http.StatusOK, analyticsToResponse(rep))
}

// Dashboard handles GET /v1/employers/{id}/dashboard.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Analytics.EmployerDashboard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardToResponse(d))
}

// SkillGap handles GET /v1/profiles/{id}/skill-gap/{jobId}.
func (s *Server) SkillGap(w http.ResponseWriter, r *http.Request) {
	rep, err := s.svc.SkillGap.Analyze(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "jobId"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	setEmbeddingHeaders(w, r)
	writeJSON(w, http.StatusOK, skillGapToResponse(rep))
}

// HealthCheck handles GET /health. Degraded still answers 200: the API serves,
// matching returns empty results.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// setEmbeddingHeaders reports the tokens spent so far on this request.
// Must run before the body is written.
func setEmbeddingHeaders(w http.ResponseWriter, r *http.Request) {
	if usage := domain.UsageFromContext(r.Context()); usage.Calls() > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens()))
	}
}
