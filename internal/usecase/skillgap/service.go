// Package skillgap explains a profile/job match score in natural language.
// The score itself always comes from the scoring package; the model only narrates it.
package skillgap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
	"github.com/kailas-cloud/talentmatch/internal/logger"
	"github.com/kailas-cloud/talentmatch/internal/metrics"
	"github.com/kailas-cloud/talentmatch/internal/usecase/scoring"
)

// MissingSkill is a skill the job asks for and the profile lacks.
type MissingSkill struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Importance string `json:"importance"`
}

// LearningStep is a suggested action to close a gap.
type LearningStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// Report is the anchored explanation. Explained is false when no narrative could be generated.
type Report struct {
	Match         scoring.Result
	Analysis      string
	GapReasoning  string
	MissingSkills []MissingSkill
	LearningPath  []LearningStep
	Explained     bool
}

type narrative struct {
	Score         any            `json:"score"`
	Analysis      string         `json:"analysis"`
	GapReasoning  string         `json:"gapReasoning"`
	MissingSkills []MissingSkill `json:"missingSkills"`
	LearningPath  []LearningStep `json:"learningPath"`
}

// Service builds skill-gap reports.
type Service struct {
	profiles ProfileReader
	jobs     JobReader
	healer   Healer
	gen      domain.TextGenerator
}

// New creates a skill-gap service. gen may be nil, in which case reports carry only the score.
func New(profiles ProfileReader, jobs JobReader, healer Healer, gen domain.TextGenerator) *Service {
	return &Service{profiles: profiles, jobs: jobs, healer: healer, gen: gen}
}

// Analyze scores the pair and asks the generator to explain the score.
// Missing vectors score 0; generator failures leave the report unexplained.
func (s *Service) Analyze(ctx context.Context, seekerID, jobID string) (*Report, error) {
	p, err := s.profiles.Get(ctx, seekerID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	j, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	log := logger.FromContext(ctx).With(zap.String("seeker_id", seekerID), zap.String("job_id", jobID))

	pv, err := s.healer.EnsureProfile(ctx, p)
	if err != nil {
		log.Warn("Profile vectors unavailable for skill gap", zap.Error(err))
		pv = vector.Triple{}
	}
	jv, err := s.healer.EnsureJob(ctx, j)
	if err != nil {
		log.Warn("Job vectors unavailable for skill gap", zap.Error(err))
		jv = vector.Triple{}
	}

	rep := &Report{Match: scoring.Score(pv, jv)}
	if s.gen == nil {
		return rep, nil
	}

	text, err := s.gen.GenerateContent(ctx, buildPrompt(p, j, rep.Match))
	if err != nil {
		metrics.DegradedResponsesTotal.WithLabelValues("skill_gap", "generation").Inc()
		log.Warn("Skill gap generation failed", zap.Error(err))
		return rep, nil
	}
	n, err := parseNarrative(text)
	if err != nil {
		metrics.DegradedResponsesTotal.WithLabelValues("skill_gap", "malformed").Inc()
		log.Warn("Skill gap response unparseable", zap.Error(err))
		return rep, nil
	}

	// whatever score the model returned is discarded
	rep.Analysis = n.Analysis
	rep.GapReasoning = n.GapReasoning
	rep.MissingSkills = n.MissingSkills
	rep.LearningPath = n.LearningPath
	rep.Explained = true
	return rep, nil
}

var errNoJSON = errors.New("no JSON object in response")

func parseNarrative(raw string) (*narrative, error) {
	cleaned := extractJSON(raw)
	start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}")
	if start == -1 || end < start {
		return nil, errNoJSON
	}
	var n narrative
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &n); err != nil {
		return nil, fmt.Errorf("parse narrative: %w", err)
	}
	return &n, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}
