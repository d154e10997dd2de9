// Package job defines the job posting, its lifecycle and the texts its vectors are derived from.
package job

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// Status is the publication state of a job.
type Status string

const (
	// StatusDraft is a job being edited, invisible to seekers.
	StatusDraft Status = "DRAFT"
	// StatusPublished is a job open for applications and matching.
	StatusPublished Status = "PUBLISHED"
	// StatusClosed is a job no longer accepting applications.
	StatusClosed Status = "CLOSED"
)

// ParseStatus validates s. An empty string means draft.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case "":
		return StatusDraft, nil
	case StatusDraft, StatusPublished, StatusClosed:
		return st, nil
	default:
		return "", fmt.Errorf("%w: job status %q", domain.ErrInvalidStatus, s)
	}
}

// Job is a posting owned by an employer.
type Job struct {
	ID              string
	EmployerID      string
	Title           string
	Description     string
	Skills          []string
	Requirements    []string
	ExperienceLevel domain.Optional[string]
	Location        domain.Optional[string]
	Status          Status

	Vectors vector.Triple
	// LegacyVector is the deprecated single-vector embedding, stored but unused.
	LegacyVector []float32

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks required fields and the status value.
func (j *Job) Validate() error {
	switch {
	case strings.TrimSpace(j.ID) == "":
		return fmt.Errorf("%w: job id is required", domain.ErrInvalidInput)
	case strings.TrimSpace(j.EmployerID) == "":
		return fmt.Errorf("%w: employer id is required", domain.ErrInvalidInput)
	case strings.TrimSpace(j.Title) == "":
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if _, err := ParseStatus(string(j.Status)); err != nil {
		return err
	}
	return nil
}

// Published reports whether the job is visible to seekers.
func (j *Job) Published() bool { return j.Status == StatusPublished }

// Source builds the labeled texts the job's vectors are generated from.
func (j *Job) Source() vector.Source {
	return vector.Source{
		Skills:     skillsText(j.Skills),
		Experience: j.experienceText(),
		Role:       j.roleText(),
	}
}

func skillsText(skills []string) string {
	var clean []string
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	if len(clean) == 0 {
		return ""
	}
	return "Skills: " + strings.Join(clean, ", ")
}

// experienceText uses the requirements list, falling back to the level.
func (j *Job) experienceText() string {
	var reqs []string
	for _, r := range j.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			reqs = append(reqs, r)
		}
	}
	if len(reqs) > 0 {
		return "Requirements: " + strings.Join(reqs, ". ")
	}
	if lvl, ok := j.ExperienceLevel.Get(); ok {
		return "Experience Level: " + lvl
	}
	return ""
}

func (j *Job) roleText() string {
	title := strings.TrimSpace(j.Title)
	desc := strings.TrimSpace(j.Description)
	switch {
	case title == "" && desc == "":
		return ""
	case desc == "":
		return "Job Title: " + title
	default:
		return fmt.Sprintf("Job Title: %s. Description: %s", title, desc)
	}
}

// NeedsEmbedding decides whether saving next over prev must regenerate the triple.
// Only published jobs carry vectors: a job entering PUBLISHED always regenerates,
// a published job regenerates when its source text changed or it has no usable triple.
// prev is nil for a newly created job.
func NeedsEmbedding(prev, next *Job) bool {
	if !next.Published() {
		return false
	}
	if prev == nil || !prev.Published() {
		return true
	}
	if !prev.Vectors.Complete() {
		return true
	}
	return prev.Source().Hash() != next.Source().Hash()
}
