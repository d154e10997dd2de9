package job

import (
	"github.com/kailas-cloud/talentmatch/internal/domain"
	domjob "github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/repository/schema"
)

type jobDoc struct {
	ID              string          `json:"id"`
	EmployerID      string          `json:"employer_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Skills          []string        `json:"skills"`
	Requirements    []string        `json:"requirements"`
	ExperienceLevel *string         `json:"experience_level,omitempty"`
	Location        *string         `json:"location,omitempty"`
	Status          string          `json:"status"`
	Vectors         *schema.Vectors `json:"vectors,omitempty"`
	LegacyVector    []float32       `json:"legacy_vector,omitempty"`
	CreatedAt       int64           `json:"created_at"`
	UpdatedAt       int64           `json:"updated_at"`
}

func toDoc(j *domjob.Job) jobDoc {
	skills, reqs := j.Skills, j.Requirements
	if skills == nil {
		skills = []string{}
	}
	if reqs == nil {
		reqs = []string{}
	}
	return jobDoc{
		ID:              j.ID,
		EmployerID:      j.EmployerID,
		Title:           j.Title,
		Description:     j.Description,
		Skills:          skills,
		Requirements:    reqs,
		ExperienceLevel: j.ExperienceLevel.Ptr(),
		Location:        j.Location.Ptr(),
		Status:          string(j.Status),
		Vectors:         schema.VectorsFrom(j.Vectors),
		LegacyVector:    j.LegacyVector,
		CreatedAt:       schema.Millis(j.CreatedAt),
		UpdatedAt:       schema.Millis(j.UpdatedAt),
	}
}

func (d *jobDoc) toDomain() *domjob.Job {
	return &domjob.Job{
		ID:              d.ID,
		EmployerID:      d.EmployerID,
		Title:           d.Title,
		Description:     d.Description,
		Skills:          d.Skills,
		Requirements:    d.Requirements,
		ExperienceLevel: domain.FromPtr(d.ExperienceLevel),
		Location:        domain.FromPtr(d.Location),
		Status:          domjob.Status(d.Status),
		Vectors:         d.Vectors.Triple(),
		LegacyVector:    d.LegacyVector,
		CreatedAt:       schema.FromMillis(d.CreatedAt),
		UpdatedAt:       schema.FromMillis(d.UpdatedAt),
	}
}

// Decode parses a stored job document.
func Decode(raw []byte) (*domjob.Job, error) {
	var d jobDoc
	if err := schema.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}
