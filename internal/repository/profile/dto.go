package profile

import (
	"github.com/kailas-cloud/talentmatch/internal/domain"
	domprofile "github.com/kailas-cloud/talentmatch/internal/domain/profile"
	"github.com/kailas-cloud/talentmatch/internal/repository/schema"
)

type experienceDoc struct {
	Role        string  `json:"role"`
	Company     string  `json:"company"`
	Duration    *string `json:"duration,omitempty"`
	Description *string `json:"description,omitempty"`
}

type projectDoc struct {
	Title        string   `json:"title"`
	Description  *string  `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

type educationDoc struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
}

type profileDoc struct {
	ID           string          `json:"id"`
	Name         *string         `json:"name,omitempty"`
	Headline     *string         `json:"headline,omitempty"`
	Bio          *string         `json:"bio,omitempty"`
	Skills       []string        `json:"skills"`
	Experience   []experienceDoc `json:"experience"`
	Projects     []projectDoc    `json:"projects"`
	Education    []educationDoc  `json:"education"`
	Vectors      *schema.Vectors `json:"vectors,omitempty"`
	LegacyVector []float32       `json:"legacy_vector,omitempty"`
	UpdatedAt    int64           `json:"updated_at"`
}

func toDoc(p *domprofile.Profile) profileDoc {
	d := profileDoc{
		ID:           p.ID,
		Name:         p.Name.Ptr(),
		Headline:     p.Headline.Ptr(),
		Bio:          p.Bio.Ptr(),
		Skills:       nonNil(p.Skills),
		Experience:   make([]experienceDoc, 0, len(p.Experience)),
		Projects:     make([]projectDoc, 0, len(p.Projects)),
		Education:    make([]educationDoc, 0, len(p.Education)),
		Vectors:      schema.VectorsFrom(p.Vectors),
		LegacyVector: p.LegacyVector,
		UpdatedAt:    schema.Millis(p.UpdatedAt),
	}
	for _, e := range p.Experience {
		d.Experience = append(d.Experience, experienceDoc{
			Role:        e.Role,
			Company:     e.Company,
			Duration:    e.Duration.Ptr(),
			Description: e.Description.Ptr(),
		})
	}
	for _, pr := range p.Projects {
		d.Projects = append(d.Projects, projectDoc{
			Title:        pr.Title,
			Description:  pr.Description.Ptr(),
			Technologies: pr.Technologies,
		})
	}
	for _, ed := range p.Education {
		d.Education = append(d.Education, educationDoc(ed))
	}
	return d
}

func (d *profileDoc) toDomain() *domprofile.Profile {
	p := &domprofile.Profile{
		ID:           d.ID,
		Name:         domain.FromPtr(d.Name),
		Headline:     domain.FromPtr(d.Headline),
		Bio:          domain.FromPtr(d.Bio),
		Skills:       d.Skills,
		Vectors:      d.Vectors.Triple(),
		LegacyVector: d.LegacyVector,
		UpdatedAt:    schema.FromMillis(d.UpdatedAt),
	}
	for _, e := range d.Experience {
		p.Experience = append(p.Experience, domprofile.Experience{
			Role:        e.Role,
			Company:     e.Company,
			Duration:    domain.FromPtr(e.Duration),
			Description: domain.FromPtr(e.Description),
		})
	}
	for _, pr := range d.Projects {
		p.Projects = append(p.Projects, domprofile.Project{
			Title:        pr.Title,
			Description:  domain.FromPtr(pr.Description),
			Technologies: pr.Technologies,
		})
	}
	for _, ed := range d.Education {
		p.Education = append(p.Education, domprofile.Education(ed))
	}
	return p
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Decode parses a stored profile document.
func Decode(raw []byte) (*domprofile.Profile, error) {
	var d profileDoc
	if err := schema.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}
