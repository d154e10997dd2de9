// Package profile defines the job seeker profile and the texts its vectors are derived from.
package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// Experience is one position held by the seeker.
type Experience struct {
	Role        string
	Company     string
	Duration    domain.Optional[string]
	Description domain.Optional[string]
}

// Project is a portfolio entry.
type Project struct {
	Title        string
	Description  domain.Optional[string]
	Technologies []string
}

// Education is one degree.
type Education struct {
	Degree      string
	Institution string
}

// Profile is a job seeker profile.
type Profile struct {
	ID         string
	Name       domain.Optional[string]
	Headline   domain.Optional[string]
	Bio        domain.Optional[string]
	Skills     []string
	Experience []Experience
	Projects   []Project
	Education  []Education

	Vectors vector.Triple
	// LegacyVector is the deprecated single-vector embedding. It is carried
	// through storage unchanged and never used for matching.
	LegacyVector []float32

	UpdatedAt time.Time
}

// Validate checks required fields.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: profile id is required", domain.ErrInvalidInput)
	}
	return nil
}

// Source builds the labeled texts the profile's vectors are generated from.
// A signal with nothing to describe yields an empty text.
func (p *Profile) Source() vector.Source {
	return vector.Source{
		Skills:     p.skillsText(),
		Experience: p.experienceText(),
		Role:       p.roleText(),
	}
}

func (p *Profile) skillsText() string {
	skills := nonBlank(p.Skills)
	if len(skills) == 0 {
		return ""
	}
	return "Key Skills: " + strings.Join(skills, ", ")
}

func (p *Profile) experienceText() string {
	var sections []string

	if len(p.Experience) > 0 {
		items := make([]string, 0, len(p.Experience))
		for _, e := range p.Experience {
			item := fmt.Sprintf("%s at %s", e.Role, e.Company)
			if d, ok := e.Duration.Get(); ok {
				item += " (" + d + ")"
			}
			if d, ok := e.Description.Get(); ok {
				item += ": " + d
			}
			items = append(items, item)
		}
		sections = append(sections, "Experience: "+strings.Join(items, ". "))
	}

	if len(p.Projects) > 0 {
		items := make([]string, 0, len(p.Projects))
		for _, pr := range p.Projects {
			item := pr.Title
			if d, ok := pr.Description.Get(); ok {
				item += ": " + d
			}
			if tech := nonBlank(pr.Technologies); len(tech) > 0 {
				item += ". Tech: " + strings.Join(tech, ", ")
			}
			items = append(items, item)
		}
		sections = append(sections, "Projects: "+strings.Join(items, ". "))
	}

	if len(p.Education) > 0 {
		items := make([]string, 0, len(p.Education))
		for _, ed := range p.Education {
			items = append(items, fmt.Sprintf("%s from %s", ed.Degree, ed.Institution))
		}
		sections = append(sections, "Education: "+strings.Join(items, ". "))
	}

	return strings.Join(sections, "\n")
}

// roleText prefers the bio, then the headline, then the most recent position.
func (p *Profile) roleText() string {
	if bio, ok := p.Bio.Get(); ok {
		return "Candidate Bio: " + bio
	}
	if h, ok := p.Headline.Get(); ok {
		return "Candidate Bio: " + h
	}
	if len(p.Experience) > 0 {
		e := p.Experience[0]
		return fmt.Sprintf("Candidate Bio: %s at %s", e.Role, e.Company)
	}
	return ""
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
