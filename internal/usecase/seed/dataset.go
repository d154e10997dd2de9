package seed

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/job"
	"github.com/kailas-cloud/talentmatch/internal/domain/profile"
)

// Dataset is the content of a seed file.
type Dataset struct {
	Profiles []*profile.Profile
	Jobs     []*job.Job
}

type experienceFile struct {
	Role        string `yaml:"role"`
	Company     string `yaml:"company"`
	Duration    string `yaml:"duration"`
	Description string `yaml:"description"`
}

type projectFile struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Technologies []string `yaml:"technologies"`
}

type educationFile struct {
	Degree      string `yaml:"degree"`
	Institution string `yaml:"institution"`
}

type profileFile struct {
	ID         string           `yaml:"id"`
	Name       string           `yaml:"name"`
	Headline   string           `yaml:"headline"`
	Bio        string           `yaml:"bio"`
	Skills     []string         `yaml:"skills"`
	Experience []experienceFile `yaml:"experience"`
	Projects   []projectFile    `yaml:"projects"`
	Education  []educationFile  `yaml:"education"`
}

type jobFile struct {
	ID              string   `yaml:"id"`
	EmployerID      string   `yaml:"employer_id"`
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	Skills          []string `yaml:"skills"`
	Requirements    []string `yaml:"requirements"`
	ExperienceLevel string   `yaml:"experience_level"`
	Location        string   `yaml:"location"`
	Status          string   `yaml:"status"`
}

type datasetFile struct {
	Profiles []profileFile `yaml:"profiles"`
	Jobs     []jobFile     `yaml:"jobs"`
}

// LoadDataset decodes a YAML (or JSON) seed file and validates every entity.
func LoadDataset(r io.Reader, now time.Time) (*Dataset, error) {
	var f datasetFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &Dataset{}, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	ds := &Dataset{
		Profiles: make([]*profile.Profile, 0, len(f.Profiles)),
		Jobs:     make([]*job.Job, 0, len(f.Jobs)),
	}
	for i, pf := range f.Profiles {
		p := pf.toDomain(now)
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profiles[%d]: %w", i, err)
		}
		ds.Profiles = append(ds.Profiles, p)
	}
	for i, jf := range f.Jobs {
		j, err := jf.toDomain(now)
		if err != nil {
			return nil, fmt.Errorf("jobs[%d]: %w", i, err)
		}
		ds.Jobs = append(ds.Jobs, j)
	}
	return ds, nil
}

func (pf profileFile) toDomain(now time.Time) *profile.Profile {
	p := &profile.Profile{
		ID:        strings.TrimSpace(pf.ID),
		Name:      domain.Text(pf.Name),
		Headline:  domain.Text(pf.Headline),
		Bio:       domain.Text(pf.Bio),
		Skills:    pf.Skills,
		UpdatedAt: now,
	}
	for _, e := range pf.Experience {
		p.Experience = append(p.Experience, profile.Experience{
			Role:        e.Role,
			Company:     e.Company,
			Duration:    domain.Text(e.Duration),
			Description: domain.Text(e.Description),
		})
	}
	for _, pr := range pf.Projects {
		p.Projects = append(p.Projects, profile.Project{
			Title:        pr.Title,
			Description:  domain.Text(pr.Description),
			Technologies: pr.Technologies,
		})
	}
	for _, ed := range pf.Education {
		p.Education = append(p.Education, profile.Education(ed))
	}
	return p
}

func (jf jobFile) toDomain(now time.Time) (*job.Job, error) {
	status, err := job.ParseStatus(jf.Status)
	if err != nil {
		return nil, err
	}
	j := &job.Job{
		ID:              strings.TrimSpace(jf.ID),
		EmployerID:      jf.EmployerID,
		Title:           jf.Title,
		Description:     jf.Description,
		Skills:          jf.Skills,
		Requirements:    jf.Requirements,
		ExperienceLevel: domain.Text(jf.ExperienceLevel),
		Location:        domain.Text(jf.Location),
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := j.Validate(); err != nil {
		return nil, err
	}
	return j, nil
}
