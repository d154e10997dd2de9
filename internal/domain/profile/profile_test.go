package profile

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/talentmatch/internal/domain"
)

func fullProfile() *Profile {
	return &Profile{
		ID:     "p1",
		Bio:    domain.Text("Backend engineer who likes queues"),
		Skills: []string{"Go", " ", "Redis"},
		Experience: []Experience{{
			Role:        "Engineer",
			Company:     "Acme",
			Duration:    domain.Text("2 years"),
			Description: domain.Text("built billing"),
		}},
		Projects: []Project{{
			Title:        "queue",
			Description:  domain.Text("a job queue"),
			Technologies: []string{"Go", "NATS"},
		}},
		Education: []Education{{Degree: "BSc CS", Institution: "MIT"}},
	}
}

func TestSource_Full(t *testing.T) {
	src := fullProfile().Source()

	if src.Skills != "Key Skills: Go, Redis" {
		t.Errorf("skills = %q", src.Skills)
	}
	if src.Role != "Candidate Bio: Backend engineer who likes queues" {
		t.Errorf("role = %q", src.Role)
	}
	for _, want := range []string{
		"Experience: Engineer at Acme (2 years): built billing",
		"Projects: queue: a job queue. Tech: Go, NATS",
		"Education: BSc CS from MIT",
	} {
		if !strings.Contains(src.Experience, want) {
			t.Errorf("experience %q missing %q", src.Experience, want)
		}
	}
}

func TestSource_RoleFallbacks(t *testing.T) {
	p := fullProfile()
	p.Bio = domain.None[string]()
	p.Headline = domain.Text("Staff engineer")
	if got := p.Source().Role; got != "Candidate Bio: Staff engineer" {
		t.Errorf("headline fallback = %q", got)
	}

	p.Headline = domain.None[string]()
	if got := p.Source().Role; got != "Candidate Bio: Engineer at Acme" {
		t.Errorf("experience fallback = %q", got)
	}

	p.Experience = nil
	if got := p.Source().Role; got != "" {
		t.Errorf("empty fallback = %q", got)
	}
}

func TestSource_Empty(t *testing.T) {
	src := (&Profile{ID: "p"}).Source()
	if src.Skills != "" || src.Experience != "" || src.Role != "" {
		t.Errorf("expected empty source, got %+v", src)
	}
}

func TestSource_ChangesWithText(t *testing.T) {
	p := fullProfile()
	before := p.Source().Hash()
	p.Skills = append(p.Skills, "Kafka")
	if p.Source().Hash() == before {
		t.Error("skills edit must change the source hash")
	}
}

func TestValidate(t *testing.T) {
	if err := (&Profile{}).Validate(); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if err := fullProfile().Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
