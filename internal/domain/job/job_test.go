package job

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

func publishedJob() *Job {
	return &Job{
		ID:           "j1",
		EmployerID:   "e1",
		Title:        "Backend Engineer",
		Description:  "Build APIs",
		Skills:       []string{"Go", "Postgres"},
		Requirements: []string{"3+ years Go", "SQL"},
		Status:       StatusPublished,
		Vectors: vector.Triple{
			Skills: []float32{1}, Experience: []float32{1}, Role: []float32{1},
		},
	}
}

func TestSource(t *testing.T) {
	src := publishedJob().Source()
	if src.Skills != "Skills: Go, Postgres" {
		t.Errorf("skills = %q", src.Skills)
	}
	if src.Experience != "Requirements: 3+ years Go. SQL" {
		t.Errorf("experience = %q", src.Experience)
	}
	if src.Role != "Job Title: Backend Engineer. Description: Build APIs" {
		t.Errorf("role = %q", src.Role)
	}
}

func TestSource_ExperienceLevelFallback(t *testing.T) {
	j := publishedJob()
	j.Requirements = nil
	j.ExperienceLevel = domain.Text("Senior")
	if got := j.Source().Experience; got != "Experience Level: Senior" {
		t.Errorf("experience = %q", got)
	}
	j.ExperienceLevel = domain.None[string]()
	if got := j.Source().Experience; got != "" {
		t.Errorf("experience = %q, want empty", got)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"", StatusDraft, false},
		{"published", StatusPublished, false},
		{"CLOSED", StatusClosed, false},
		{"archived", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrInvalidStatus) {
				t.Errorf("ParseStatus(%q) err = %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestValidate(t *testing.T) {
	j := publishedJob()
	if err := j.Validate(); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	j.EmployerID = ""
	if err := j.Validate(); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v", err)
	}
	j = publishedJob()
	j.Status = "nope"
	if err := j.Validate(); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("err = %v", err)
	}
}

func TestNeedsEmbedding(t *testing.T) {
	draft := publishedJob()
	draft.Status = StatusDraft
	draft.Vectors = vector.Triple{}

	edited := publishedJob()
	edited.Skills = []string{"Rust"}

	closed := publishedJob()
	closed.Status = StatusClosed

	noVectors := publishedJob()
	noVectors.Vectors = vector.Triple{}

	tests := []struct {
		name       string
		prev, next *Job
		want       bool
	}{
		{"new draft", nil, draft, false},
		{"new published", nil, publishedJob(), true},
		{"draft to published", draft, publishedJob(), true},
		{"published unchanged", publishedJob(), publishedJob(), false},
		{"published text edited", publishedJob(), edited, true},
		{"published to closed", publishedJob(), closed, false},
		{"published without vectors", noVectors, publishedJob(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsEmbedding(tt.prev, tt.next); got != tt.want {
				t.Errorf("NeedsEmbedding = %v, want %v", got, tt.want)
			}
		})
	}
}
