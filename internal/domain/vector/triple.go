// Package vector holds the vector triple that describes a profile or a job
// and the source texts it is derived from.
package vector

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/kailas-cloud/talentmatch/internal/domain"
)

// Kind names one of the three signals of a triple.
type Kind string

const (
	// Skills is the skills list signal.
	Skills Kind = "skills"
	// Experience is the experience or requirements signal.
	Experience Kind = "experience"
	// Role is the bio or job description signal.
	Role Kind = "role"
)

// Kinds lists the signals in triple order.
var Kinds = [3]Kind{Skills, Experience, Role}

// Triple is the set of embeddings jointly describing one entity.
// It is either complete (three non-empty vectors of equal length) or treated as absent.
type Triple struct {
	Skills     []float32
	Experience []float32
	Role       []float32
}

// Get returns the vector for k.
func (t Triple) Get(k Kind) []float32 {
	switch k {
	case Skills:
		return t.Skills
	case Experience:
		return t.Experience
	case Role:
		return t.Role
	}
	return nil
}

// With returns a copy of t with the vector for k replaced.
func (t Triple) With(k Kind, v []float32) Triple {
	switch k {
	case Skills:
		t.Skills = v
	case Experience:
		t.Experience = v
	case Role:
		t.Role = v
	}
	return t
}

// IsEmpty reports whether no vector is present.
func (t Triple) IsEmpty() bool {
	return len(t.Skills) == 0 && len(t.Experience) == 0 && len(t.Role) == 0
}

// Complete reports whether all three vectors are present with a common dimension.
func (t Triple) Complete() bool {
	return t.Validate() == nil
}

// Dim returns the common dimension of a complete triple, 0 otherwise.
func (t Triple) Dim() int {
	if !t.Complete() {
		return 0
	}
	return len(t.Skills)
}

// Validate returns ErrIncompleteTriple when any vector is missing and
// ErrDimensionMismatch when the vectors disagree on length.
func (t Triple) Validate() error {
	if len(t.Skills) == 0 || len(t.Experience) == 0 || len(t.Role) == 0 {
		return domain.ErrIncompleteTriple
	}
	if len(t.Experience) != len(t.Skills) || len(t.Role) != len(t.Skills) {
		return fmt.Errorf("%w: skills=%d experience=%d role=%d",
			domain.ErrDimensionMismatch, len(t.Skills), len(t.Experience), len(t.Role))
	}
	return nil
}

// Usable returns t when complete and the zero Triple otherwise, so that
// partially stored vectors are never mistaken for a triple.
func (t Triple) Usable() Triple {
	if !t.Complete() {
		return Triple{}
	}
	return t
}

// Source is the labeled text each vector of a triple is generated from.
type Source struct {
	Skills     string
	Experience string
	Role       string
}

// Get returns the text for k.
func (s Source) Get(k Kind) string {
	switch k {
	case Skills:
		return s.Skills
	case Experience:
		return s.Experience
	case Role:
		return s.Role
	}
	return ""
}

// Hash is a stable content digest of the three texts.
// Two sources with the same hash produce the same triple.
func (s Source) Hash() string {
	h := sha256.New()
	for _, k := range Kinds {
		text := s.Get(k)
		fmt.Fprintf(h, "%s:%d:%s\n", k, len(text), text)
	}
	return hex.EncodeToString(h.Sum(nil))
}
