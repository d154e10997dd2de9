// Package scoring turns a pair of vector triples into a match score and reranks
// retrieved candidates by it. It is the only place match scores are computed.
package scoring

import (
	"math"
	"sort"

	"github.com/kailas-cloud/talentmatch/internal/domain/result"
	"github.com/kailas-cloud/talentmatch/internal/domain/similarity"
	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// Signal weights of the overall score.
const (
	WeightSkills     = 0.5
	WeightExperience = 0.3
	WeightRole       = 0.2
)

// Result is a match between one profile and one job. Percentages are integers
// in [0, 100]; Weighted is the unrounded overall value used for ordering.
type Result struct {
	Overall    int
	Skills     int
	Experience int
	Role       int
	Weighted   float64
}

// Breakdown is the per-signal part of Payload.
type Breakdown struct {
	Skills     int `json:"skills"`
	Experience int `json:"experience"`
	Role       int `json:"role"`
}

// Payload is the wire form of a Result.
type Payload struct {
	OverallScore int       `json:"overallScore"`
	Breakdown    Breakdown `json:"breakdown"`
}

// Payload returns the wire form.
func (r Result) Payload() Payload {
	return Payload{
		OverallScore: r.Overall,
		Breakdown:    Breakdown{Skills: r.Skills, Experience: r.Experience, Role: r.Role},
	}
}

// Score compares two triples signal by signal. A missing vector on either side
// or a dimension mismatch contributes 0 for that signal; negative similarity is floored at 0.
func Score(query, candidate vector.Triple) Result {
	skills := signal(query.Skills, candidate.Skills)
	exp := signal(query.Experience, candidate.Experience)
	role := signal(query.Role, candidate.Role)
	overall := WeightSkills*skills + WeightExperience*exp + WeightRole*role

	return Result{
		Overall:    percent(overall),
		Skills:     percent(skills),
		Experience: percent(exp),
		Role:       percent(role),
		Weighted:   overall,
	}
}

func signal(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	c, err := similarity.Cosine(a, b)
	if err != nil {
		return 0
	}
	return max(0, c)
}

func percent(x float64) int {
	return int(math.Round(x * 100))
}

// Ranked is a reranked candidate.
type Ranked[T any] struct {
	Entity T
	Recall float64
	Match  Result
}

// Rerank scores each candidate against query and orders them by weighted score,
// highest first. The sort is stable, so ties keep retrieval order.
func Rerank[T any](query vector.Triple, pool []result.Candidate[T], vectors func(T) vector.Triple) []Ranked[T] {
	out := make([]Ranked[T], len(pool))
	for i, c := range pool {
		out[i] = Ranked[T]{Entity: c.Entity, Recall: c.Score, Match: Score(query, vectors(c.Entity))}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Match.Weighted > out[j].Match.Weighted
	})
	return out
}

// Top returns at most n leading elements.
func Top[T any](ranked []Ranked[T], n int) []Ranked[T] {
	if n >= 0 && len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}
