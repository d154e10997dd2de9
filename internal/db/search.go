package db

import "github.com/kailas-cloud/talentmatch/internal/domain/filter"

// KNNQuery asks the index for the K nearest neighbours of Vector on the
// VectorField attribute. Limit cuts the distance-sorted reply; Limit <= 0
// or Limit > K returns all K.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	Filters      filter.Expression
	Vector       []float32
	K            int
	Limit        int
	EFRuntime    int
	ReturnFields []string
}

// ListQuery is a filtered listing, optionally sorted on a NUMERIC attribute.
type ListQuery struct {
	IndexName    string
	Filters      filter.Expression
	Limit        int
	SortBy       string
	SortDesc     bool
	ReturnFields []string
}

// SearchResult is the reply of a search. Total counts all matches, not
// only the returned entries.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is one matched document. Score is the cosine similarity in
// [0, 1] for KNN queries and zero otherwise.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
