package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/talentmatch/internal/db"
	"github.com/kailas-cloud/talentmatch/internal/domain"
	"github.com/kailas-cloud/talentmatch/internal/domain/filter"
	"github.com/kailas-cloud/talentmatch/internal/domain/result"
)

type item struct {
	ID string `json:"id"`
}

func decodeItem(raw []byte) (item, error) {
	var it item
	err := json.Unmarshal(raw, &it)
	return it, err
}

type mockSearcher struct {
	fn    func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	query *db.KNNQuery
}

func (m *mockSearcher) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.query = q
	if m.fn != nil {
		return m.fn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func entries(ids ...string) *db.SearchResult {
	res := &db.SearchResult{Total: len(ids)}
	for i, id := range ids {
		res.Entries = append(res.Entries, db.SearchEntry{
			Key:    "tm:job:" + id,
			Score:  1 - float64(i)*0.1,
			Fields: map[string]string{"$": `{"id":"` + id + `"}`},
		})
	}
	return res
}

func newCollection(s searcher) *Collection[item] {
	return NewCollection[item](s, "jobs", "tm:job_idx", "skills_vector", decodeItem, zap.NewNop())
}

func TestRetrieve_Defaults(t *testing.T) {
	s := &mockSearcher{fn: func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
		return entries("a", "b"), nil
	}}
	published, _ := filter.Equal("status", "PUBLISHED")

	got, err := newCollection(s).Retrieve(context.Background(), Query{Vector: []float32{1}, Filter: published})
	if err != nil {
		t.Fatal(err)
	}
	if s.query.K != DefaultRecall || s.query.Limit != DefaultLimit {
		t.Errorf("K=%d Limit=%d", s.query.K, s.query.Limit)
	}
	if s.query.VectorField != "skills_vector" || s.query.IndexName != "tm:job_idx" {
		t.Errorf("query = %+v", s.query)
	}
	if s.query.Filters.Must()[0].Match() != "PUBLISHED" {
		t.Error("pre-filter not forwarded")
	}
	if len(got) != 2 || got[0].Entity.ID != "a" || got[0].Score != 1 {
		t.Errorf("got = %+v", got)
	}
}

func TestRetrieve_NeverExceedsLimit(t *testing.T) {
	s := &mockSearcher{fn: func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
		return entries("a", "b", "c", "d"), nil
	}}
	got, err := newCollection(s).Retrieve(context.Background(), Query{Vector: []float32{1}, Recall: 4, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d", len(got))
	}
}

func TestRetrieve_LimitAboveRecall(t *testing.T) {
	_, err := newCollection(&mockSearcher{}).Retrieve(context.Background(),
		Query{Vector: []float32{1}, Recall: 10, Limit: 20})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

func TestRetrieve_SmallRecallDefaultsLimit(t *testing.T) {
	s := &mockSearcher{}
	if _, err := newCollection(s).Retrieve(context.Background(), Query{Vector: []float32{1}, Recall: 20}); err != nil {
		t.Fatal(err)
	}
	if s.query.Limit != 20 {
		t.Errorf("limit = %d, want 20", s.query.Limit)
	}
}

func TestRetrieve_StoreErrors(t *testing.T) {
	for _, storeErr := range []error{db.ErrIndexNotFound, &db.Error{Op: db.OpSearch, Err: errors.New("down")}} {
		s := &mockSearcher{fn: func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
			return nil, storeErr
		}}
		_, err := newCollection(s).Retrieve(context.Background(), Query{Vector: []float32{1}})
		if !errors.Is(err, domain.ErrRetrievalUnavailable) {
			t.Errorf("store err %v -> %v", storeErr, err)
		}
	}
}

func TestRetrieve_SkipsUndecodable(t *testing.T) {
	s := &mockSearcher{fn: func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
		res := entries("a", "b")
		res.Entries[0].Fields["$"] = "{"
		return res, nil
	}}
	got, err := newCollection(s).Retrieve(context.Background(), Query{Vector: []float32{1}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Entity.ID != "b" {
		t.Errorf("got = %+v", got)
	}
}

func TestRetrieve_EmptyVector(t *testing.T) {
	if _, err := newCollection(&mockSearcher{}).Retrieve(context.Background(), Query{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

func TestExclude(t *testing.T) {
	pool := []result.Candidate[item]{{Entity: item{"a"}}, {Entity: item{"b"}}, {Entity: item{"c"}}}
	id := func(it item) string { return it.ID }

	got := Exclude(pool, id, map[string]struct{}{"b": {}})
	if len(got) != 2 || got[0].Entity.ID != "a" || got[1].Entity.ID != "c" {
		t.Errorf("got = %+v", got)
	}
	if len(pool) != 3 || pool[1].Entity.ID != "b" {
		t.Error("input pool mutated")
	}
	if got := Exclude(pool, id, nil); len(got) != 3 {
		t.Errorf("nil skip set: %d", len(got))
	}
}
