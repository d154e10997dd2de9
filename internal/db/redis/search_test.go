package redis

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/talentmatch/internal/db"
	"github.com/kailas-cloud/talentmatch/internal/domain/filter"
)

func TestSearchKNN_RecallAndLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var got []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			got = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("tm:job:j1"),
			mock.RedisArray(
				mock.RedisString("__vector_score"), mock.RedisString("0.1"),
				mock.RedisString("$"), mock.RedisString(`{"id":"j1"}`),
			),
			mock.RedisString("tm:job:j2"),
			mock.RedisArray(
				mock.RedisString("__vector_score"), mock.RedisString("1.4"),
				mock.RedisString("$"), mock.RedisString(`{"id":"j2"}`),
			),
		)))

	published, _ := filter.NewMatch("status", "PUBLISHED")
	expr, _ := filter.Where(published)

	s := NewStoreForTest(c)
	res, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName:    "tm:job:idx",
		VectorField:  "skills_vector",
		Filters:      expr,
		Vector:       []float32{1, 0},
		K:            100,
		Limit:        50,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got[2] != "(@status:{PUBLISHED})=>[KNN 100 @skills_vector $BLOB AS __vector_score]" {
		t.Errorf("query = %q", got[2])
	}
	joined := strings.Join(got, " ")
	for _, want := range []string{"RETURN 2 $ __vector_score", "SORTBY __vector_score ASC", "LIMIT 0 50", "DIALECT 2"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q", want)
		}
	}

	if len(res.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(res.Entries))
	}
	if s := res.Entries[0].Score; s < 0.89 || s > 0.91 {
		t.Errorf("score[0] = %f, want ~0.9", s)
	}
	if res.Entries[1].Score != 0 {
		t.Errorf("score[1] = %f, want clamped 0", res.Entries[1].Score)
	}
	if _, ok := res.Entries[0].Fields["__vector_score"]; ok {
		t.Error("score field should be stripped from fields")
	}
	if res.Entries[0].Fields["$"] != `{"id":"j1"}` {
		t.Errorf("doc = %q", res.Entries[0].Fields["$"])
	}
}

func TestSearchKNN_EFRuntime(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var got []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			got = cmd
			return true
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "idx", VectorField: "skills_vector", Vector: []float32{1}, K: 10, EFRuntime: 200,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got[2], "EF_RUNTIME $EF") || !strings.HasPrefix(got[2], "*=>") {
		t.Errorf("query = %q", got[2])
	}
	i := slices.Index(got, "PARAMS")
	if i < 0 || got[i+1] != "4" {
		t.Errorf("PARAMS count wrong in %v", got)
	}
	if !slices.Contains(got, "LIMIT") || got[slices.Index(got, "LIMIT")+2] != "10" {
		t.Errorf("limit should default to K: %v", got)
	}
}

func TestSearchKNN_IndexMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisError("tm:job:idx: no such index")))

	s := NewStoreForTest(c)
	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "tm:job:idx", VectorField: "skills_vector", Vector: []float32{1}, K: 1,
	})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestSearchKNN_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	tests := []struct {
		name string
		q    db.KNNQuery
	}{
		{"no index", db.KNNQuery{VectorField: "v", Vector: []float32{0.1}, K: 10}},
		{"no field", db.KNNQuery{IndexName: "idx", Vector: []float32{0.1}, K: 10}},
		{"no vector", db.KNNQuery{IndexName: "idx", VectorField: "v", K: 10}},
		{"zero k", db.KNNQuery{IndexName: "idx", VectorField: "v", Vector: []float32{1}}},
	}
	for _, tc := range tests {
		if _, err := s.SearchKNN(ctx, &tc.q); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestSearchList_SortedFiltered(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var got []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			got = cmd
			return true
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("tm:application:a1"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"id":"a1"}`)),
			mock.RedisString("tm:application:a2"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"id":"a2"}`)),
		)))

	byEmployer, _ := filter.NewMatch("employer_id", "e-1")
	expr, _ := filter.Where(byEmployer)

	s := NewStoreForTest(c)
	res, err := s.SearchList(context.Background(), &db.ListQuery{
		IndexName:    "tm:application:idx",
		Filters:      expr,
		Limit:        5,
		SortBy:       "applied_at",
		SortDesc:     true,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 || len(res.Entries) != 2 {
		t.Fatalf("result = %+v", res)
	}

	joined := strings.Join(got, " ")
	for _, want := range []string{`@employer_id:{e\-1}`, "SORTBY applied_at DESC", "LIMIT 0 5"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
}

func TestSearchCount_Filtered(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx", "@status:{INTERVIEW}", "LIMIT", "0", "0", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(42))))

	interview, _ := filter.NewMatch("status", "INTERVIEW")
	expr, _ := filter.Where(interview)

	s := NewStoreForTest(c)
	count, err := s.SearchCount(context.Background(), "idx", expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 42 {
		t.Errorf("expected 42, got %d", count)
	}
}

func TestSearchCount_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx", "*", "LIMIT", "0", "0", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray()))

	s := NewStoreForTest(c)
	count, err := s.SearchCount(context.Background(), "idx", filter.Expression{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0, got %d", count)
	}
}

// --- filter building tests ---

func TestBuildFilter(t *testing.T) {
	status, _ := filter.NewMatch("status", "PUBLISHED")
	owner, _ := filter.NewMatch("employer_id", "acme.io")
	since, _ := filter.NewRange("applied_at", filter.AtLeast(1700000000))
	lt := 20.0
	bounded, _ := filter.NewRangeFilter(nil, &lt)
	upTo, _ := filter.NewRange("score", bounded)

	tests := []struct {
		name    string
		must    []filter.Condition
		mustNot []filter.Condition
		want    string
	}{
		{"empty", nil, nil, ""},
		{"tag", []filter.Condition{status}, nil, "@status:{PUBLISHED}"},
		{"escaped tag", []filter.Condition{owner}, nil, `@employer_id:{acme\.io}`},
		{"lower bound", []filter.Condition{since}, nil, "@applied_at:[1700000000 +inf]"},
		{"upper exclusive", []filter.Condition{upTo}, nil, "@score:[-inf (20]"},
		{"negated", []filter.Condition{status}, []filter.Condition{owner}, `@status:{PUBLISHED} -@employer_id:{acme\.io}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := filter.NewExpression(tc.must, tc.mustNot)
			if err != nil {
				t.Fatalf("NewExpression: %v", err)
			}
			if got := buildFilter(expr); got != tc.want {
				t.Errorf("buildFilter = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSearchCount_IndexMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	if _, err := s.SearchCount(context.Background(), "idx", filter.Expression{}); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestSearchList_DefaultLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx", "*", "LIMIT", "0", "10", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	res, err := s.SearchList(context.Background(), &db.ListQuery{IndexName: "idx"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Entries) != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestEscapeTag(t *testing.T) {
	tests := map[string]string{
		"PUBLISHED":  "PUBLISHED",
		"a_b":        "a_b",
		"e-1":        `e\-1`,
		"x y":        `x\ y`,
		"résumé":     "résumé",
		"acme.io/hr": `acme\.io\/hr`,
	}
	for in, want := range tests {
		if got := escapeTag(in); got != want {
			t.Errorf("escapeTag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKNNQuery_Blob(t *testing.T) {
	blob := rueidis.VectorString32([]float32{1.0, 2.0})
	if len(blob) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(blob))
	}
	if got := rueidis.ToVector32(blob); got[0] != 1 || got[1] != 2 {
		t.Errorf("round trip = %v", got)
	}
}
