package redis

import (
	"context"
	"errors"
	"slices"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/talentmatch/internal/db"
	"github.com/kailas-cloud/talentmatch/internal/domain/filter"
)

const defaultListLimit = 10

// SearchKNN runs a hybrid FT.SEARCH: the pre-filter narrows the candidates,
// then HNSW ranks K neighbours by COSINE distance.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	switch {
	case q.IndexName == "":
		return nil, errors.New("index name is required")
	case q.VectorField == "":
		return nil, errors.New("vector field is required")
	case len(q.Vector) == 0:
		return nil, errors.New("vector is required")
	case q.K <= 0:
		return nil, errors.New("k must be positive")
	}

	limit := q.Limit
	if limit <= 0 || limit > q.K {
		limit = q.K
	}

	params := []string{"BLOB", rueidis.VectorString32(q.Vector)}
	if q.EFRuntime > 0 {
		params = append(params, "EF", strconv.Itoa(q.EFRuntime))
	}

	args := []string{q.IndexName, knnQuery(q.Filters, q.K, q.VectorField, q.EFRuntime > 0)}
	if len(q.ReturnFields) > 0 {
		fields := q.ReturnFields
		if !slices.Contains(fields, scoreField) {
			fields = append(slices.Clone(fields), scoreField)
		}
		args = append(args, "RETURN", strconv.Itoa(len(fields)))
		args = append(args, fields...)
	}
	args = append(args, "SORTBY", scoreField, "ASC", "LIMIT", "0", strconv.Itoa(limit))
	args = append(args, "PARAMS", strconv.Itoa(len(params)))
	args = append(args, params...)

	raw, err := s.ftSearch(ctx, args)
	if err != nil {
		return nil, err
	}
	return parseKNNReply(raw)
}

// SearchList returns up to q.Limit matches of the pre-filter.
func (s *Store) SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, errors.New("index name is required")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	args := []string{q.IndexName, filterQuery(q.Filters)}
	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}
	if q.SortBy != "" {
		order := "ASC"
		if q.SortDesc {
			order = "DESC"
		}
		args = append(args, "SORTBY", q.SortBy, order)
	}
	args = append(args, "LIMIT", "0", strconv.Itoa(limit))

	raw, err := s.ftSearch(ctx, args)
	if err != nil {
		return nil, err
	}
	return parseReply(raw)
}

// SearchCount counts the matches of filters without fetching documents.
func (s *Store) SearchCount(ctx context.Context, index string, filters filter.Expression) (int, error) {
	raw, err := s.ftSearch(ctx, []string{index, filterQuery(filters), "LIMIT", "0", "0"})
	if err != nil {
		return 0, err
	}
	return parseTotal(raw)
}

// ftSearch sends FT.SEARCH with DIALECT 2, which PARAMS and the KNN
// syntax require.
func (s *Store) ftSearch(ctx context.Context, args []string) ([]rueidis.RedisMessage, error) {
	args = append(args, "DIALECT", "2")
	raw, err := s.do(ctx, s.b().Arbitrary("FT.SEARCH").Args(args...).Build()).ToArray()
	switch {
	case err == nil:
		return raw, nil
	case isRedisErr(err, "no such index"), isRedisErr(err, "unknown index name"):
		return nil, db.ErrIndexNotFound
	default:
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
}
