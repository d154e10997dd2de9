package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/talentmatch/internal/db"
)

// CreateIndex issues FT.CREATE ... ON JSON for def.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := createArgs(def)
	if err != nil {
		return err
	}
	err = s.do(ctx, s.b().Arbitrary("FT.CREATE").Args(args...).Build()).Error()
	switch {
	case err == nil:
		return nil
	case isRedisErr(err, "index already exists"):
		return db.ErrIndexExists
	default:
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
}

// IndexExists probes FT.INFO. "Unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	err := s.do(ctx, s.b().Arbitrary("FT.INFO").Args(name).Build()).Error()
	switch {
	case err == nil:
		return true, nil
	case isRedisErr(err, "unknown index name"):
		return false, nil
	default:
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
}

func createArgs(def *db.IndexDefinition) ([]string, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	args := []string{def.Name, "ON", "JSON", "PREFIX", "1", def.Prefix, "SCHEMA"}
	for _, f := range def.Fields {
		args = append(args, f.Path, "AS", f.Alias)
		switch f.Kind {
		case db.FieldTag:
			args = append(args, "TAG", "CASESENSITIVE")
		case db.FieldNumeric:
			args = append(args, "NUMERIC")
		case db.FieldVector:
			args = append(args, vectorArgs(f.HNSW)...)
		default:
			return nil, fmt.Errorf("field %s: unsupported kind %s", f.Path, f.Kind)
		}
	}
	return args, nil
}

// vectorArgs renders an HNSW attribute block. The count after HNSW is the
// number of attribute tokens that follow it.
func vectorArgs(p db.HNSW) []string {
	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(p.Dim),
		"DISTANCE_METRIC", "COSINE",
	}
	if p.M > 0 {
		attrs = append(attrs, "M", strconv.Itoa(p.M))
	}
	if p.EFConstruction > 0 {
		attrs = append(attrs, "EF_CONSTRUCTION", strconv.Itoa(p.EFConstruction))
	}
	return append([]string{"VECTOR", "HNSW", strconv.Itoa(len(attrs))}, attrs...)
}
