package db

import (
	"strings"
	"testing"
)

func build(t *testing.T, b *IndexBuilder) *IndexDefinition {
	t.Helper()
	def, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return def
}

func TestIndexBuilder_JobIndex(t *testing.T) {
	idx := build(t, NewIndex("tm:job_idx", "tm:job:").
		Tag("$.status", "status").
		Tag("$.employer_id", "employer_id").
		Vector("$.vectors.skills", "skills_vector", HNSW{Dim: 768, M: 16, EFConstruction: 200}))

	if idx.Prefix != "tm:job:" || len(idx.Fields) != 3 {
		t.Fatalf("definition = %+v", idx)
	}
	if f := idx.Fields[0]; f.Alias != "status" || f.Kind != FieldTag {
		t.Errorf("field[0] = %+v, want status TAG", f)
	}

	vf, ok := idx.VectorField()
	if !ok {
		t.Fatal("expected vector field")
	}
	if vf.Alias != "skills_vector" || vf.HNSW != (HNSW{Dim: 768, M: 16, EFConstruction: 200}) {
		t.Errorf("vector field = %+v", vf)
	}
}

func TestIndexBuilder_NoVector(t *testing.T) {
	idx := build(t, NewIndex("tm:application_idx", "tm:application:").
		Tag("$.job_id", "job_id").
		Numeric("$.applied_at", "applied_at"))

	if f := idx.Fields[1]; f.Kind != FieldNumeric || f.Path != "$.applied_at" {
		t.Errorf("field[1] = %+v, want applied_at NUMERIC", f)
	}
	if _, ok := idx.VectorField(); ok {
		t.Error("expected no vector field")
	}
}

func TestIndexBuilder_BuildCopies(t *testing.T) {
	b := NewIndex("a", "a:").Tag("$.x", "x")
	first := build(t, b)
	b.Tag("$.y", "y")
	if len(first.Fields) != 1 {
		t.Errorf("earlier definition mutated: %+v", first.Fields)
	}
}

func TestIndexBuilder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		builder *IndexBuilder
		wantErr string
	}{
		{"empty name", NewIndex("", "p:").Tag("$.a", "a"), "index name is required"},
		{"invalid name", NewIndex("bad name!", "p:").Tag("$.a", "a"), "invalid characters"},
		{"no prefix", NewIndex("ok", "").Tag("$.a", "a"), "key prefix is required"},
		{"no fields", NewIndex("ok", "p:"), "at least one field"},
		{"missing path", NewIndex("ok", "p:").Tag("", "a"), "path is required"},
		{"missing alias", NewIndex("ok", "p:").Tag("$.status", ""), "requires an alias"},
		{"duplicate alias", NewIndex("ok", "p:").Tag("$.a", "x").Numeric("$.b", "x"), "duplicate attribute"},
		{"zero dim", NewIndex("ok", "p:").Vector("$.v", "v", HNSW{}), "positive dimension"},
		{"unknown kind", &IndexBuilder{def: IndexDefinition{
			Name: "ok", Prefix: "p:", Fields: []IndexField{{Path: "$.a", Alias: "a"}},
		}}, "unknown kind FieldKind(0)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.builder.Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"tm:job_idx", true},
		{"a_b-c", true},
		{"", false},
		{"has space", false},
		{"dot.name", false},
	}
	for _, tc := range tests {
		if got := IsValidIdentifier(tc.in); got != tc.want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
