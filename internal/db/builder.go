package db

// IndexBuilder assembles an IndexDefinition field by field.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts a definition for documents stored under prefix.
func NewIndex(name, prefix string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name, Prefix: prefix}}
}

// Tag indexes path as a case-sensitive TAG. Identifiers and status enums
// are stored verbatim, so folding would only cause false matches.
func (b *IndexBuilder) Tag(path, alias string) *IndexBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Kind: FieldTag})
}

// Numeric indexes path as a NUMERIC attribute.
func (b *IndexBuilder) Numeric(path, alias string) *IndexBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Kind: FieldNumeric})
}

// Vector indexes path as an HNSW vector attribute.
func (b *IndexBuilder) Vector(path, alias string, p HNSW) *IndexBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Kind: FieldVector, HNSW: p})
}

func (b *IndexBuilder) add(f IndexField) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Build validates and returns a copy of the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	def.Fields = append([]IndexField(nil), b.def.Fields...)
	return &def, nil
}
