package contract

// TableSchema is an ordered field list plus a primary key, foreign keys,
// cross-field rules and semantic descriptors describing one tabular shape.
// Instances are immutable after construction and safe to validate against
// concurrently.
type TableSchema struct {
	fields      []FieldSpec
	index       map[string]int
	primaryKey  []string
	foreignKeys []ForeignKey
	rules       []Rule
	descriptors []Descriptor
	allowExtra  bool
	minRows     int
}

// SchemaOption configures a TableSchema at construction.
type SchemaOption func(*TableSchema)

// WithPrimaryKey declares the fields that uniquely identify a record. Every
// named field must exist and be required.
func WithPrimaryKey(fields ...string) SchemaOption {
	return func(s *TableSchema) { s.primaryKey = append([]string{}, fields...) }
}

// WithForeignKeys declares foreign key relationships.
func WithForeignKeys(keys ...ForeignKey) SchemaOption {
	return func(s *TableSchema) { s.foreignKeys = append(s.foreignKeys, keys...) }
}

// WithRules declares cross-field rules, evaluated in the given order.
func WithRules(rules ...Rule) SchemaOption {
	return func(s *TableSchema) { s.rules = append(s.rules, rules...) }
}

// WithDescriptors attaches semantic field descriptors.
func WithDescriptors(ds ...Descriptor) SchemaOption {
	return func(s *TableSchema) { s.descriptors = append(s.descriptors, ds...) }
}

// WithMinRows requires datasets to carry at least n rows.
func WithMinRows(n int) SchemaOption {
	return func(s *TableSchema) { s.minRows = n }
}

// WithAllowExtra relaxes the closed-by-default contract: record keys not
// declared in the schema are ignored instead of reported.
func WithAllowExtra() SchemaOption {
	return func(s *TableSchema) { s.allowExtra = true }
}

// NewTableSchema builds a schema from an ordered field list. It fails with a
// DefinitionError when two fields share a name, a constraint is incoherent
// for its kind, a primary-key field is missing or not required, or a rule,
// foreign key or descriptor references an undeclared field. Definition
// problems always surface here, never at validation time.
func NewTableSchema(fields []FieldSpec, opts ...SchemaOption) (*TableSchema, error) {
	if len(fields) == 0 {
		return nil, defErr(CodeInvalidConstraint, "", "schema needs at least one field")
	}
	s := &TableSchema{
		fields: make([]FieldSpec, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		nf, err := f.normalize()
		if err != nil {
			return nil, err
		}
		name := nf.FieldName()
		if _, dup := s.index[name]; dup {
			return nil, defErr(CodeDuplicateField, name, "field declared twice")
		}
		s.fields[i] = nf
		s.index[name] = i
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.minRows < 0 {
		return nil, defErr(CodeInvalidConstraint, "", "minRows must be non-negative")
	}
	seenPK := map[string]struct{}{}
	for _, name := range s.primaryKey {
		i, ok := s.index[name]
		if !ok {
			return nil, defErr(CodeInvalidPrimaryKey, name, "primary key references undeclared field")
		}
		if !s.fields[i].IsRequired() {
			return nil, defErr(CodeInvalidPrimaryKey, name, "primary key field must be required")
		}
		if _, dup := seenPK[name]; dup {
			return nil, defErr(CodeInvalidPrimaryKey, name, "primary key names field twice")
		}
		seenPK[name] = struct{}{}
	}
	for _, fk := range s.foreignKeys {
		if err := fk.validate(s.index); err != nil {
			return nil, err
		}
	}
	for _, r := range s.rules {
		if err := validateRule(r, s.index); err != nil {
			return nil, err
		}
	}
	for _, d := range s.descriptors {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, ok := s.index[d.DescribedField()]; !ok {
			return nil, defErr(CodeUnknownFieldReference, d.DescribedField(), "descriptor references undeclared field")
		}
	}
	return s, nil
}

// MustTableSchema is NewTableSchema that panics on definition errors. For
// statically known schemas in tests and package setup.
func MustTableSchema(fields []FieldSpec, opts ...SchemaOption) *TableSchema {
	s, err := NewTableSchema(fields, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the ordered field declarations.
func (s *TableSchema) Fields() []FieldSpec { return append([]FieldSpec{}, s.fields...) }

// Field looks up a field by name.
func (s *TableSchema) Field(name string) (FieldSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.fields[i], true
}

// FieldNames returns all field names in declaration order.
func (s *TableSchema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.FieldName()
	}
	return names
}

// HasFields reports whether every given name is declared.
func (s *TableSchema) HasFields(names ...string) bool {
	for _, name := range names {
		if _, ok := s.index[name]; !ok {
			return false
		}
	}
	return true
}

// PrimaryKey returns the primary key field names, possibly empty.
func (s *TableSchema) PrimaryKey() []string { return append([]string{}, s.primaryKey...) }

// ForeignKeys returns the declared foreign keys.
func (s *TableSchema) ForeignKeys() []ForeignKey { return append([]ForeignKey{}, s.foreignKeys...) }

// Rules returns the cross-field rules in declaration order.
func (s *TableSchema) Rules() []Rule { return append([]Rule{}, s.rules...) }

// Descriptors returns the semantic field descriptors.
func (s *TableSchema) Descriptors() []Descriptor { return append([]Descriptor{}, s.descriptors...) }

// MinRows returns the minimum dataset size, zero when unset.
func (s *TableSchema) MinRows() int { return s.minRows }

// AllowExtra reports whether undeclared record keys are tolerated.
func (s *TableSchema) AllowExtra() bool { return s.allowExtra }

// ValidateRecord checks one record against the schema: each field's own
// checks first (absent values count as missing), then the cross-field rules
// in declaration order under RecordKey. A field that passes its own checks
// can still fail a cross-field rule. The returned report is never nil.
func (s *TableSchema) ValidateRecord(rec Record) Report {
	return s.validateRecord(rec, s.allowExtra)
}

func (s *TableSchema) validateRecord(rec Record, allowExtra bool) Report {
	rep := Report{}
	for _, f := range s.fields {
		rep.Add(f.FieldName(), f.Check(rec[f.FieldName()])...)
	}
	if !allowExtra {
		for key := range rec {
			if _, ok := s.index[key]; !ok {
				rep.Add(key, newViolation(CodeUnknownField, rec[key], map[string]any{"field": key}))
			}
		}
	}
	for _, r := range s.rules {
		rep.Add(RecordKey, r.evaluate(rec)...)
	}
	return rep
}
