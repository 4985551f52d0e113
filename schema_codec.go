package contract

import (
	"github.com/tablecraft/contract/codec"
)

// EncodeSchema renders a schema in the external interchange form. Field
// declaration order is preserved exactly; the external format is
// order-sensitive for some consumers.
func EncodeSchema(s *TableSchema) *codec.Document {
	doc := &codec.Document{
		PrimaryKey: codec.StringList(s.PrimaryKey()),
		MinRows:    s.minRows,
		AllowExtra: s.allowExtra,
	}
	for _, f := range s.fields {
		doc.Fields = append(doc.Fields, f.document())
	}
	for _, fk := range s.foreignKeys {
		doc.ForeignKeys = append(doc.ForeignKeys, codec.ForeignKey{
			Fields: codec.StringList(fk.Fields),
			Reference: codec.Reference{
				Resource: fk.Reference.Resource,
				Fields:   codec.StringList(fk.Reference.Fields),
			},
		})
	}
	for _, r := range s.rules {
		doc.Rules = append(doc.Rules, r.ruleDoc())
	}
	for _, d := range s.descriptors {
		doc.FieldDescriptors = append(doc.FieldDescriptors, d.descriptorDoc())
	}
	return doc
}

// EncodeContract renders a contract in the external interchange form.
func EncodeContract(c *Contract) *codec.ContractDocument {
	doc := &codec.ContractDocument{
		Name:        c.name,
		Version:     c.version,
		Title:       c.title,
		Description: c.description,
		Tags:        c.Tags(),
	}
	for _, ns := range c.schemas {
		doc.Schemas = append(doc.Schemas, codec.NamedDocument{
			Name:     ns.Name,
			Document: *EncodeSchema(ns.Schema),
		})
	}
	return doc
}

// DecodeSchema builds a TableSchema from an external document. Every failure
// is a codec.DecodeError carrying a JSON Pointer into the document; decoding
// is total over syntactically valid documents.
func DecodeSchema(doc *codec.Document) (*TableSchema, error) {
	return decodeSchema(doc, codec.Root())
}

func decodeSchema(doc *codec.Document, root codec.PathRef) (*TableSchema, error) {
	if doc == nil || len(doc.Fields) == 0 {
		return nil, root.Field("fields").Errorf(codec.CodeMissingKey, "document declares no fields")
	}
	fields := make([]FieldSpec, len(doc.Fields))
	declared := map[string]int{}
	for i, fd := range doc.Fields {
		f, err := decodeField(fd, root.Field("fields").Index(i))
		if err != nil {
			return nil, err
		}
		fields[i] = f
		declared[fd.Name] = i
	}

	requiredAt := func(name string) bool {
		fd := doc.Fields[declared[name]]
		return fd.Constraints != nil && fd.Constraints.Required
	}
	for i, name := range doc.PrimaryKey {
		p := root.Field("primaryKey").Index(i)
		if _, ok := declared[name]; !ok {
			return nil, p.Errorf(codec.CodeBadReference, "primary key references undeclared field %q", name)
		}
		if !requiredAt(name) {
			return nil, p.Errorf(codec.CodeBadReference, "primary key field %q must be required", name)
		}
	}

	var fks []ForeignKey
	for i, fkd := range doc.ForeignKeys {
		p := root.Field("foreignKeys").Index(i)
		if len(fkd.Fields) == 0 {
			return nil, p.Field("fields").Errorf(codec.CodeMissingKey, "foreign key declares no fields")
		}
		if len(fkd.Fields) != len(fkd.Reference.Fields) {
			return nil, p.Errorf(codec.CodeBadReference, "foreign key has %d fields but references %d",
				len(fkd.Fields), len(fkd.Reference.Fields))
		}
		for j, name := range fkd.Fields {
			if _, ok := declared[name]; !ok {
				return nil, p.Field("fields").Index(j).Errorf(codec.CodeBadReference,
					"foreign key references undeclared field %q", name)
			}
		}
		if fkd.Reference.Resource == "" {
			for j, name := range fkd.Reference.Fields {
				if _, ok := declared[name]; !ok {
					return nil, p.Field("reference").Field("fields").Index(j).Errorf(codec.CodeBadReference,
						"self-referencing foreign key targets undeclared field %q", name)
				}
			}
		}
		fks = append(fks, ForeignKey{
			Fields: append([]string{}, fkd.Fields...),
			Reference: Reference{
				Resource: fkd.Reference.Resource,
				Fields:   append([]string{}, fkd.Reference.Fields...),
			},
		})
	}

	var rules []Rule
	for i, rd := range doc.Rules {
		p := root.Field("rules").Index(i)
		r, err := decodeRule(rd, p, declared)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	var descriptors []Descriptor
	for i, dd := range doc.FieldDescriptors {
		p := root.Field("fieldDescriptors").Index(i)
		d, err := decodeDescriptor(dd, p, declared)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}

	if doc.MinRows < 0 {
		return nil, root.Field("minRows").Errorf(codec.CodeBadConstraint, "minRows must be non-negative")
	}

	opts := []SchemaOption{
		WithForeignKeys(fks...),
		WithRules(rules...),
		WithDescriptors(descriptors...),
		WithMinRows(doc.MinRows),
	}
	if len(doc.PrimaryKey) > 0 {
		opts = append(opts, WithPrimaryKey(doc.PrimaryKey...))
	}
	if doc.AllowExtra {
		opts = append(opts, WithAllowExtra())
	}
	s, err := NewTableSchema(fields, opts...)
	if err != nil {
		// References were prechecked with precise paths; anything left is a
		// constraint problem inside a field declaration.
		if de, ok := AsDefinitionError(err); ok {
			p := root.Field("fields")
			if i, known := declared[de.Field]; known {
				p = p.Index(i)
			}
			return nil, p.Errorf(codec.CodeBadConstraint, "%s", de.Message)
		}
		return nil, root.Errorf(codec.CodeBadConstraint, "%s", err.Error())
	}
	return s, nil
}

// DecodeContract builds a Contract from an external contract document.
func DecodeContract(doc *codec.ContractDocument) (*Contract, error) {
	root := codec.Root()
	if doc == nil || doc.Name == "" {
		return nil, root.Field("name").Errorf(codec.CodeMissingKey, "contract name is required")
	}
	if doc.Version == "" {
		return nil, root.Field("version").Errorf(codec.CodeMissingKey, "contract version is required")
	}
	if len(doc.Schemas) == 0 {
		return nil, root.Field("schemas").Errorf(codec.CodeMissingKey, "contract declares no schemas")
	}
	schemas := make([]NamedSchema, len(doc.Schemas))
	for i, nd := range doc.Schemas {
		p := root.Field("schemas").Index(i)
		if nd.Name == "" {
			return nil, p.Field("name").Errorf(codec.CodeMissingKey, "schema name is required")
		}
		s, err := decodeSchema(&nd.Document, p)
		if err != nil {
			return nil, err
		}
		schemas[i] = NamedSchema{Name: nd.Name, Schema: s}
	}
	c, err := NewContract(doc.Name, doc.Version, schemas,
		WithTitle(doc.Title),
		WithDescription(doc.Description),
		WithContractTags(doc.Tags...),
	)
	if err != nil {
		if de, ok := AsDefinitionError(err); ok {
			return nil, root.Errorf(codec.CodeBadReference, "%s", de.Message)
		}
		return nil, root.Errorf(codec.CodeBadReference, "%s", err.Error())
	}
	return c, nil
}

func codecParseContract(b []byte, isYAML bool) (*codec.ContractDocument, error) {
	if isYAML {
		return codec.ParseContractDocumentYAML(b)
	}
	return codec.ParseContractDocument(b)
}

// ---- field decoding ----

// constraint applicability per kind, by internal identifier.
var allowedConstraints = map[Kind][]string{
	KindString:   {"enum", "pattern", "min_length", "max_length"},
	KindInteger:  {"enum", "minimum", "maximum", "exclusive_minimum", "exclusive_maximum"},
	KindNumber:   {"enum", "minimum", "maximum", "exclusive_minimum", "exclusive_maximum"},
	KindBool:     {},
	KindDate:     {"minimum", "maximum"},
	KindDatetime: {"minimum", "maximum"},
	KindEnum:     {"enum"},
	KindArray:    {"min_items", "max_items"},
	KindObject:   {},
}

// setConstraintKeys lists the internal identifiers of every constraint
// present in the document, requiredness excluded (it applies to all kinds).
func setConstraintKeys(c *codec.Constraints) []string {
	if c == nil {
		return nil
	}
	var keys []string
	if len(c.Enum) > 0 {
		keys = append(keys, "enum")
	}
	if c.Pattern != "" {
		keys = append(keys, "pattern")
	}
	if c.MinLength != nil {
		keys = append(keys, "min_length")
	}
	if c.MaxLength != nil {
		keys = append(keys, "max_length")
	}
	if c.Minimum != nil {
		keys = append(keys, "minimum")
	}
	if c.Maximum != nil {
		keys = append(keys, "maximum")
	}
	if c.ExclusiveMinimum {
		keys = append(keys, "exclusive_minimum")
	}
	if c.ExclusiveMaximum {
		keys = append(keys, "exclusive_maximum")
	}
	if c.MinItems != nil {
		keys = append(keys, "min_items")
	}
	if c.MaxItems != nil {
		keys = append(keys, "max_items")
	}
	return keys
}

func checkApplicable(fd codec.Field, kind Kind, p codec.PathRef) error {
	allowed := map[string]struct{}{}
	for _, k := range allowedConstraints[kind] {
		allowed[k] = struct{}{}
	}
	for _, k := range setConstraintKeys(fd.Constraints) {
		if _, ok := allowed[k]; !ok {
			return p.Field("constraints").Field(codec.ExternalKey(k)).Errorf(codec.CodeBadConstraint,
				"constraint %s is not applicable to %s fields", codec.ExternalKey(k), fd.Type)
		}
	}
	if fd.Format != "" && kind != KindDate && kind != KindDatetime {
		return p.Field("format").Errorf(codec.CodeBadConstraint, "format applies to date and datetime fields only")
	}
	if fd.ItemType != "" && kind != KindArray {
		return p.Field("itemType").Errorf(codec.CodeBadConstraint, "itemType applies to array fields only")
	}
	if len(fd.Fields) > 0 && kind != KindObject {
		return p.Field("fields").Errorf(codec.CodeBadConstraint, "nested fields apply to object fields only")
	}
	if len(fd.Labels) > 0 && kind != KindEnum {
		return p.Field("labels").Errorf(codec.CodeBadConstraint, "labels apply to enum fields only")
	}
	return nil
}

func decodeField(fd codec.Field, p codec.PathRef) (FieldSpec, error) {
	if fd.Name == "" {
		return nil, p.Field("name").Errorf(codec.CodeMissingKey, "field name is required")
	}
	if fd.Type == "" {
		return nil, p.Field("type").Errorf(codec.CodeMissingKey, "field type is required")
	}
	kind := Kind(fd.Type)
	switch kind {
	case KindString, KindInteger, KindNumber, KindBool, KindDate, KindDatetime, KindEnum, KindArray, KindObject:
	default:
		return nil, p.Field("type").Errorf(codec.CodeUnknownKind, "unknown field kind %q", fd.Type)
	}
	if err := checkApplicable(fd, kind, p); err != nil {
		return nil, err
	}
	c := fd.Constraints
	required := c != nil && c.Required

	switch kind {
	case KindString:
		f := StringField{Name: fd.Name, Title: fd.Title, Description: fd.Description}
		f.Constraints.Required = required
		if c != nil {
			f.Constraints.MinLength = c.MinLength
			f.Constraints.MaxLength = c.MaxLength
			f.Constraints.Pattern = c.Pattern
			enum, err := decodeStringEnum(c.Enum, p)
			if err != nil {
				return nil, err
			}
			f.Constraints.Enum = enum
		}
		return f, nil

	case KindInteger:
		f := IntegerField{Name: fd.Name, Title: fd.Title, Description: fd.Description}
		f.Constraints.Required = required
		if c != nil {
			var err error
			if f.Constraints.Minimum, err = decodeIntBound(c.Minimum, p, "minimum"); err != nil {
				return nil, err
			}
			if f.Constraints.Maximum, err = decodeIntBound(c.Maximum, p, "maximum"); err != nil {
				return nil, err
			}
			f.Constraints.ExclusiveMinimum = c.ExclusiveMinimum
			f.Constraints.ExclusiveMaximum = c.ExclusiveMaximum
			for i, e := range c.Enum {
				n, ok := asInt(e)
				if !ok {
					return nil, p.Field("constraints").Field("enum").Index(i).Errorf(codec.CodeBadConstraint,
						"enum value %v is not an integer", e)
				}
				f.Constraints.Enum = append(f.Constraints.Enum, n)
			}
		}
		return f, nil

	case KindNumber:
		f := NumberField{Name: fd.Name, Title: fd.Title, Description: fd.Description}
		f.Constraints.Required = required
		if c != nil {
			var err error
			if f.Constraints.Minimum, err = decodeFloatBound(c.Minimum, p, "minimum"); err != nil {
				return nil, err
			}
			if f.Constraints.Maximum, err = decodeFloatBound(c.Maximum, p, "maximum"); err != nil {
				return nil, err
			}
			f.Constraints.ExclusiveMinimum = c.ExclusiveMinimum
			f.Constraints.ExclusiveMaximum = c.ExclusiveMaximum
			for i, e := range c.Enum {
				n, ok := asFloat(e)
				if !ok {
					return nil, p.Field("constraints").Field("enum").Index(i).Errorf(codec.CodeBadConstraint,
						"enum value %v is not a number", e)
				}
				f.Constraints.Enum = append(f.Constraints.Enum, n)
			}
		}
		return f, nil

	case KindBool:
		f := BoolField{Name: fd.Name, Title: fd.Title, Description: fd.Description}
		f.Constraints.Required = required
		return f, nil

	case KindDate, KindDatetime:
		tc := TimeConstraints{Required: required}
		if c != nil {
			var err error
			if tc.Minimum, err = decodeTimeBound(c.Minimum, p, "minimum"); err != nil {
				return nil, err
			}
			if tc.Maximum, err = decodeTimeBound(c.Maximum, p, "maximum"); err != nil {
				return nil, err
			}
		}
		if kind == KindDate {
			return DateField{Name: fd.Name, Title: fd.Title, Description: fd.Description,
				Layout: fd.Format, Constraints: tc}, nil
		}
		return DatetimeField{Name: fd.Name, Title: fd.Title, Description: fd.Description,
			Layout: fd.Format, Constraints: tc}, nil

	case KindEnum:
		f := EnumField{Name: fd.Name, Title: fd.Title, Description: fd.Description, Labels: fd.Labels}
		f.Constraints.Required = required
		if c == nil || len(c.Enum) == 0 {
			return nil, p.Field("constraints").Field("enum").Errorf(codec.CodeMissingKey,
				"enum field needs its value set")
		}
		values, err := decodeStringEnum(c.Enum, p)
		if err != nil {
			return nil, err
		}
		f.Values = values
		return f, nil

	case KindArray:
		f := ArrayField{Name: fd.Name, Title: fd.Title, Description: fd.Description, ItemType: ItemKind(fd.ItemType)}
		f.Constraints.Required = required
		if c != nil {
			f.Constraints.MinItems = c.MinItems
			f.Constraints.MaxItems = c.MaxItems
		}
		if fd.ItemType != "" {
			switch ItemKind(fd.ItemType) {
			case ItemString, ItemInteger, ItemNumber, ItemBool:
			default:
				return nil, p.Field("itemType").Errorf(codec.CodeBadConstraint, "unknown item type %q", fd.ItemType)
			}
		}
		return f, nil

	case KindObject:
		f := ObjectField{Name: fd.Name, Title: fd.Title, Description: fd.Description, AllowExtra: fd.AllowExtra}
		f.Constraints.Required = required
		if len(fd.Fields) == 0 {
			return nil, p.Field("fields").Errorf(codec.CodeMissingKey, "object field needs child fields")
		}
		for i, child := range fd.Fields {
			cf, err := decodeField(child, p.Field("fields").Index(i))
			if err != nil {
				return nil, err
			}
			f.Fields = append(f.Fields, cf)
		}
		return f, nil
	}
	// unreachable: the kind switch above is exhaustive
	return nil, p.Field("type").Errorf(codec.CodeUnknownKind, "unknown field kind %q", fd.Type)
}

func decodeStringEnum(values []any, p codec.PathRef) ([]string, error) {
	var out []string
	for i, e := range values {
		s, ok := asString(e)
		if !ok {
			return nil, p.Field("constraints").Field("enum").Index(i).Errorf(codec.CodeBadConstraint,
				"enum value %v is not a string", e)
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeIntBound(v any, p codec.PathRef, key string) (*int64, error) {
	if v == nil {
		return nil, nil
	}
	n, ok := asInt(v)
	if !ok {
		return nil, p.Field("constraints").Field(key).Errorf(codec.CodeBadConstraint,
			"%s must be an integer, got %v", key, v)
	}
	return &n, nil
}

func decodeFloatBound(v any, p codec.PathRef, key string) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	n, ok := asFloat(v)
	if !ok {
		return nil, p.Field("constraints").Field(key).Errorf(codec.CodeBadConstraint,
			"%s must be a number, got %v", key, v)
	}
	return &n, nil
}

func decodeTimeBound(v any, p codec.PathRef, key string) (string, error) {
	if v == nil {
		return "", nil
	}
	s, ok := asString(v)
	if !ok {
		return "", p.Field("constraints").Field(key).Errorf(codec.CodeBadConstraint,
			"%s must be a layout-formatted string, got %v", key, v)
	}
	return s, nil
}

func decodeRule(rd codec.Rule, p codec.PathRef, declared map[string]int) (Rule, error) {
	checkRefs := func(names []string, sub string) error {
		for i, name := range names {
			if _, ok := declared[name]; !ok {
				return p.Field(sub).Index(i).Errorf(codec.CodeBadReference,
					"rule references undeclared field %q", name)
			}
		}
		return nil
	}
	switch rd.Type {
	case "requiredIf":
		if rd.Field == "" {
			return nil, p.Field("field").Errorf(codec.CodeMissingKey, "requiredIf needs a target field")
		}
		if rd.When == "" {
			return nil, p.Field("when").Errorf(codec.CodeMissingKey, "requiredIf needs a condition field")
		}
		if _, ok := declared[rd.Field]; !ok {
			return nil, p.Field("field").Errorf(codec.CodeBadReference, "rule references undeclared field %q", rd.Field)
		}
		if _, ok := declared[rd.When]; !ok {
			return nil, p.Field("when").Errorf(codec.CodeBadReference, "rule references undeclared field %q", rd.When)
		}
		return RequiredIf{Field: rd.Field, When: rd.When, Equals: rd.Equals}, nil
	case "mutuallyExclusive":
		if len(rd.Fields) < 2 {
			return nil, p.Field("fields").Errorf(codec.CodeMissingKey, "mutuallyExclusive needs at least two fields")
		}
		if err := checkRefs(rd.Fields, "fields"); err != nil {
			return nil, err
		}
		return MutuallyExclusive{Fields: append([]string{}, rd.Fields...)}, nil
	case "uniqueTogether":
		if len(rd.Fields) == 0 {
			return nil, p.Field("fields").Errorf(codec.CodeMissingKey, "uniqueTogether needs at least one field")
		}
		if err := checkRefs(rd.Fields, "fields"); err != nil {
			return nil, err
		}
		return UniqueTogether{Fields: append([]string{}, rd.Fields...)}, nil
	}
	return nil, p.Field("type").Errorf(codec.CodeUnknownRule, "unknown rule type %q", rd.Type)
}

func decodeDescriptor(dd codec.Descriptor, p codec.PathRef, declared map[string]int) (Descriptor, error) {
	if dd.Field == "" {
		return nil, p.Field("field").Errorf(codec.CodeMissingKey, "descriptor needs a field name")
	}
	if _, ok := declared[dd.Field]; !ok {
		return nil, p.Field("field").Errorf(codec.CodeBadReference, "descriptor references undeclared field %q", dd.Field)
	}
	switch dd.Type {
	case "value":
		return ValueDescriptor{Field: dd.Field, Unit: dd.Unit}, nil
	case "time":
		d := TimeDescriptor{Field: dd.Field, Frequency: Frequency(dd.Frequency)}
		if err := d.validate(); err != nil {
			return nil, p.Field("frequency").Errorf(codec.CodeBadConstraint, "unknown frequency %q", dd.Frequency)
		}
		return d, nil
	case "location":
		d := LocationDescriptor{Field: dd.Field, LocationType: LocationType(dd.LocationType)}
		if err := d.validate(); err != nil {
			return nil, p.Field("locationType").Errorf(codec.CodeBadConstraint, "unknown location type %q", dd.LocationType)
		}
		return d, nil
	}
	return nil, p.Field("type").Errorf(codec.CodeUnknownDescriptor, "unknown descriptor type %q", dd.Type)
}
