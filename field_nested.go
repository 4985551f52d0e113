package contract

import "github.com/tablecraft/contract/codec"

// ItemKind enumerates the element kinds an ArrayField may carry. Arrays hold
// homogeneous scalars; nested collections belong in an ObjectField.
type ItemKind string

const (
	ItemString  ItemKind = "string"
	ItemInteger ItemKind = "integer"
	ItemNumber  ItemKind = "number"
	ItemBool    ItemKind = "boolean"
)

// ArrayField declares a list of same-typed scalar items.
type ArrayField struct {
	Name        string
	Title       string
	Description string
	// ItemType is the element kind. Empty means ItemString.
	ItemType    ItemKind
	Constraints ArrayConstraints
}

// ArrayConstraints holds the constraints applicable to array fields.
type ArrayConstraints struct {
	Required bool
	MinItems *int
	MaxItems *int
}

func (f ArrayField) FieldName() string { return f.Name }
func (f ArrayField) Kind() Kind        { return KindArray }
func (f ArrayField) IsRequired() bool  { return f.Constraints.Required }

func (f ArrayField) itemType() ItemKind {
	if f.ItemType == "" {
		return ItemString
	}
	return f.ItemType
}

func (f ArrayField) Check(v any) []Violation {
	if vs, done := checkPresence(v, f.Constraints.Required); done {
		return vs
	}
	items, ok := asSlice(v)
	if !ok {
		return []Violation{typeMismatch(KindArray, v)}
	}
	var out []Violation
	c := f.Constraints
	if c.MinItems != nil && len(items) < *c.MinItems {
		out = append(out, constraintViolation("min_items", nil, map[string]any{"min": *c.MinItems, "got": len(items)}))
	}
	if c.MaxItems != nil && len(items) > *c.MaxItems {
		out = append(out, constraintViolation("max_items", nil, map[string]any{"max": *c.MaxItems, "got": len(items)}))
	}
	for i, item := range items {
		if !itemMatches(f.itemType(), item) {
			out = append(out, constraintViolation("item_type", item, map[string]any{
				"index":    i,
				"expected": string(f.itemType()),
			}))
		}
	}
	return out
}

func itemMatches(kind ItemKind, v any) bool {
	if v == nil {
		return false
	}
	switch kind {
	case ItemString:
		_, ok := asString(v)
		return ok
	case ItemInteger:
		_, ok := asInt(v)
		return ok
	case ItemNumber:
		_, ok := asFloat(v)
		return ok
	case ItemBool:
		_, ok := asBool(v)
		return ok
	}
	return false
}

func (f ArrayField) normalize() (FieldSpec, error) {
	if err := checkFieldName(f.Name); err != nil {
		return nil, err
	}
	switch f.itemType() {
	case ItemString, ItemInteger, ItemNumber, ItemBool:
	default:
		return nil, defErr(CodeInvalidConstraint, f.Name, "unknown item type %q", f.ItemType)
	}
	c := f.Constraints
	if c.MinItems != nil && *c.MinItems < 0 {
		return nil, defErr(CodeInvalidConstraint, f.Name, "minItems must be non-negative")
	}
	if c.MaxItems != nil && *c.MaxItems < 0 {
		return nil, defErr(CodeInvalidConstraint, f.Name, "maxItems must be non-negative")
	}
	if c.MinItems != nil && c.MaxItems != nil && *c.MinItems > *c.MaxItems {
		return nil, defErr(CodeInvalidConstraint, f.Name, "minItems exceeds maxItems")
	}
	return f, nil
}

func (f ArrayField) document() codec.Field {
	d := codec.Field{
		Name: f.Name, Type: string(KindArray), Title: f.Title, Description: f.Description,
		ItemType: string(f.itemType()),
	}
	c := f.Constraints
	if c.Required || c.MinItems != nil || c.MaxItems != nil {
		d.Constraints = &codec.Constraints{Required: c.Required, MinItems: c.MinItems, MaxItems: c.MaxItems}
	}
	return d
}

// ObjectField declares a nested record with its own ordered field list.
// Nested objects are closed by default: undeclared keys are violations unless
// AllowExtra is set.
type ObjectField struct {
	Name        string
	Title       string
	Description string
	Fields      []FieldSpec
	AllowExtra  bool
	Constraints ObjectConstraints
}

// ObjectConstraints holds the constraints applicable to object fields.
type ObjectConstraints struct {
	Required bool
}

func (f ObjectField) FieldName() string { return f.Name }
func (f ObjectField) Kind() Kind        { return KindObject }
func (f ObjectField) IsRequired() bool  { return f.Constraints.Required }

func (f ObjectField) Check(v any) []Violation {
	if vs, done := checkPresence(v, f.Constraints.Required); done {
		return vs
	}
	m, ok := asMap(v)
	if !ok {
		return []Violation{typeMismatch(KindObject, v)}
	}
	var out []Violation
	for _, child := range f.Fields {
		for _, cv := range child.Check(m[child.FieldName()]) {
			if cv.Params == nil {
				cv.Params = map[string]any{}
			}
			cv.Params["field"] = f.Name + "." + child.FieldName()
			out = append(out, cv)
		}
	}
	if !f.AllowExtra {
		for key := range m {
			if !f.declares(key) {
				uv := newViolation(CodeUnknownField, m[key], map[string]any{"field": f.Name + "." + key})
				out = append(out, uv)
			}
		}
	}
	return out
}

func (f ObjectField) declares(name string) bool {
	for _, child := range f.Fields {
		if child.FieldName() == name {
			return true
		}
	}
	return false
}

func (f ObjectField) normalize() (FieldSpec, error) {
	if err := checkFieldName(f.Name); err != nil {
		return nil, err
	}
	if len(f.Fields) == 0 {
		return nil, defErr(CodeInvalidConstraint, f.Name, "object field needs at least one child field")
	}
	seen := map[string]struct{}{}
	normalized := make([]FieldSpec, len(f.Fields))
	for i, child := range f.Fields {
		if _, dup := seen[child.FieldName()]; dup {
			return nil, defErr(CodeDuplicateField, child.FieldName(), "duplicate field name in object %q", f.Name)
		}
		seen[child.FieldName()] = struct{}{}
		nc, err := child.normalize()
		if err != nil {
			return nil, err
		}
		normalized[i] = nc
	}
	f.Fields = normalized
	return f, nil
}

func (f ObjectField) document() codec.Field {
	d := codec.Field{Name: f.Name, Type: string(KindObject), Title: f.Title, Description: f.Description}
	for _, child := range f.Fields {
		d.Fields = append(d.Fields, child.document())
	}
	if f.Constraints.Required {
		d.Constraints = &codec.Constraints{Required: f.Constraints.Required}
	}
	d.AllowExtra = f.AllowExtra
	return d
}
