package contract

import (
	"regexp"

	"github.com/tablecraft/contract/codec"
)

// StringField declares a free-form text field.
type StringField struct {
	Name        string
	Title       string
	Description string
	Constraints StringConstraints

	re *regexp.Regexp // compiled by normalize
}

// StringConstraints holds the constraints applicable to string fields. Nil
// pointer bounds mean unset.
type StringConstraints struct {
	Required  bool
	MinLength *int
	MaxLength *int
	// Pattern is an RE2 expression the whole value is tested against.
	Pattern string
	// Enum restricts values to a closed set.
	Enum []string
}

func (f StringField) FieldName() string { return f.Name }
func (f StringField) Kind() Kind        { return KindString }
func (f StringField) IsRequired() bool  { return f.Constraints.Required }

func (f StringField) Check(v any) []Violation {
	if vs, done := checkPresence(v, f.Constraints.Required); done {
		return vs
	}
	s, ok := asString(v)
	if !ok {
		return []Violation{typeMismatch(KindString, v)}
	}
	var out []Violation
	c := f.Constraints
	n := len([]rune(s))
	if c.MinLength != nil && n < *c.MinLength {
		out = append(out, constraintViolation("min_length", s, map[string]any{"min": *c.MinLength, "got": n}))
	}
	if c.MaxLength != nil && n > *c.MaxLength {
		out = append(out, constraintViolation("max_length", s, map[string]any{"max": *c.MaxLength, "got": n}))
	}
	if f.re != nil && !f.re.MatchString(s) {
		out = append(out, constraintViolation("pattern", s, map[string]any{"pattern": c.Pattern}))
	}
	if len(c.Enum) > 0 && !containsString(c.Enum, s) {
		out = append(out, constraintViolation("enum", s, map[string]any{"allowed": c.Enum}))
	}
	return out
}

func (f StringField) normalize() (FieldSpec, error) {
	if err := checkFieldName(f.Name); err != nil {
		return nil, err
	}
	c := f.Constraints
	if c.MinLength != nil && *c.MinLength < 0 {
		return nil, defErr(CodeInvalidConstraint, f.Name, "minLength must be non-negative")
	}
	if c.MaxLength != nil && *c.MaxLength < 0 {
		return nil, defErr(CodeInvalidConstraint, f.Name, "maxLength must be non-negative")
	}
	if c.MinLength != nil && c.MaxLength != nil && *c.MinLength > *c.MaxLength {
		return nil, defErr(CodeInvalidConstraint, f.Name, "minLength exceeds maxLength")
	}
	if c.Enum != nil && len(c.Enum) == 0 {
		return nil, defErr(CodeInvalidConstraint, f.Name, "enum must not be empty")
	}
	if c.Pattern != "" {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return nil, defErr(CodeInvalidConstraint, f.Name, "invalid pattern: %v", err)
		}
		f.re = re
	}
	return f, nil
}

func (f StringField) document() codec.Field {
	d := codec.Field{Name: f.Name, Type: string(KindString), Title: f.Title, Description: f.Description}
	c := f.Constraints
	if c.Required || c.MinLength != nil || c.MaxLength != nil || c.Pattern != "" || len(c.Enum) > 0 {
		cd := &codec.Constraints{
			Required:  c.Required,
			MinLength: c.MinLength,
			MaxLength: c.MaxLength,
			Pattern:   c.Pattern,
		}
		for _, e := range c.Enum {
			cd.Enum = append(cd.Enum, e)
		}
		d.Constraints = cd
	}
	return d
}

// EnumField declares a field whose values come from a closed set, optionally
// carrying display labels per value.
type EnumField struct {
	Name        string
	Title       string
	Description string
	Values      []string
	// Labels maps values to human-readable display labels. Keys must be a
	// subset of Values.
	Labels      map[string]string
	Constraints EnumConstraints
}

// EnumConstraints holds the constraints applicable to enum fields.
type EnumConstraints struct {
	Required bool
}

func (f EnumField) FieldName() string { return f.Name }
func (f EnumField) Kind() Kind        { return KindEnum }
func (f EnumField) IsRequired() bool  { return f.Constraints.Required }

func (f EnumField) Check(v any) []Violation {
	if vs, done := checkPresence(v, f.Constraints.Required); done {
		return vs
	}
	s, ok := asString(v)
	if !ok {
		return []Violation{typeMismatch(KindEnum, v)}
	}
	if !containsString(f.Values, s) {
		return []Violation{constraintViolation("enum", s, map[string]any{"allowed": f.Values})}
	}
	return nil
}

func (f EnumField) normalize() (FieldSpec, error) {
	if err := checkFieldName(f.Name); err != nil {
		return nil, err
	}
	if len(f.Values) == 0 {
		return nil, defErr(CodeInvalidConstraint, f.Name, "enum field needs at least one value")
	}
	seen := map[string]struct{}{}
	for _, val := range f.Values {
		if _, dup := seen[val]; dup {
			return nil, defErr(CodeInvalidConstraint, f.Name, "duplicate enum value %q", val)
		}
		seen[val] = struct{}{}
	}
	for labeled := range f.Labels {
		if _, ok := seen[labeled]; !ok {
			return nil, defErr(CodeInvalidConstraint, f.Name, "label for unknown enum value %q", labeled)
		}
	}
	return f, nil
}

func (f EnumField) document() codec.Field {
	d := codec.Field{Name: f.Name, Type: string(KindEnum), Title: f.Title, Description: f.Description, Labels: f.Labels}
	cd := &codec.Constraints{Required: f.Constraints.Required}
	for _, val := range f.Values {
		cd.Enum = append(cd.Enum, val)
	}
	d.Constraints = cd
	return d
}

func containsString(set []string, s string) bool {
	for _, e := range set {
		if e == s {
			return true
		}
	}
	return false
}
