package contract

import "github.com/tablecraft/contract/codec"

// IntegerField declares a whole-number field. Float inputs qualify only when
// integral; fractional values are a type mismatch, never truncated.
type IntegerField struct {
	Name        string
	Title       string
	Description string
	Constraints IntegerConstraints
}

// IntegerConstraints holds the constraints applicable to integer fields.
type IntegerConstraints struct {
	Required         bool
	Minimum          *int64
	Maximum          *int64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	Enum             []int64
}

func (f IntegerField) FieldName() string { return f.Name }
func (f IntegerField) Kind() Kind        { return KindInteger }
func (f IntegerField) IsRequired() bool  { return f.Constraints.Required }

func (f IntegerField) Check(v any) []Violation {
	if vs, done := checkPresence(v, f.Constraints.Required); done {
		return vs
	}
	n, ok := asInt(v)
	if !ok {
		return []Violation{typeMismatch(KindInteger, v)}
	}
	var out []Violation
	c := f.Constraints
	if c.Minimum != nil {
		if n < *c.Minimum || (c.ExclusiveMinimum && n == *c.Minimum) {
			out = append(out, constraintViolation("minimum", n, map[string]any{"min": *c.Minimum, "exclusive": c.ExclusiveMinimum}))
		}
	}
	if c.Maximum != nil {
		if n > *c.Maximum || (c.ExclusiveMaximum && n == *c.Maximum) {
			out = append(out, constraintViolation("maximum", n, map[string]any{"max": *c.Maximum, "exclusive": c.ExclusiveMaximum}))
		}
	}
	if len(c.Enum) > 0 && !containsInt(c.Enum, n) {
		out = append(out, constraintViolation("enum", n, map[string]any{"allowed": c.Enum}))
	}
	return out
}

func (f IntegerField) normalize() (FieldSpec, error) {
	if err := checkFieldName(f.Name); err != nil {
		return nil, err
	}
	c := f.Constraints
	if err := checkBounds(f.Name, c.Minimum != nil, c.Maximum != nil, c.ExclusiveMinimum, c.ExclusiveMaximum); err != nil {
		return nil, err
	}
	if c.Minimum != nil && c.Maximum != nil && *c.Minimum > *c.Maximum {
		return nil, defErr(CodeInvalidConstraint, f.Name, "minimum exceeds maximum")
	}
	if c.Enum != nil && len(c.Enum) == 0 {
		return nil, defErr(CodeInvalidConstraint, f.Name, "enum must not be empty")
	}
	return f, nil
}

func (f IntegerField) document() codec.Field {
	d := codec.Field{Name: f.Name, Type: string(KindInteger), Title: f.Title, Description: f.Description}
	c := f.Constraints
	if c.Required || c.Minimum != nil || c.Maximum != nil || len(c.Enum) > 0 {
		cd := &codec.Constraints{
			Required:         c.Required,
			ExclusiveMinimum: c.ExclusiveMinimum,
			ExclusiveMaximum: c.ExclusiveMaximum,
		}
		if c.Minimum != nil {
			cd.Minimum = float64(*c.Minimum)
		}
		if c.Maximum != nil {
			cd.Maximum = float64(*c.Maximum)
		}
		for _, e := range c.Enum {
			cd.Enum = append(cd.Enum, e)
		}
		d.Constraints = cd
	}
	return d
}

// NumberField declares a floating-point field.
type NumberField struct {
	Name        string
	Title       string
	Description string
	Constraints NumberConstraints
}

// NumberConstraints holds the constraints applicable to number fields.
type NumberConstraints struct {
	Required         bool
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	Enum             []float64
}

func (f NumberField) FieldName() string { return f.Name }
func (f NumberField) Kind() Kind        { return KindNumber }
func (f NumberField) IsRequired() bool  { return f.Constraints.Required }

func (f NumberField) Check(v any) []Violation {
	if vs, done := checkPresence(v, f.Constraints.Required); done {
		return vs
	}
	n, ok := asFloat(v)
	if !ok {
		return []Violation{typeMismatch(KindNumber, v)}
	}
	var out []Violation
	c := f.Constraints
	if c.Minimum != nil {
		if n < *c.Minimum || (c.ExclusiveMinimum && n == *c.Minimum) {
			out = append(out, constraintViolation("minimum", n, map[string]any{"min": *c.Minimum, "exclusive": c.ExclusiveMinimum}))
		}
	}
	if c.Maximum != nil {
		if n > *c.Maximum || (c.ExclusiveMaximum && n == *c.Maximum) {
			out = append(out, constraintViolation("maximum", n, map[string]any{"max": *c.Maximum, "exclusive": c.ExclusiveMaximum}))
		}
	}
	if len(c.Enum) > 0 && !containsFloat(c.Enum, n) {
		out = append(out, constraintViolation("enum", n, map[string]any{"allowed": c.Enum}))
	}
	return out
}

func (f NumberField) normalize() (FieldSpec, error) {
	if err := checkFieldName(f.Name); err != nil {
		return nil, err
	}
	c := f.Constraints
	if err := checkBounds(f.Name, c.Minimum != nil, c.Maximum != nil, c.ExclusiveMinimum, c.ExclusiveMaximum); err != nil {
		return nil, err
	}
	if c.Minimum != nil && c.Maximum != nil && *c.Minimum > *c.Maximum {
		return nil, defErr(CodeInvalidConstraint, f.Name, "minimum exceeds maximum")
	}
	if c.Enum != nil && len(c.Enum) == 0 {
		return nil, defErr(CodeInvalidConstraint, f.Name, "enum must not be empty")
	}
	return f, nil
}

func (f NumberField) document() codec.Field {
	d := codec.Field{Name: f.Name, Type: string(KindNumber), Title: f.Title, Description: f.Description}
	c := f.Constraints
	if c.Required || c.Minimum != nil || c.Maximum != nil || len(c.Enum) > 0 {
		cd := &codec.Constraints{
			Required:         c.Required,
			ExclusiveMinimum: c.ExclusiveMinimum,
			ExclusiveMaximum: c.ExclusiveMaximum,
		}
		if c.Minimum != nil {
			cd.Minimum = *c.Minimum
		}
		if c.Maximum != nil {
			cd.Maximum = *c.Maximum
		}
		for _, e := range c.Enum {
			cd.Enum = append(cd.Enum, e)
		}
		d.Constraints = cd
	}
	return d
}

func checkBounds(field string, hasMin, hasMax, exclMin, exclMax bool) error {
	if exclMin && !hasMin {
		return defErr(CodeInvalidConstraint, field, "exclusiveMinimum without minimum")
	}
	if exclMax && !hasMax {
		return defErr(CodeInvalidConstraint, field, "exclusiveMaximum without maximum")
	}
	return nil
}

func containsInt(set []int64, n int64) bool {
	for _, e := range set {
		if e == n {
			return true
		}
	}
	return false
}

func containsFloat(set []float64, n float64) bool {
	for _, e := range set {
		if e == n {
			return true
		}
	}
	return false
}
