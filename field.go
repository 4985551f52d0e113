package contract

import (
	"fmt"

	"github.com/tablecraft/contract/codec"
	"github.com/tablecraft/contract/i18n"
)

// Kind discriminates the closed set of field variants. The values double as
// the external format's type vocabulary.
type Kind string

const (
	KindString   Kind = "string"
	KindInteger  Kind = "integer"
	KindNumber   Kind = "number"
	KindBool     Kind = "boolean"
	KindDate     Kind = "date"
	KindDatetime Kind = "datetime"
	KindEnum     Kind = "enum"
	KindArray    Kind = "array"
	KindObject   Kind = "object"
)

// FieldSpec is one field declaration: a kind plus kind-specific constraints.
// The set of implementations is sealed; every variant must implement Check,
// normalize and document, so a new kind that misses one of them fails to
// compile rather than silently skipping validation or the codec.
type FieldSpec interface {
	// FieldName returns the field's name, unique within a TableSchema.
	FieldName() string
	// Kind returns the variant discriminator.
	Kind() Kind
	// IsRequired reports whether a value must be present for each record.
	IsRequired() bool
	// Check validates one value. A nil value means missing. Checks run in a
	// fixed order (required, type, then kind-specific constraints) and
	// collect every failing constraint instead of stopping at the first.
	Check(v any) []Violation

	// normalize validates constraint coherence and returns a copy carrying
	// any precompiled state (patterns, layouts). Sealed.
	normalize() (FieldSpec, error)
	// document renders the field in its external form. Sealed.
	document() codec.Field
}

// newViolation builds a Violation with a translated message.
func newViolation(code string, value any, params map[string]any) Violation {
	data := make(map[string]string, len(params))
	for k, v := range params {
		data[k] = fmt.Sprint(v)
	}
	return Violation{Code: code, Message: i18n.T(code, data), Value: value, Params: params}
}

// constraintViolation builds a constraint_violation finding naming the
// constraint by its internal identifier.
func constraintViolation(constraint string, value any, params map[string]any) Violation {
	if params == nil {
		params = map[string]any{}
	}
	params["constraint"] = constraint
	return newViolation(CodeConstraintViolation, value, params)
}

func typeMismatch(expected Kind, got any) Violation {
	return newViolation(CodeTypeMismatch, got, map[string]any{
		"expected": string(expected),
		"got":      fmt.Sprintf("%T", got),
	})
}

func requiredMissing() Violation {
	return newViolation(CodeRequiredMissing, nil, nil)
}

// checkPresence applies the shared required/missing rule. done is true when
// the value is absent and no further checks should run.
func checkPresence(v any, required bool) (vs []Violation, done bool) {
	if v != nil {
		return nil, false
	}
	if required {
		return []Violation{requiredMissing()}, true
	}
	return nil, true
}

// BoolField declares a boolean field. It carries no kind-specific
// constraints beyond requiredness.
type BoolField struct {
	Name        string
	Title       string
	Description string
	Constraints BoolConstraints
}

// BoolConstraints holds the constraints applicable to boolean fields.
type BoolConstraints struct {
	Required bool
}

func (f BoolField) FieldName() string { return f.Name }
func (f BoolField) Kind() Kind        { return KindBool }
func (f BoolField) IsRequired() bool  { return f.Constraints.Required }

func (f BoolField) Check(v any) []Violation {
	if vs, done := checkPresence(v, f.Constraints.Required); done {
		return vs
	}
	if _, ok := asBool(v); !ok {
		return []Violation{typeMismatch(KindBool, v)}
	}
	return nil
}

func (f BoolField) normalize() (FieldSpec, error) {
	if err := checkFieldName(f.Name); err != nil {
		return nil, err
	}
	return f, nil
}

func (f BoolField) document() codec.Field {
	d := codec.Field{Name: f.Name, Type: string(KindBool), Title: f.Title, Description: f.Description}
	if f.Constraints.Required {
		d.Constraints = &codec.Constraints{Required: true}
	}
	return d
}

func checkFieldName(name string) error {
	if name == "" {
		return defErr(CodeInvalidConstraint, "", "field name must not be empty")
	}
	return nil
}
