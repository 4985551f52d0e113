package contract

import "github.com/tablecraft/contract/codec"

// Rule codes for cross-field findings.
const (
	CodeRequiredIf        = "required_if"
	CodeMutuallyExclusive = "mutually_exclusive"
)

// Rule is a declarative record-level invariant spanning more than one field.
// The set of implementations is a closed variant set rather than an
// expression language, so evaluation order and failure attribution stay
// deterministic. Rules run after individual field checks, in declaration
// order, and report under RecordKey.
type Rule interface {
	// RuleName identifies the rule in violation attribution.
	RuleName() string
	// ReferencedFields lists every field name the rule mentions; all of them
	// must exist in the schema.
	ReferencedFields() []string

	// evaluate checks one record. Dataset-scoped rules return nil here and
	// are enforced by the dataset validator instead. Sealed.
	evaluate(rec Record) []Violation
	ruleDoc() codec.Rule
}

// RequiredIf requires Field to be present whenever the When field equals
// Equals. Values are compared canonically, so 1 and 1.0 match.
type RequiredIf struct {
	Field  string
	When   string
	Equals any
}

func (r RequiredIf) RuleName() string { return "required_if" }

func (r RequiredIf) ReferencedFields() []string { return []string{r.Field, r.When} }

func (r RequiredIf) evaluate(rec Record) []Violation {
	cond, ok := rec[r.When]
	if !ok || cond == nil {
		return nil
	}
	if canonicalScalar(cond) != canonicalScalar(r.Equals) {
		return nil
	}
	if v, ok := rec[r.Field]; ok && v != nil {
		return nil
	}
	v := newViolation(CodeRequiredIf, nil, map[string]any{
		"field": r.Field, "when": r.When, "equals": r.Equals,
	})
	v.Rule = r.RuleName()
	return []Violation{v}
}

func (r RequiredIf) ruleDoc() codec.Rule {
	return codec.Rule{Type: "requiredIf", Field: r.Field, When: r.When, Equals: r.Equals}
}

// MutuallyExclusive forbids more than one of Fields from being present in
// the same record.
type MutuallyExclusive struct {
	Fields []string
}

func (r MutuallyExclusive) RuleName() string { return "mutually_exclusive" }

func (r MutuallyExclusive) ReferencedFields() []string { return r.Fields }

func (r MutuallyExclusive) evaluate(rec Record) []Violation {
	var present []string
	for _, name := range r.Fields {
		if v, ok := rec[name]; ok && v != nil {
			present = append(present, name)
		}
	}
	if len(present) <= 1 {
		return nil
	}
	v := newViolation(CodeMutuallyExclusive, nil, map[string]any{
		"fields":  r.Fields,
		"present": present,
	})
	v.Rule = r.RuleName()
	return []Violation{v}
}

func (r MutuallyExclusive) ruleDoc() codec.Rule {
	return codec.Rule{Type: "mutuallyExclusive", Fields: codec.StringList(r.Fields)}
}

// UniqueTogether requires the combination of Fields to be unique across a
// dataset. It has no record-level effect; the dataset validator enforces it
// with the same first-occurrence-wins semantics as the primary key.
type UniqueTogether struct {
	Fields []string
}

func (r UniqueTogether) RuleName() string { return "unique_together" }

func (r UniqueTogether) ReferencedFields() []string { return r.Fields }

func (r UniqueTogether) evaluate(Record) []Violation { return nil }

func (r UniqueTogether) ruleDoc() codec.Rule {
	return codec.Rule{Type: "uniqueTogether", Fields: codec.StringList(r.Fields)}
}

func validateRule(r Rule, index map[string]int) error {
	refs := r.ReferencedFields()
	if len(refs) == 0 {
		return defErr(CodeUnknownFieldReference, "", "rule %s references no fields", r.RuleName())
	}
	for _, name := range refs {
		if name == "" {
			return defErr(CodeUnknownFieldReference, "", "rule %s references an empty field name", r.RuleName())
		}
		if _, ok := index[name]; !ok {
			return defErr(CodeUnknownFieldReference, name, "rule %s references undeclared field", r.RuleName())
		}
	}
	return nil
}
