package contract

import "strings"

// ForeignKey declares that one or more fields reference a key in another
// resource (or in the declaring schema itself). Field order matters: the
// n-th declaring field pairs with the n-th referenced field.
type ForeignKey struct {
	Fields    []string
	Reference Reference
}

// Reference names the target of a foreign key. An empty Resource means the
// declaring schema references itself.
type Reference struct {
	Resource string
	Fields   []string
}

// SelfReference reports whether the key points back at the declaring schema.
func (k ForeignKey) SelfReference() bool { return k.Reference.Resource == "" }

func (k ForeignKey) validate(index map[string]int) error {
	if len(k.Fields) == 0 {
		return defErr(CodeInvalidForeignKey, "", "foreign key needs at least one field")
	}
	if len(k.Fields) != len(k.Reference.Fields) {
		return defErr(CodeInvalidForeignKey, strings.Join(k.Fields, ","),
			"foreign key has %d fields but references %d", len(k.Fields), len(k.Reference.Fields))
	}
	for _, name := range k.Fields {
		if _, ok := index[name]; !ok {
			return defErr(CodeUnknownFieldReference, name, "foreign key references undeclared field")
		}
	}
	if k.SelfReference() {
		for _, name := range k.Reference.Fields {
			if _, ok := index[name]; !ok {
				return defErr(CodeUnknownFieldReference, name, "self-referencing foreign key targets undeclared field")
			}
		}
	}
	return nil
}

// fieldsKey joins field names into a stable map key for per-key-set indexes.
func fieldsKey(fields []string) string { return strings.Join(fields, "\x1f") }

// keyOf encodes a tuple of values into a canonical map key so equal tuples
// compare equal regardless of numeric representation. O(1) per row keeps
// duplicate detection linear in the dataset size.
func keyOf(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = canonicalScalar(v)
	}
	return strings.Join(parts, "\x1f")
}
