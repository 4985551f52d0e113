// Package codec defines the external interchange representation of table
// schemas and contracts: a JSON-serializable document whose key names and
// casing follow the downstream platform's conventions rather than the
// internal model's. The mapping between the two is an explicit rule table
// (see casing.go), never a heuristic transformer.
package codec

import (
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Document is the external form of one table schema. Field order is
// significant: some consumers of the interchange format are order-sensitive,
// so encoding and decoding both preserve declaration order exactly.
type Document struct {
	Fields           []Field      `json:"fields"`
	PrimaryKey       StringList   `json:"primaryKey,omitempty"`
	ForeignKeys      []ForeignKey `json:"foreignKeys,omitempty"`
	Rules            []Rule       `json:"rules,omitempty"`
	FieldDescriptors []Descriptor `json:"fieldDescriptors,omitempty"`
	MinRows          int          `json:"minRows,omitempty"`
	AllowExtra       bool         `json:"allowExtra,omitempty"`
}

// Field is the external form of one field declaration. Type carries the
// closed kind discriminator vocabulary ("string", "integer", "number",
// "boolean", "date", "datetime", "enum", "array", "object").
type Field struct {
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Format      string            `json:"format,omitempty"`   // date/datetime layout
	ItemType    string            `json:"itemType,omitempty"` // array element kind
	Fields      []Field           `json:"fields,omitempty"`     // object children
	AllowExtra  bool              `json:"allowExtra,omitempty"` // object unknown-key policy
	Labels      map[string]string `json:"labels,omitempty"`     // enum display labels
	Constraints *Constraints      `json:"constraints,omitempty"`
}

// Constraints is the external constraints object. Keys not applicable to the
// field's kind must be absent; decoding rejects inapplicable keys instead of
// silently coercing them. Minimum/Maximum hold numbers for numeric kinds and
// layout-formatted strings for date/datetime kinds.
type Constraints struct {
	Required         bool   `json:"required,omitempty"`
	Enum             []any  `json:"enum,omitempty"`
	Pattern          string `json:"pattern,omitempty"`
	MinLength        *int   `json:"minLength,omitempty"`
	MaxLength        *int   `json:"maxLength,omitempty"`
	Minimum          any    `json:"minimum,omitempty"`
	Maximum          any    `json:"maximum,omitempty"`
	ExclusiveMinimum bool   `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum bool   `json:"exclusiveMaximum,omitempty"`
	MinItems         *int   `json:"minItems,omitempty"`
	MaxItems         *int   `json:"maxItems,omitempty"`
}

// ForeignKey is the external form of a foreign key declaration.
type ForeignKey struct {
	Fields    StringList `json:"fields"`
	Reference Reference  `json:"reference"`
}

// Reference names the resource and fields a foreign key points at. An empty
// Resource means the key references the declaring schema itself.
type Reference struct {
	Resource string     `json:"resource,omitempty"`
	Fields   StringList `json:"fields"`
}

// Rule is the external form of a cross-field rule, discriminated by Type
// ("requiredIf", "mutuallyExclusive", "uniqueTogether").
type Rule struct {
	Type   string     `json:"type"`
	Field  string     `json:"field,omitempty"`  // requiredIf target
	When   string     `json:"when,omitempty"`   // requiredIf condition field
	Equals any        `json:"equals,omitempty"` // requiredIf condition value
	Fields StringList `json:"fields,omitempty"` // mutuallyExclusive / uniqueTogether
}

// Descriptor is the external form of a semantic field descriptor,
// discriminated by Type ("value", "time", "location").
type Descriptor struct {
	Type         string `json:"type"`
	Field        string `json:"field"`
	Unit         string `json:"unit,omitempty"`
	Frequency    string `json:"frequency,omitempty"`
	LocationType string `json:"locationType,omitempty"`
}

// ContractDocument is the external form of a named, versioned contract
// bundling one or more schemas.
type ContractDocument struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Schemas     []NamedDocument `json:"schemas"`
}

// NamedDocument attaches a name to a schema document within a contract.
type NamedDocument struct {
	Name string `json:"name"`
	Document
}

// StringList accepts either a single string or an array of strings on the
// wire and always presents as a slice internally. The external format allows
// the scalar shorthand for single-field keys.
type StringList []string

// UnmarshalJSON implements the string-or-array decoding rule.
func (l *StringList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*l = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("expected string or array of strings")
	}
	*l = StringList(many)
	return nil
}

// MarshalJSON keeps the scalar shorthand for single-element lists so that
// decode(encode(x)) reproduces the input byte-for-byte where it can.
func (l StringList) MarshalJSON() ([]byte, error) {
	if len(l) == 1 {
		return json.Marshal(l[0])
	}
	return json.Marshal([]string(l))
}

// ParseDocument decodes a JSON schema document.
func ParseDocument(b []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, &DecodeError{Path: "/", Code: CodeParse, Message: err.Error()}
	}
	return &d, nil
}

// ParseContractDocument decodes a JSON contract document.
func ParseContractDocument(b []byte) (*ContractDocument, error) {
	var d ContractDocument
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, &DecodeError{Path: "/", Code: CodeParse, Message: err.Error()}
	}
	return &d, nil
}

// ParseDocumentYAML decodes a YAML schema document. YAML input is first
// loaded generically and re-encoded as JSON so that the same key-casing and
// string-or-array rules apply to both formats.
func ParseDocumentYAML(b []byte) (*Document, error) {
	jb, err := yamlToJSON(b)
	if err != nil {
		return nil, err
	}
	return ParseDocument(jb)
}

// ParseContractDocumentYAML decodes a YAML contract document.
func ParseContractDocumentYAML(b []byte) (*ContractDocument, error) {
	jb, err := yamlToJSON(b)
	if err != nil {
		return nil, err
	}
	return ParseContractDocument(jb)
}

func yamlToJSON(b []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, &DecodeError{Path: "/", Code: CodeParse, Message: err.Error()}
	}
	jb, err := json.Marshal(v)
	if err != nil {
		return nil, &DecodeError{Path: "/", Code: CodeParse, Message: err.Error()}
	}
	return jb, nil
}

// JSON renders the document in its canonical external JSON form.
func (d *Document) JSON() ([]byte, error) { return json.Marshal(d) }

// JSON renders the contract document in its canonical external JSON form.
func (d *ContractDocument) JSON() ([]byte, error) { return json.Marshal(d) }
