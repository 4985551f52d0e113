package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contract "github.com/tablecraft/contract"
	"github.com/tablecraft/contract/codec"
)

func fullSchema(t *testing.T) *contract.TableSchema {
	t.Helper()
	fields := []contract.FieldSpec{
		contract.IntegerField{Name: "id", Constraints: contract.IntegerConstraints{Required: true, Minimum: i64Ptr(1)}},
		contract.StringField{Name: "code", Title: "Code", Constraints: contract.StringConstraints{
			Required: true, MinLength: intPtr(2), MaxLength: intPtr(8), Pattern: `^[A-Z]+$`,
		}},
		contract.NumberField{Name: "price", Constraints: contract.NumberConstraints{
			Minimum: f64Ptr(0), ExclusiveMinimum: true,
		}},
		contract.BoolField{Name: "active"},
		contract.DateField{Name: "day", Constraints: contract.TimeConstraints{Minimum: "2020-01-01"}},
		contract.DatetimeField{Name: "ts"},
		contract.EnumField{Name: "status", Values: []string{"draft", "published"}, Labels: map[string]string{"draft": "Draft"}},
		contract.ArrayField{Name: "tags", ItemType: contract.ItemString, Constraints: contract.ArrayConstraints{MaxItems: intPtr(5)}},
		contract.ObjectField{Name: "address", Fields: []contract.FieldSpec{
			contract.StringField{Name: "city", Constraints: contract.StringConstraints{Required: true}},
			contract.StringField{Name: "zip"},
		}},
		contract.IntegerField{Name: "parent_id"},
	}
	s, err := contract.NewTableSchema(fields,
		contract.WithPrimaryKey("id"),
		contract.WithForeignKeys(contract.ForeignKey{
			Fields:    []string{"parent_id"},
			Reference: contract.Reference{Fields: []string{"id"}},
		}),
		contract.WithRules(
			contract.RequiredIf{Field: "price", When: "status", Equals: "published"},
			contract.UniqueTogether{Fields: []string{"code", "day"}},
		),
		contract.WithDescriptors(
			contract.ValueDescriptor{Field: "price", Unit: "USD"},
			contract.TimeDescriptor{Field: "day", Frequency: contract.Daily},
		),
		contract.WithMinRows(1),
	)
	require.NoError(t, err)
	return s
}

// Round-trip: decoding an encoded schema yields a schema that behaves
// identically and re-encodes to the same document.
func TestSchemaCodec_RoundTrip(t *testing.T) {
	s := fullSchema(t)
	doc := contract.EncodeSchema(s)

	s2, err := contract.DecodeSchema(doc)
	require.NoError(t, err)

	assert.Equal(t, s.FieldNames(), s2.FieldNames())
	assert.Equal(t, s.PrimaryKey(), s2.PrimaryKey())
	assert.Equal(t, s.ForeignKeys(), s2.ForeignKeys())
	assert.Equal(t, s.MinRows(), s2.MinRows())
	assert.Equal(t, s.AllowExtra(), s2.AllowExtra())

	doc2 := contract.EncodeSchema(s2)
	b1, err := doc.JSON()
	require.NoError(t, err)
	b2, err := doc2.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(b1), string(b2))
}

func TestSchemaCodec_RoundTripBehavior(t *testing.T) {
	s := fullSchema(t)
	s2, err := contract.DecodeSchema(contract.EncodeSchema(s))
	require.NoError(t, err)

	records := []contract.Record{
		{"id": 1, "code": "AB", "status": "draft"},
		{"id": 2, "code": "x", "price": 0.0, "status": "published"},
		{"code": "AB", "unknown": true},
	}
	for _, rec := range records {
		assert.Equal(t, contract.ValidateRecord(s, rec), contract.ValidateRecord(s2, rec))
	}
}

func TestSchemaCodec_ExternalJSON(t *testing.T) {
	s := contract.MustTableSchema([]contract.FieldSpec{
		contract.IntegerField{Name: "id", Constraints: contract.IntegerConstraints{Required: true}},
		contract.StringField{Name: "name", Constraints: contract.StringConstraints{MinLength: intPtr(1)}},
	}, contract.WithPrimaryKey("id"))

	b, err := contract.EncodeSchema(s).JSON()
	require.NoError(t, err)
	out := string(b)
	// external keys use camelCase and the single-key scalar shorthand
	assert.Contains(t, out, `"primaryKey":"id"`)
	assert.Contains(t, out, `"minLength":1`)
	assert.NotContains(t, out, "min_length")
	assert.NotContains(t, out, "primary_key")
}

func TestDecodeSchema_UnknownKind(t *testing.T) {
	doc, err := codec.ParseDocument([]byte(`{
		"fields": [
			{"name": "id", "type": "integer", "constraints": {"required": true}},
			{"name": "amount", "type": "currency"}
		]
	}`))
	require.NoError(t, err)

	_, err = contract.DecodeSchema(doc)
	require.Error(t, err)
	de, ok := codec.AsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, codec.CodeUnknownKind, de.Code)
	assert.Equal(t, "/fields/1/type", de.Path)
}

func TestDecodeSchema_InapplicableConstraint(t *testing.T) {
	doc, err := codec.ParseDocument([]byte(`{
		"fields": [
			{"name": "active", "type": "boolean", "constraints": {"minLength": 3}}
		]
	}`))
	require.NoError(t, err)

	_, err = contract.DecodeSchema(doc)
	de, ok := codec.AsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, codec.CodeBadConstraint, de.Code)
	assert.Equal(t, "/fields/0/constraints/minLength", de.Path)
}

func TestDecodeSchema_BadPrimaryKeyReference(t *testing.T) {
	doc, err := codec.ParseDocument([]byte(`{
		"fields": [{"name": "id", "type": "integer", "constraints": {"required": true}}],
		"primaryKey": ["id", "uuid"]
	}`))
	require.NoError(t, err)

	_, err = contract.DecodeSchema(doc)
	de, ok := codec.AsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, codec.CodeBadReference, de.Code)
	assert.Equal(t, "/primaryKey/1", de.Path)
}

func TestDecodeSchema_ScalarPrimaryKey(t *testing.T) {
	doc, err := codec.ParseDocument([]byte(`{
		"fields": [{"name": "id", "type": "integer", "constraints": {"required": true}}],
		"primaryKey": "id"
	}`))
	require.NoError(t, err)

	s, err := contract.DecodeSchema(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, s.PrimaryKey())
}

func TestDecodeSchema_UnknownRule(t *testing.T) {
	doc, err := codec.ParseDocument([]byte(`{
		"fields": [{"name": "a", "type": "string"}],
		"rules": [{"type": "checksum", "fields": ["a"]}]
	}`))
	require.NoError(t, err)

	_, err = contract.DecodeSchema(doc)
	de, ok := codec.AsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, codec.CodeUnknownRule, de.Code)
	assert.Equal(t, "/rules/0/type", de.Path)
}

func TestDecodeSchema_BadRuleReference(t *testing.T) {
	doc, err := codec.ParseDocument([]byte(`{
		"fields": [{"name": "a", "type": "string"}],
		"rules": [{"type": "mutuallyExclusive", "fields": ["a", "ghost"]}]
	}`))
	require.NoError(t, err)

	_, err = contract.DecodeSchema(doc)
	de, ok := codec.AsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, codec.CodeBadReference, de.Code)
	assert.Equal(t, "/rules/0/fields/1", de.Path)
}

func TestDecodeSchema_UnknownDescriptor(t *testing.T) {
	doc, err := codec.ParseDocument([]byte(`{
		"fields": [{"name": "a", "type": "number"}],
		"fieldDescriptors": [{"type": "currency", "field": "a"}]
	}`))
	require.NoError(t, err)

	_, err = contract.DecodeSchema(doc)
	de, ok := codec.AsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, codec.CodeUnknownDescriptor, de.Code)
	assert.Equal(t, "/fieldDescriptors/0/type", de.Path)
}

func TestDecodeSchema_NestedObjectField(t *testing.T) {
	doc, err := codec.ParseDocument([]byte(`{
		"fields": [{
			"name": "address",
			"type": "object",
			"fields": [
				{"name": "city", "type": "string", "constraints": {"required": true}},
				{"name": "floor", "type": "elevator"}
			]
		}]
	}`))
	require.NoError(t, err)

	_, err = contract.DecodeSchema(doc)
	de, ok := codec.AsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, codec.CodeUnknownKind, de.Code)
	assert.Equal(t, "/fields/0/fields/1/type", de.Path)
}

func TestDecodeSchema_YAML(t *testing.T) {
	doc, err := codec.ParseDocumentYAML([]byte(`
fields:
  - name: id
    type: integer
    constraints:
      required: true
  - name: status
    type: enum
    constraints:
      enum: [draft, published]
primaryKey: id
`))
	require.NoError(t, err)

	s, err := contract.DecodeSchema(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "status"}, s.FieldNames())
	assert.Equal(t, []string{"id"}, s.PrimaryKey())
}

func TestDecodeSchema_ResidualDefinitionError(t *testing.T) {
	// pattern compiles only at schema construction; the decode precheck
	// cannot catch it, so the definition error is mapped onto the field path
	doc, err := codec.ParseDocument([]byte(`{
		"fields": [{"name": "a", "type": "string", "constraints": {"pattern": "("}}]
	}`))
	require.NoError(t, err)

	_, err = contract.DecodeSchema(doc)
	de, ok := codec.AsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, codec.CodeBadConstraint, de.Code)
	assert.Equal(t, "/fields/0", de.Path)
}
