package contract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contract "github.com/tablecraft/contract"
)

func keyedSchema(t *testing.T, opts ...contract.SchemaOption) *contract.TableSchema {
	t.Helper()
	fields := []contract.FieldSpec{
		contract.IntegerField{Name: "id", Constraints: contract.IntegerConstraints{Required: true}},
		contract.StringField{Name: "name"},
	}
	opts = append([]contract.SchemaOption{contract.WithPrimaryKey("id")}, opts...)
	s, err := contract.NewTableSchema(fields, opts...)
	require.NoError(t, err)
	return s
}

func TestValidateDataset_Valid(t *testing.T) {
	s := keyedSchema(t)
	rep, err := contract.ValidateDataset(s, contract.SliceRows([]contract.Record{
		{"id": 1, "name": "a"},
		{"id": 2, "name": "b"},
	}))
	require.NoError(t, err)
	assert.True(t, rep.Valid())
	assert.Equal(t, 2, rep.Summary.Rows)
	assert.Equal(t, 0, rep.Summary.InvalidRows)
}

func TestValidateDataset_DuplicatePrimaryKey(t *testing.T) {
	s := keyedSchema(t)
	rep, err := contract.ValidateDataset(s, contract.SliceRows([]contract.Record{
		{"id": 1},
		{"id": 1},
	}))
	require.NoError(t, err)
	assert.False(t, rep.Valid())
	// the first occurrence stays clean; the second is flagged and points back
	assert.True(t, rep.Row(0).Valid())
	vs := rep.Row(1)[contract.RecordKey]
	require.Len(t, vs, 1)
	assert.Equal(t, contract.CodeDuplicatePrimaryKey, vs[0].Code)
	assert.Equal(t, 0, vs[0].Params["first"])
}

func TestValidateDataset_NumericKeysCompareCanonically(t *testing.T) {
	s := keyedSchema(t)
	// 1 and 1.0 are the same key regardless of source representation
	rep, err := contract.ValidateDataset(s, contract.SliceRows([]contract.Record{
		{"id": int64(1)},
		{"id": float64(1)},
	}))
	require.NoError(t, err)
	assert.False(t, rep.Valid())
	assert.Equal(t, contract.CodeDuplicatePrimaryKey, rep.Row(1)[contract.RecordKey][0].Code)
}

func TestValidateDataset_MissingKeyComponentSkipsDedup(t *testing.T) {
	s := keyedSchema(t)
	rep, err := contract.ValidateDataset(s, contract.SliceRows([]contract.Record{
		{"name": "a"},
		{"name": "b"},
	}))
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		row := rep.Row(i)
		require.Len(t, row["id"], 1)
		assert.Equal(t, contract.CodeRequiredMissing, row["id"][0].Code)
		// no duplicate noise on top of the missing-field finding
		assert.Empty(t, row[contract.RecordKey])
	}
}

func TestValidateDataset_ExistingKeys(t *testing.T) {
	s := keyedSchema(t)
	rep, err := contract.ValidateDataset(s,
		contract.SliceRows([]contract.Record{{"id": 7}}),
		contract.WithExistingKeys([]any{7}),
	)
	require.NoError(t, err)
	vs := rep.Row(0)[contract.RecordKey]
	require.Len(t, vs, 1)
	assert.Equal(t, contract.CodeDuplicatePrimaryKey, vs[0].Code)
	// the first occurrence lives outside the dataset
	assert.Equal(t, -1, vs[0].Params["first"])
}

func TestValidateDataset_UniqueTogether(t *testing.T) {
	fields := []contract.FieldSpec{
		contract.StringField{Name: "region"},
		contract.StringField{Name: "slot"},
	}
	s := contract.MustTableSchema(fields, contract.WithRules(
		contract.UniqueTogether{Fields: []string{"region", "slot"}},
	))
	rep, err := contract.ValidateDataset(s, contract.SliceRows([]contract.Record{
		{"region": "eu", "slot": "a"},
		{"region": "eu", "slot": "b"},
		{"region": "eu", "slot": "a"},
	}))
	require.NoError(t, err)
	assert.True(t, rep.Row(0).Valid())
	assert.True(t, rep.Row(1).Valid())
	vs := rep.Row(2)[contract.RecordKey]
	require.Len(t, vs, 1)
	assert.Equal(t, contract.CodeUniqueTogether, vs[0].Code)
	assert.Equal(t, "unique_together", vs[0].Rule)
	assert.Equal(t, 0, vs[0].Params["first"])
}

func TestValidateDataset_MinRows(t *testing.T) {
	s := keyedSchema(t, contract.WithMinRows(3))
	rep, err := contract.ValidateDataset(s, contract.SliceRows([]contract.Record{
		{"id": 1},
	}))
	require.NoError(t, err)
	require.Len(t, rep.Dataset, 1)
	assert.Equal(t, contract.CodeTooFewRows, rep.Dataset[0].Code)
	assert.Equal(t, 3, rep.Dataset[0].Params["min"])
	assert.Equal(t, 1, rep.Dataset[0].Params["got"])
}

func TestValidateDataset_ForeignKeyNeedsReferenceKeys(t *testing.T) {
	fields := []contract.FieldSpec{
		contract.IntegerField{Name: "owner_id", Constraints: contract.IntegerConstraints{Required: true}},
	}
	s := contract.MustTableSchema(fields, contract.WithForeignKeys(contract.ForeignKey{
		Fields:    []string{"owner_id"},
		Reference: contract.Reference{Resource: "users", Fields: []string{"id"}},
	}))
	_, err := contract.ValidateDataset(s, contract.SliceRows(nil))
	require.Error(t, err)
}

func TestValidateDataset_ForeignKey(t *testing.T) {
	fields := []contract.FieldSpec{
		contract.IntegerField{Name: "owner_id"},
	}
	s := contract.MustTableSchema(fields, contract.WithForeignKeys(contract.ForeignKey{
		Fields:    []string{"owner_id"},
		Reference: contract.Reference{Resource: "users", Fields: []string{"id"}},
	}))
	rep, err := contract.ValidateDataset(s,
		contract.SliceRows([]contract.Record{
			{"owner_id": 1},
			{"owner_id": 99},
			{"owner_id": nil}, // null components pass
		}),
		contract.WithReferenceKeys([]string{"owner_id"}, []any{1}, []any{2}),
	)
	require.NoError(t, err)
	assert.True(t, rep.Row(0).Valid())
	vs := rep.Row(1)[contract.RecordKey]
	require.Len(t, vs, 1)
	assert.Equal(t, contract.CodeForeignKeyMissing, vs[0].Code)
	assert.Equal(t, "users", vs[0].Params["resource"])
	assert.True(t, rep.Row(2).Valid())
}

func TestValidateDataset_SelfReferencingForeignKey(t *testing.T) {
	fields := []contract.FieldSpec{
		contract.IntegerField{Name: "id", Constraints: contract.IntegerConstraints{Required: true}},
		contract.IntegerField{Name: "parent_id"},
	}
	s := contract.MustTableSchema(fields,
		contract.WithPrimaryKey("id"),
		contract.WithForeignKeys(contract.ForeignKey{
			Fields:    []string{"parent_id"},
			Reference: contract.Reference{Fields: []string{"id"}},
		}),
	)
	// the parent appears after the child; resolution is deferred past the pass
	rep, err := contract.ValidateDataset(s, contract.SliceRows([]contract.Record{
		{"id": 2, "parent_id": 1},
		{"id": 1},
		{"id": 3, "parent_id": 42},
	}))
	require.NoError(t, err)
	assert.True(t, rep.Row(0).Valid())
	assert.True(t, rep.Row(1).Valid())
	vs := rep.Row(2)[contract.RecordKey]
	require.Len(t, vs, 1)
	assert.Equal(t, contract.CodeForeignKeyMissing, vs[0].Code)
	assert.Equal(t, "self", vs[0].Params["resource"])
}

func TestValidateDataset_Summary(t *testing.T) {
	s := keyedSchema(t)
	rep, err := contract.ValidateDataset(s, contract.SliceRows([]contract.Record{
		{"id": 1},
		{"id": 1, "name": 42}, // dup key and a type mismatch
		{"id": 3},
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Summary.Rows)
	assert.Equal(t, 1, rep.Summary.InvalidRows)
	assert.Equal(t, 2, rep.Summary.Violations)
	assert.Equal(t, 1, rep.Summary.ByColumn["name"])
	assert.Equal(t, 1, rep.Summary.ByColumn[contract.RecordKey])
}

func TestJSONRows_Streams(t *testing.T) {
	s := keyedSchema(t)
	src := contract.JSONRows(strings.NewReader(`[
		{"id": 1, "name": "a"},
		{"id": 1, "name": "b"}
	]`))
	rep, err := contract.ValidateDataset(s, src)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Summary.Rows)
	assert.Equal(t, contract.CodeDuplicatePrimaryKey, rep.Row(1)[contract.RecordKey][0].Code)
}

func TestJSONRows_RejectsNonArray(t *testing.T) {
	s := keyedSchema(t)
	_, err := contract.ValidateDataset(s, contract.JSONRows(strings.NewReader(`{"id": 1}`)))
	require.Error(t, err)
}

func TestJSONRows_EmptyArray(t *testing.T) {
	s := keyedSchema(t)
	rep, err := contract.ValidateDataset(s, contract.JSONRows(strings.NewReader(`[]`)))
	require.NoError(t, err)
	assert.True(t, rep.Valid())
	assert.Equal(t, 0, rep.Summary.Rows)
}
