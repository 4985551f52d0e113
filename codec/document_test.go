package codec_test

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/tablecraft/contract/codec"
)

func TestStringList_ScalarOrArray(t *testing.T) {
	var l codec.StringList
	if err := json.Unmarshal([]byte(`"id"`), &l); err != nil {
		t.Fatalf("scalar form: %v", err)
	}
	if len(l) != 1 || l[0] != "id" {
		t.Fatalf("scalar form decoded to %v", l)
	}

	if err := json.Unmarshal([]byte(`["id","region"]`), &l); err != nil {
		t.Fatalf("array form: %v", err)
	}
	if len(l) != 2 {
		t.Fatalf("array form decoded to %v", l)
	}

	if err := json.Unmarshal([]byte(`42`), &l); err == nil {
		t.Fatalf("numbers must be rejected")
	}
}

func TestStringList_MarshalShorthand(t *testing.T) {
	one, err := json.Marshal(codec.StringList{"id"})
	if err != nil {
		t.Fatal(err)
	}
	if string(one) != `"id"` {
		t.Fatalf("single-element list should use the scalar shorthand, got %s", one)
	}
	two, err := json.Marshal(codec.StringList{"id", "region"})
	if err != nil {
		t.Fatal(err)
	}
	if string(two) != `["id","region"]` {
		t.Fatalf("multi-element list should be an array, got %s", two)
	}
}

func TestKeyTable_Bidirectional(t *testing.T) {
	cases := [][2]string{
		{"primary_key", "primaryKey"},
		{"min_length", "minLength"},
		{"item_type", "itemType"},
		{"required_if", "requiredIf"},
	}
	for _, kv := range cases {
		if got := codec.ExternalKey(kv[0]); got != kv[1] {
			t.Errorf("ExternalKey(%q) = %q, want %q", kv[0], got, kv[1])
		}
		if got := codec.InternalKey(kv[1]); got != kv[0] {
			t.Errorf("InternalKey(%q) = %q, want %q", kv[1], got, kv[0])
		}
	}
	// unlisted keys map to themselves
	if codec.ExternalKey("name") != "name" || codec.InternalKey("name") != "name" {
		t.Errorf("unlisted keys must pass through unchanged")
	}
}

func TestPathRef_Pointer(t *testing.T) {
	p := codec.Root().Field("fields").Index(2).Field("type")
	if got := p.Pointer(); got != "/fields/2/type" {
		t.Fatalf("Pointer() = %q", got)
	}
	if got := codec.Root().Pointer(); got != "/" {
		t.Fatalf("root Pointer() = %q", got)
	}
	// RFC 6901 escaping
	esc := codec.Root().Field("a/b").Field("c~d").Pointer()
	if esc != "/a~1b/c~0d" {
		t.Fatalf("escaped Pointer() = %q", esc)
	}
}

func TestPathRef_Errorf(t *testing.T) {
	err := codec.Root().Field("fields").Index(0).Errorf(codec.CodeBadConstraint, "bad %s", "thing")
	de, ok := codec.AsDecodeError(err)
	if !ok {
		t.Fatalf("want DecodeError, got %T", err)
	}
	if de.Path != "/fields/0" || de.Code != codec.CodeBadConstraint {
		t.Fatalf("unexpected error %+v", de)
	}
	if !strings.Contains(de.Error(), "/fields/0") {
		t.Fatalf("Error() should include the path, got %q", de.Error())
	}
}

func TestParseDocumentYAML_MatchesJSON(t *testing.T) {
	fromYAML, err := codec.ParseDocumentYAML([]byte(`
fields:
  - name: id
    type: integer
primaryKey: id
`))
	if err != nil {
		t.Fatal(err)
	}
	fromJSON, err := codec.ParseDocument([]byte(`{
		"fields": [{"name": "id", "type": "integer"}],
		"primaryKey": "id"
	}`))
	if err != nil {
		t.Fatal(err)
	}
	yb, _ := fromYAML.JSON()
	jb, _ := fromJSON.JSON()
	if string(yb) != string(jb) {
		t.Fatalf("YAML and JSON parses disagree:\n%s\n%s", yb, jb)
	}
}

func TestParseDocument_SyntaxError(t *testing.T) {
	_, err := codec.ParseDocument([]byte(`{"fields": `))
	de, ok := codec.AsDecodeError(err)
	if !ok || de.Code != codec.CodeParse {
		t.Fatalf("want parse DecodeError, got %v", err)
	}
}
