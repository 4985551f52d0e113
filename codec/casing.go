package codec

// The external format writes compound names as camelCase without separators
// (primaryKey, minLength, itemType) while the internal model uses snake_case
// identifiers. The mapping is this explicit rule table in both directions, so
// the round-trip property is provable rather than incidentally true. Keys not
// listed here map to themselves.
var keyTable = [...][2]string{
	// internal, external
	{"primary_key", "primaryKey"},
	{"foreign_keys", "foreignKeys"},
	{"field_descriptors", "fieldDescriptors"},
	{"min_rows", "minRows"},
	{"allow_extra", "allowExtra"},
	{"min_length", "minLength"},
	{"max_length", "maxLength"},
	{"min_items", "minItems"},
	{"max_items", "maxItems"},
	{"exclusive_minimum", "exclusiveMinimum"},
	{"exclusive_maximum", "exclusiveMaximum"},
	{"item_type", "itemType"},
	{"location_type", "locationType"},
	{"required_if", "requiredIf"},
	{"mutually_exclusive", "mutuallyExclusive"},
	{"unique_together", "uniqueTogether"},
}

var (
	toExternal = func() map[string]string {
		m := make(map[string]string, len(keyTable))
		for _, kv := range keyTable {
			m[kv[0]] = kv[1]
		}
		return m
	}()
	toInternal = func() map[string]string {
		m := make(map[string]string, len(keyTable))
		for _, kv := range keyTable {
			m[kv[1]] = kv[0]
		}
		return m
	}()
)

// ExternalKey maps an internal identifier to its external document key.
func ExternalKey(internal string) string {
	if ext, ok := toExternal[internal]; ok {
		return ext
	}
	return internal
}

// InternalKey maps an external document key to its internal identifier.
func InternalKey(external string) string {
	if in, ok := toInternal[external]; ok {
		return in
	}
	return external
}
