package contract

// RecordOpt carries call-scoped overrides for record validation. The
// zero value defers every decision to the schema.
type RecordOpt struct {
	// AllowExtra overrides the schema's unknown-field policy for this call
	// when non-nil.
	AllowExtra *bool
}

// ValidateRecord checks one record against a schema. It is a pure function:
// no shared state, identical reports for identical inputs.
func ValidateRecord(s *TableSchema, rec Record) Report {
	return s.ValidateRecord(rec)
}

// ValidateRecordOpt is ValidateRecord with call-scoped options.
func ValidateRecordOpt(s *TableSchema, rec Record, opt RecordOpt) Report {
	allowExtra := s.allowExtra
	if opt.AllowExtra != nil {
		allowExtra = *opt.AllowExtra
	}
	return s.validateRecord(rec, allowExtra)
}
