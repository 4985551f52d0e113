package contract

// Package contract provides:
//
// - Declarative table schemas built from typed field specifications
// - Record validation that reports every violation, keyed by field name
// - Dataset validation with primary-key, uniqueness, and foreign-key checks
// - A lossless codec between schemas and their external JSON/YAML documents
//
// Design policy:
// - Keep only public APIs in the root package; document types live under codec/.
// - Violations are data, not errors; errors are reserved for bad definitions.
// - Validation never mutates input records and never stops at the first problem.
//
// Typical usage:
//
//	s := contract.MustTableSchema(fields, contract.WithPrimaryKey("id"))
//	report := contract.ValidateRecord(s, rec)
//	dsReport, err := contract.ValidateDataset(s, contract.SliceRows(rows))
//
//	doc := contract.EncodeSchema(s)
//	s2, err := contract.DecodeSchema(doc)
