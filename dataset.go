package contract

import (
	"fmt"
	"io"
	"strings"
)

// DatasetOpt configures one bulk validation call.
type DatasetOpt func(*datasetRun)

// WithExistingKeys seeds the primary-key uniqueness index with keys that are
// already published elsewhere. Rows colliding with a seeded key are flagged
// with first = -1, since the first occurrence lies outside the dataset.
func WithExistingKeys(keys ...[]any) DatasetOpt {
	return func(run *datasetRun) {
		for _, k := range keys {
			run.existing[keyOf(k)] = struct{}{}
		}
	}
}

// WithReferenceKeys supplies the known key tuples of the resource a foreign
// key points at, identified by the declaring fields. Self-referencing keys
// also count tuples found in the dataset itself.
func WithReferenceKeys(fkFields []string, keys ...[]any) DatasetOpt {
	return func(run *datasetRun) {
		set := run.refKeys[fieldsKey(fkFields)]
		if set == nil {
			set = map[string]struct{}{}
			run.refKeys[fieldsKey(fkFields)] = set
		}
		for _, k := range keys {
			set[keyOf(k)] = struct{}{}
		}
	}
}

type datasetRun struct {
	existing map[string]struct{}            // externally published PK keys
	refKeys  map[string]map[string]struct{} // fk fields -> provided reference keys
}

type pendingFK struct {
	row   int
	fk    int // index into schema foreign keys
	key   string
	tuple []any
}

// ValidateDataset checks an ordered sequence of records against the schema.
// Every row runs through record validation; when a primary key is declared,
// duplicate key tuples are flagged from the second occurrence on, in O(n)
// via a key-to-first-row index. The error return concerns the source only
// (I/O or misuse); validation findings are always data in the report.
//
// A row missing a primary-key component already carries a required-field
// violation and is excluded from duplicate detection: its key is undefined,
// not a null key, so duplicate noise cannot mask the missing-field error.
func ValidateDataset(s *TableSchema, rows RowSource, opts ...DatasetOpt) (*DatasetReport, error) {
	run := &datasetRun{
		existing: map[string]struct{}{},
		refKeys:  map[string]map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(run)
	}
	fks := s.foreignKeys
	for _, fk := range fks {
		if !fk.SelfReference() {
			if _, ok := run.refKeys[fieldsKey(fk.Fields)]; !ok {
				return nil, fmt.Errorf("foreign key %s references resource %q but no reference keys were provided",
					strings.Join(fk.Fields, ","), fk.Reference.Resource)
			}
		}
	}

	report := &DatasetReport{}
	pk := s.primaryKey
	seen := map[string]int{} // pk key tuple -> first row index
	var uniques []uniqueIndex
	for _, r := range s.rules {
		if ut, ok := r.(UniqueTogether); ok {
			uniques = append(uniques, uniqueIndex{fields: ut.Fields, seen: map[string]int{}})
		}
	}
	// self-referencing FK resolution is deferred: referenced tuples keep
	// arriving while rows stream, so misses are re-checked after the pass.
	selfSeen := make([]map[string]struct{}, len(fks))
	var pending []pendingFK
	for i, fk := range fks {
		if fk.SelfReference() {
			selfSeen[i] = map[string]struct{}{}
		}
	}

	row := 0
	for {
		rec, err := rows.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rep := s.ValidateRecord(rec)

		if len(pk) > 0 {
			if tuple, ok := recordTuple(rec, pk); ok {
				key := keyOf(tuple)
				if first, dup := seen[key]; dup {
					rep.Add(RecordKey, duplicateKeyViolation(CodeDuplicatePrimaryKey, pk, tuple, first))
				} else if _, published := run.existing[key]; published {
					rep.Add(RecordKey, duplicateKeyViolation(CodeDuplicatePrimaryKey, pk, tuple, -1))
				} else {
					seen[key] = row
				}
			}
		}
		for u := range uniques {
			ui := &uniques[u]
			if tuple, ok := recordTuple(rec, ui.fields); ok {
				key := keyOf(tuple)
				if first, dup := ui.seen[key]; dup {
					rep.Add(RecordKey, duplicateKeyViolation(CodeUniqueTogether, ui.fields, tuple, first))
				} else {
					ui.seen[key] = row
				}
			}
		}
		for i, fk := range fks {
			if fk.SelfReference() {
				if tuple, ok := recordTuple(rec, fk.Reference.Fields); ok {
					selfSeen[i][keyOf(tuple)] = struct{}{}
				}
			}
			tuple, ok := recordTuple(rec, fk.Fields)
			if !ok {
				continue // null components pass, per SQL semantics
			}
			key := keyOf(tuple)
			if _, found := run.refKeys[fieldsKey(fk.Fields)][key]; found {
				continue
			}
			if fk.SelfReference() {
				if _, found := selfSeen[i][key]; found {
					continue
				}
				pending = append(pending, pendingFK{row: row, fk: i, key: key, tuple: tuple})
				continue
			}
			rep.Add(RecordKey, foreignKeyViolation(fk, tuple))
		}

		report.addRow(row, rep)
		row++
	}

	for _, p := range pending {
		if _, found := selfSeen[p.fk][p.key]; found {
			continue
		}
		fk := fks[p.fk]
		rep := Report{}
		rep.Add(RecordKey, foreignKeyViolation(fk, p.tuple))
		report.addRow(p.row, rep)
	}

	if s.minRows > 0 && row < s.minRows {
		report.Dataset = append(report.Dataset, newViolation(CodeTooFewRows, row, map[string]any{
			"min": s.minRows, "got": row,
		}))
	}

	report.Summary = summarize(report, row)
	return report, nil
}

type uniqueIndex struct {
	fields []string
	seen   map[string]int
}

// recordTuple extracts the values of the named fields. ok is false when any
// component is missing or nil; such rows have no defined key.
func recordTuple(rec Record, fields []string) ([]any, bool) {
	tuple := make([]any, len(fields))
	for i, name := range fields {
		v, ok := rec[name]
		if !ok || v == nil {
			return nil, false
		}
		tuple[i] = v
	}
	return tuple, true
}

func duplicateKeyViolation(code string, fields []string, tuple []any, first int) Violation {
	v := newViolation(code, tuple, map[string]any{
		"fields": fields,
		"first":  first,
	})
	if code == CodeUniqueTogether {
		v.Rule = "unique_together"
	}
	return v
}

func foreignKeyViolation(fk ForeignKey, tuple []any) Violation {
	resource := fk.Reference.Resource
	if resource == "" {
		resource = "self"
	}
	return newViolation(CodeForeignKeyMissing, tuple, map[string]any{
		"fields":   fk.Fields,
		"resource": resource,
	})
}

func summarize(report *DatasetReport, rows int) DatasetSummary {
	sum := DatasetSummary{Rows: rows, ByColumn: map[string]int{}}
	for _, rep := range report.Rows {
		sum.InvalidRows++
		for key, vs := range rep {
			sum.Violations += len(vs)
			sum.ByColumn[key] += len(vs)
		}
	}
	sum.Violations += len(report.Dataset)
	return sum
}
