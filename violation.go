package contract

import (
	"fmt"
	"sort"
	"strings"
)

// Violation codes (exported consts for IDE completion and type safety by convention)
const (
	CodeTypeMismatch        = "type_mismatch"
	CodeRequiredMissing     = "required_field_missing"
	CodeConstraintViolation = "constraint_violation"
	CodeUnknownField        = "unknown_field"
	CodeDuplicatePrimaryKey = "duplicate_primary_key"
	CodeUniqueTogether      = "unique_together"
	CodeForeignKeyMissing   = "foreign_key_missing"
	CodeTooFewRows          = "too_few_rows"
)

// RecordKey is the report key that carries record-level findings, i.e.
// violations produced by cross-field rules rather than by a single field.
const RecordKey = "__record__"

// Violation is a single validation finding. Violations are data, never errors:
// a failed check is an expected outcome the caller inspects, not an
// exceptional control-flow event.
type Violation struct {
	Code    string // One of the codes listed above.
	Message string
	// Rule optionally records the cross-field rule that produced this violation.
	Rule string
	// Value is the offending value when it is safe to include.
	Value any
	// Params carries structured parameters (e.g. {"min":1, "got":42}) for
	// i18n and observability.
	Params map[string]any
}

// Report maps a field name (or RecordKey for cross-field findings) to the
// ordered violations recorded against it. An empty report means valid; a
// report is always returned, never nil-for-valid.
type Report map[string][]Violation

// Valid reports whether the report carries no violations.
func (r Report) Valid() bool { return len(r) == 0 }

// Add appends violations under the given key, initializing the map entry when
// needed.
func (r Report) Add(key string, vs ...Violation) {
	if len(vs) == 0 {
		return
	}
	r[key] = append(r[key], vs...)
}

// Keys returns the report keys in a stable (sorted) order.
func (r Report) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String summarizes the first few violations, one "code at key" pair each.
func (r Report) String() string {
	if len(r) == 0 {
		return "valid"
	}
	const maxShown = 3
	b := &strings.Builder{}
	shown, total := 0, 0
	for _, k := range r.Keys() {
		for _, v := range r[k] {
			total++
			if shown < maxShown {
				if shown > 0 {
					b.WriteString("; ")
				}
				fmt.Fprintf(b, "%s at %s", v.Code, k)
				shown++
			}
		}
	}
	if total > shown {
		fmt.Fprintf(b, "; ... (total %d)", total)
	}
	return b.String()
}

// DatasetSummary aggregates per-dataset tallies for summary reporting.
type DatasetSummary struct {
	// Rows is the total number of rows consumed from the source.
	Rows int
	// InvalidRows is the number of rows with at least one violation.
	InvalidRows int
	// Violations is the total violation count, dataset-level findings included.
	Violations int
	// ByColumn tallies violations per report key (field name or RecordKey).
	ByColumn map[string]int
}

// DatasetReport collects the findings of a bulk validation run. Row reports
// are keyed by zero-based row index; Dataset holds findings that are not
// attributable to any single row, such as a minRows shortfall.
type DatasetReport struct {
	Rows    map[int]Report
	Dataset []Violation
	Summary DatasetSummary
}

// Valid reports whether the dataset produced no violations at all.
func (r *DatasetReport) Valid() bool {
	return len(r.Rows) == 0 && len(r.Dataset) == 0
}

// Row returns the report for the given row index, or an empty report when the
// row was valid.
func (r *DatasetReport) Row(i int) Report {
	if rep, ok := r.Rows[i]; ok {
		return rep
	}
	return Report{}
}

func (r *DatasetReport) addRow(i int, rep Report) {
	if rep.Valid() {
		return
	}
	if r.Rows == nil {
		r.Rows = map[int]Report{}
	}
	if prev, ok := r.Rows[i]; ok {
		for k, vs := range rep {
			prev.Add(k, vs...)
		}
		return
	}
	r.Rows[i] = rep
}
