package contract

import (
	"time"

	"github.com/tablecraft/contract/codec"
)

// Default layouts, in Go reference-time notation. Datetimes without an
// explicit zone are taken as UTC.
const (
	DefaultDateLayout     = "2006-01-02"
	DefaultDatetimeLayout = "2006-01-02 15:04"
)

// DateField declares a calendar-date field. Values are layout-formatted
// strings or time.Time instances.
type DateField struct {
	Name        string
	Title       string
	Description string
	// Layout is the Go reference layout dates are written in. Empty means
	// DefaultDateLayout.
	Layout      string
	Constraints TimeConstraints

	min, max time.Time // parsed by normalize
}

// TimeConstraints holds the constraints applicable to date and datetime
// fields. Bounds are layout-formatted strings, inclusive on both ends.
type TimeConstraints struct {
	Required bool
	Minimum  string
	Maximum  string
}

func (f DateField) FieldName() string { return f.Name }
func (f DateField) Kind() Kind        { return KindDate }
func (f DateField) IsRequired() bool  { return f.Constraints.Required }

func (f DateField) Check(v any) []Violation {
	return checkTime(KindDate, f.layout(), f.Constraints, f.min, f.max, v)
}

func (f DateField) layout() string {
	if f.Layout == "" {
		return DefaultDateLayout
	}
	return f.Layout
}

func (f DateField) normalize() (FieldSpec, error) {
	if err := checkFieldName(f.Name); err != nil {
		return nil, err
	}
	min, max, err := normalizeTimeBounds(f.Name, f.layout(), f.Constraints)
	if err != nil {
		return nil, err
	}
	f.min, f.max = min, max
	return f, nil
}

func (f DateField) document() codec.Field {
	return timeDocument(KindDate, f.Name, f.Title, f.Description, f.Layout, f.Constraints)
}

// DatetimeField declares a timestamp field. Parsed values are normalized to
// UTC before constraint evaluation.
type DatetimeField struct {
	Name        string
	Title       string
	Description string
	// Layout is the Go reference layout timestamps are written in. Empty
	// means DefaultDatetimeLayout.
	Layout      string
	Constraints TimeConstraints

	min, max time.Time
}

func (f DatetimeField) FieldName() string { return f.Name }
func (f DatetimeField) Kind() Kind        { return KindDatetime }
func (f DatetimeField) IsRequired() bool  { return f.Constraints.Required }

func (f DatetimeField) Check(v any) []Violation {
	return checkTime(KindDatetime, f.layout(), f.Constraints, f.min, f.max, v)
}

func (f DatetimeField) layout() string {
	if f.Layout == "" {
		return DefaultDatetimeLayout
	}
	return f.Layout
}

func (f DatetimeField) normalize() (FieldSpec, error) {
	if err := checkFieldName(f.Name); err != nil {
		return nil, err
	}
	min, max, err := normalizeTimeBounds(f.Name, f.layout(), f.Constraints)
	if err != nil {
		return nil, err
	}
	f.min, f.max = min, max
	return f, nil
}

func (f DatetimeField) document() codec.Field {
	return timeDocument(KindDatetime, f.Name, f.Title, f.Description, f.Layout, f.Constraints)
}

// parseTime accepts a layout-formatted string or a time.Time and pins the
// result to UTC.
func parseTime(layout string, v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case string:
		parsed, err := time.Parse(layout, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed.UTC(), true
	}
	return time.Time{}, false
}

func checkTime(kind Kind, layout string, c TimeConstraints, min, max time.Time, v any) []Violation {
	if vs, done := checkPresence(v, c.Required); done {
		return vs
	}
	t, ok := parseTime(layout, v)
	if !ok {
		return []Violation{typeMismatch(kind, v)}
	}
	var out []Violation
	if !min.IsZero() && t.Before(min) {
		out = append(out, constraintViolation("minimum", v, map[string]any{"min": c.Minimum}))
	}
	if !max.IsZero() && t.After(max) {
		out = append(out, constraintViolation("maximum", v, map[string]any{"max": c.Maximum}))
	}
	return out
}

func normalizeTimeBounds(field, layout string, c TimeConstraints) (min, max time.Time, err error) {
	if _, perr := time.Parse(layout, time.Now().UTC().Format(layout)); perr != nil {
		return min, max, defErr(CodeInvalidConstraint, field, "invalid time layout %q", layout)
	}
	if c.Minimum != "" {
		t, ok := parseTime(layout, c.Minimum)
		if !ok {
			return min, max, defErr(CodeInvalidConstraint, field, "minimum %q does not match layout %q", c.Minimum, layout)
		}
		min = t
	}
	if c.Maximum != "" {
		t, ok := parseTime(layout, c.Maximum)
		if !ok {
			return min, max, defErr(CodeInvalidConstraint, field, "maximum %q does not match layout %q", c.Maximum, layout)
		}
		max = t
	}
	if !min.IsZero() && !max.IsZero() && min.After(max) {
		return min, max, defErr(CodeInvalidConstraint, field, "minimum exceeds maximum")
	}
	return min, max, nil
}

func timeDocument(kind Kind, name, title, description, layout string, c TimeConstraints) codec.Field {
	d := codec.Field{Name: name, Type: string(kind), Title: title, Description: description, Format: layout}
	if c.Required || c.Minimum != "" || c.Maximum != "" {
		cd := &codec.Constraints{Required: c.Required}
		if c.Minimum != "" {
			cd.Minimum = c.Minimum
		}
		if c.Maximum != "" {
			cd.Maximum = c.Maximum
		}
		d.Constraints = cd
	}
	return d
}
