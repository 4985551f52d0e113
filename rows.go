package contract

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// RowSource abstracts over polymorphic dataset inputs: a finite, ordered,
// possibly lazy sequence of records. Next returns io.EOF after the last row.
// Sources need not materialize the dataset; the validator reads one row at a
// time.
type RowSource interface {
	Next() (Record, error)
}

// SliceRows adapts an in-memory slice of records.
func SliceRows(rows []Record) RowSource { return &sliceRows{rows: rows} }

type sliceRows struct {
	rows []Record
	pos  int
}

func (s *sliceRows) Next() (Record, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	rec := s.rows[s.pos]
	s.pos++
	return rec, nil
}

// JSONRows streams records from a top-level JSON array without loading the
// whole document, so memory stays bounded by a single row.
func JSONRows(r io.Reader) RowSource {
	return &jsonRows{dec: json.NewDecoder(r)}
}

type jsonRows struct {
	dec     *json.Decoder
	started bool
	done    bool
}

func (j *jsonRows) Next() (Record, error) {
	if j.done {
		return nil, io.EOF
	}
	if !j.started {
		tok, err := j.dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '[' {
			return nil, fmt.Errorf("read dataset: expected a JSON array, got %v", tok)
		}
		j.started = true
	}
	if !j.dec.More() {
		if _, err := j.dec.Token(); err != nil { // consume closing ']'
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		j.done = true
		return nil, io.EOF
	}
	var rec Record
	if err := j.dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("read dataset row: %w", err)
	}
	return rec, nil
}
