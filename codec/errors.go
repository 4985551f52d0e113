package codec

import (
	"errors"
	"fmt"
)

// Decode error codes.
const (
	CodeParse             = "parse_error"
	CodeUnknownKind       = "unknown_field_kind"
	CodeMissingKey        = "missing_key"
	CodeBadReference      = "bad_reference"
	CodeBadConstraint     = "bad_constraint"
	CodeUnknownRule       = "unknown_rule"
	CodeUnknownDescriptor = "unknown_descriptor"
)

// DecodeError reports a malformed external document. Path is a JSON Pointer
// into the document naming the offending element (for example
// /fields/2/type). Decoding is total over syntactically valid documents: any
// failure surfaces as a DecodeError, never as an unrelated error kind.
type DecodeError struct {
	Path    string
	Code    string
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Message)
}

// AsDecodeError extracts a DecodeError using errors.As internally.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
