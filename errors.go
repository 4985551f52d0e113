package contract

import (
	"errors"
	"fmt"
)

// Definition error codes. Definition errors are raised while constructing a
// schema or contract and are always fatal; they are never deferred to
// validation time.
const (
	CodeDuplicateField        = "duplicate_field_name"
	CodeInvalidPrimaryKey     = "invalid_primary_key"
	CodeUnknownFieldReference = "unknown_field_reference"
	CodeInvalidConstraint     = "invalid_constraint"
	CodeUnknownFieldKind      = "unknown_field_kind"
	CodeInvalidForeignKey     = "invalid_foreign_key"
	CodeInvalidContract       = "invalid_contract"
)

// DefinitionError reports a malformed schema or contract definition.
type DefinitionError struct {
	Code string
	// Field names the offending field, rule, or key when known.
	Field   string
	Message string
}

func (e *DefinitionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %q)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func defErr(code, field, format string, args ...any) *DefinitionError {
	return &DefinitionError{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

// AsDefinitionError extracts a DefinitionError using errors.As internally.
func AsDefinitionError(err error) (*DefinitionError, bool) {
	var de *DefinitionError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
