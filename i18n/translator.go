package i18n

import "fmt"

// Translator retrieves localized messages for violation codes. data provides
// optional metadata to embed in the message (for example, "min" or "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{}

func (dictTranslator) Message(code string, data map[string]string) string {
	switch code {
	case "type_mismatch":
		if want, ok := data["expected"]; ok {
			return fmt.Sprintf("expected %s value", want)
		}
		return "value has the wrong type"
	case "required_field_missing":
		return "required field missing"
	case "constraint_violation":
		if c, ok := data["constraint"]; ok {
			return "constraint not satisfied: " + c
		}
		return "constraint not satisfied"
	case "unknown_field":
		return "field is not declared in the schema"
	case "duplicate_primary_key":
		if first, ok := data["first"]; ok {
			return "primary key already used by row " + first
		}
		return "duplicate primary key"
	case "unique_together":
		return "field combination must be unique"
	case "required_if":
		if field, ok := data["field"]; ok {
			return fmt.Sprintf("field %q is required by rule condition", field)
		}
		return "field is required by rule condition"
	case "mutually_exclusive":
		return "mutually exclusive fields are both present"
	case "foreign_key_missing":
		return "referenced key not found"
	case "too_few_rows":
		return "dataset has fewer rows than the schema requires"
	}
	return code
}

var currentTranslator Translator = dictTranslator{}

// SetTranslator replaces the Translator implementation. Passing nil restores
// the built-in dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
