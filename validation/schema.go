package validation

import "strings"

// Translator resolves the message for a failed rule on a field.
type Translator func(field string, kind Kind) string

// DefaultMessage is used when no Translator is supplied.
const DefaultMessage = "Invalid value"

// FieldRule binds a rule chain to an input key.
type FieldRule struct {
	Name string
	Rule Rule
}

// Field declares the rule chain for the input key name.
func Field(name string, rule Rule) FieldRule {
	return FieldRule{Name: name, Rule: rule}
}

// Schema is an ordered set of field rules. Errors are reported in
// declaration order.
type Schema []FieldRule

// Failure is returned when at least one field fails its chain.
type Failure struct {
	Errors FieldErrors
}

func (f *Failure) Error() string {
	parts := make([]string, 0, len(f.Errors))
	for _, fe := range f.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks input against every field of the schema. A missing key
// is treated as null. On success the input is returned unmodified.
func (s Schema) Validate(input map[string]any, translate Translator) (map[string]any, error) {
	if translate == nil {
		translate = func(string, Kind) string { return DefaultMessage }
	}

	var errs FieldErrors
	for _, f := range s {
		value, present := input[f.Name]
		if kind, ok := f.Rule.Check(value, present); !ok {
			errs = append(errs, FieldError{Field: f.Name, Message: translate(f.Name, kind)})
		}
	}
	if len(errs) > 0 {
		return nil, &Failure{Errors: errs}
	}
	return input, nil
}
