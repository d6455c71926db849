// Package validation evaluates declarative per-field rule chains against
// decoded JSON input and reports the first failing rule of every field.
package validation

import (
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"
)

// Kind identifies a rule independently of the message shown to the user.
type Kind string

const (
	KindNotEmpty   Kind = "notEmpty"
	KindStringType Kind = "stringType"
	KindLength     Kind = "length"
)

type check struct {
	kind Kind
	fn   func(value any) bool
}

// Rule is an ordered chain of checks. Evaluation stops at the first failure.
// Rules are values: every builder method returns a new chain.
type Rule struct {
	checks   []check
	optional bool
}

// NotEmpty starts a chain that rejects empty values.
func NotEmpty() Rule { return Rule{}.NotEmpty() }

// StringType starts a chain that rejects non-string values.
func StringType() Rule { return Rule{}.StringType() }

// Length starts a chain that rejects strings outside [min, max] characters.
func Length(min, max int) Rule { return Rule{}.Length(min, max) }

// Optional marks r as skipped when the field is absent or null.
func Optional(r Rule) Rule {
	r.checks = slices.Clone(r.checks)
	r.optional = true
	return r
}

func (r Rule) NotEmpty() Rule {
	return r.with(KindNotEmpty, func(v any) bool { return !isEmpty(v) })
}

func (r Rule) StringType() Rule {
	return r.with(KindStringType, func(v any) bool {
		_, ok := v.(string)
		return ok
	})
}

func (r Rule) Length(min, max int) Rule {
	return r.with(KindLength, func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		n := utf8.RuneCountInString(s)
		return n >= min && n <= max
	})
}

// Check runs the chain against value. present is false when the key was
// missing from the input. It returns the kind of the first failing check.
func (r Rule) Check(value any, present bool) (Kind, bool) {
	if r.optional && (!present || value == nil) {
		return "", true
	}
	for _, c := range r.checks {
		if !c.fn(value) {
			return c.kind, false
		}
	}
	return "", true
}

func (r Rule) with(kind Kind, fn func(any) bool) Rule {
	checks := make([]check, len(r.checks), len(r.checks)+1)
	copy(checks, r.checks)
	r.checks = append(checks, check{kind: kind, fn: fn})
	return r
}

// isEmpty treats null, blank strings, false, numeric zero and empty
// collections as empty.
func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case bool:
		return !val
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
