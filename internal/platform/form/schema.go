// Package form validates records submitted from create/edit screens against a
// declarative, ordered field schema.
package form

import (
	"fmt"
	"strings"
)

// Mode selects how many field errors a validation pass reports.
type Mode int

const (
	// FailFast stops at the first failing field in declaration order.
	FailFast Mode = iota
	// Aggregate evaluates every field and reports all failures.
	Aggregate
)

// ParseMode maps the VALIDATION_MODE setting to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "failfast", "fail-fast":
		return FailFast, nil
	case "aggregate":
		return Aggregate, nil
	}
	return FailFast, fmt.Errorf("unknown validation mode %q", s)
}

// FieldError is a user-facing rejection of a single field.
type FieldError struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Errors is the ordered set of field errors from one validation pass.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// First returns the first error, the one shown in a fail-fast toast.
func (e Errors) First() (FieldError, bool) {
	if len(e) == 0 {
		return FieldError{}, false
	}
	return e[0], true
}

// Field describes one input of a form: how to read it from the record and the
// rules it must satisfy, checked in order.
type Field[T any] struct {
	Name  string
	Label string
	Value func(T) string
	Rules []Rule
}

// Schema is an ordered list of fields for records of type T.
type Schema[T any] struct {
	fields []Field[T]
}

func NewSchema[T any]() *Schema[T] {
	return &Schema[T]{}
}

// Field appends a field to the schema. Declaration order is validation order.
func (s *Schema[T]) Field(name, label string, value func(T) string, rules ...Rule) *Schema[T] {
	s.fields = append(s.fields, Field[T]{Name: name, Label: label, Value: value, Rules: rules})
	return s
}

// Check appends a rule over the whole record, for constraints that span
// fields. fn returns the message when v is rejected and "" otherwise.
func (s *Schema[T]) Check(name, label string, fn func(T) string) *Schema[T] {
	return s.Field(name, label, fn, func(_, msg string) string { return msg })
}

// Fields returns the field names in validation order.
func (s *Schema[T]) Fields() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Validate runs every rule of every field against v. Within a field the first
// failing rule wins; across fields the mode decides whether to keep going.
func (s *Schema[T]) Validate(v T, mode Mode) Errors {
	var errs Errors
	for _, f := range s.fields {
		value := f.Value(v)
		for _, rule := range f.Rules {
			if msg := rule(f.Label, value); msg != "" {
				errs = append(errs, FieldError{Field: f.Name, Label: f.Label, Message: msg})
				break
			}
		}
		if mode == FailFast && len(errs) > 0 {
			return errs
		}
	}
	return errs
}
