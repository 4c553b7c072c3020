package common

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports the fields of an entity that failed validation.
type ValidationError struct {
	Entity string
	Errors map[string]string
}

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Errors[field]))
	}

	return fmt.Sprintf("%s validation failed: %s", e.Entity, strings.Join(parts, ", "))
}

func (e ValidationError) Kind() Kind {
	return KindValidation
}

type Validator struct {
	entity string
	Errors map[string]string
}

func NewValidator(entity string) *Validator {
	return &Validator{entity: entity, Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	if _, ok := v.Errors[field]; !ok {
		v.Errors[field] = message
	}
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

func (v *Validator) CheckStringLength(s string, min, max int) bool {
	n := len([]rune(s))
	return n >= min && n <= max
}

func (v *Validator) ValidationError() error {
	return ValidationError{Entity: v.entity, Errors: v.Errors}
}
