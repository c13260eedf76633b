package common

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type ValidationError struct {
	Errors map[string]string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %+v", e.Errors)
}

type Validator struct {
	Errors map[string]string
}

func NewValidator() *Validator {
	return &Validator{Errors: make(map[string]string)}
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

// CheckID rejects ids below one.
func (v *Validator) CheckID(id int, field string) {
	v.Check(id > 0, field, "must be greater than zero")
}

// CheckIDs records a single error for field when any id is below one.
func (v *Validator) CheckIDs(ids []int, field string) {
	for _, id := range ids {
		if id <= 0 {
			v.AddError(field, "must only contain ids greater than zero")
			return
		}
	}
}

// StorableText reports whether s is valid UTF-8 without NUL bytes, which
// Postgres text columns reject.
func StorableText(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

// CheckStringLength counts characters, not bytes.
func (v *Validator) CheckStringLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func (v *Validator) ValidationError() error {
	return ValidationError{Errors: v.Errors}
}
