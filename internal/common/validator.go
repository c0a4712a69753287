package common

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

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

func (v *Validator) CheckStringLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func (v *Validator) CheckMinLength(s string, min int) bool {
	return utf8.RuneCountInString(s) >= min
}

// ValidationError folds the collected field errors into a single validation
// error. Fields are listed alphabetically so the message is stable.
func (v *Validator) ValidationError() error {
	fields := make([]string, 0, len(v.Errors))
	for field := range v.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v.Errors[field])
	}

	return NewValidationError(strings.Join(parts, ", "))
}

// ParseID checks that id is a well-formed identifier and returns its canonical form.
func ParseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ErrMalformedID
	}
	return parsed.String(), nil
}

// NewID returns a fresh identifier.
func NewID() string {
	return uuid.NewString()
}
