// Package validation defines the error type shared by every input-checking
// component. A single request may break several rules at once; callers get
// the complete list of violations, not just the first one found.
package validation

import (
	"fmt"
	"strings"
)

// Violation is one broken rule, attached to the field that broke it.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Error accumulates violations during validation of a single input.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return strings.Join(msgs, "; ")
}

// Add appends a violation. Safe to call on a zero-value *Error.
func (e *Error) Add(field, message string) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: message})
}

// Addf appends a violation with a formatted message.
func (e *Error) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// Err returns e as an error, or nil when no violations were recorded.
func (e *Error) Err() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
