package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is the single generic login failure. It covers
	// unknown usernames, wrong passwords and inactive accounts alike so the
	// response never reveals which factor failed.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is returned by the repository when the unique index
	// rejects an insert. The index is the authoritative uniqueness check;
	// the service-level lookup is only a friendly pre-validation.
	ErrUsernameTaken = errors.New("username already taken")

	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidRole     = errors.New("unknown role")
)

// ValidationError reports registration or admin input problems with one
// message per offending field.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return strings.Join(msgs, "; ")
}
