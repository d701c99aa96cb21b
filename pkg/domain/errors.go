package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFormNotFound is returned when no form is registered under an identifier.
var ErrFormNotFound = errors.New("form not found")

// ErrPageNotFound is returned when a form has no page with the requested path.
var ErrPageNotFound = errors.New("page not found")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidDefinition marks every error caused by a malformed form definition.
var ErrInvalidDefinition = errors.New("invalid form definition")

// DefinitionError lists every problem found while loading a definition.
type DefinitionError struct {
	Form     string
	Problems []string
}

func (e *DefinitionError) Error() string {
	prefix := "invalid form definition"
	if e.Form != "" {
		prefix = fmt.Sprintf("invalid form definition '%s'", e.Form)
	}
	if len(e.Problems) == 1 {
		return prefix + ": " + e.Problems[0]
	}
	return fmt.Sprintf("%s: found %d problems:\n- %s", prefix, len(e.Problems), strings.Join(e.Problems, "\n- "))
}

// Is makes errors.Is(err, ErrInvalidDefinition) hold.
func (e *DefinitionError) Is(target error) bool {
	return target == ErrInvalidDefinition
}

// Add records a problem.
func (e *DefinitionError) Add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// OrNil returns the error only when at least one problem was recorded.
func (e *DefinitionError) OrNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}
