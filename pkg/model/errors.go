package model

import (
	"fmt"

	"github.com/aretw0/formwork/pkg/component"
	"github.com/aretw0/formwork/pkg/domain"
)

// ErrorSummary lists the field errors of a validation pass.
type ErrorSummary = component.ErrorSummary

// NavigationError is returned when no edge of a page applies and the page
// has no unconditional edge to fall back on. It is a definition error.
type NavigationError struct {
	Page string
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("page %q: no next page applies and no unconditional edge is declared", e.Page)
}

func (e *NavigationError) Unwrap() error {
	return domain.ErrInvalidDefinition
}
