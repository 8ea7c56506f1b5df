package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAtFirstStep is returned when navigating back from the first step.
	ErrAtFirstStep = errors.New("wizard: already at first step")
	// ErrAtReviewStep is returned when advancing past the review step.
	ErrAtReviewStep = errors.New("wizard: already at review step")
	// ErrUnknownStep is returned when a state names a step outside the schema.
	ErrUnknownStep = errors.New("wizard: unknown step")
	// ErrUnknownField is returned when a selection targets an unknown field.
	ErrUnknownField = errors.New("wizard: unknown field")
	// ErrInvalidValue is returned when a selection value is outside its enumeration.
	ErrInvalidValue = errors.New("wizard: invalid value")
)

// StepIncompleteError reports the required fields still unset on a step.
type StepIncompleteError struct {
	Step    int
	Missing []Field
}

func (e StepIncompleteError) Error() string {
	return fmt.Sprintf("wizard: step %d incomplete, missing %v", e.Step, e.Missing)
}

// ErrNotFound indicates a referenced record does not exist.
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
