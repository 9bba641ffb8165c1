package sqlir

import (
	"errors"
	"fmt"
)

// InvalidChildError reports a required child missing at construction.
//
// A node either fully constructs or the constructor fails - no node is
// ever observable half-built. The error is fatal to the constructing
// call and surfaced immediately to the caller (a rewrite pass or tree
// builder), never swallowed.
type InvalidChildError struct {
	// Kind names the node kind being constructed (e.g. "inner join").
	Kind string

	// Child names the missing child (e.g. "table", "predicate").
	Child string
}

// Error implements the error interface.
func (e *InvalidChildError) Error() string {
	return fmt.Sprintf("%s: required child %q is nil", e.Kind, e.Child)
}

// IsInvalidChild returns true if the error is an InvalidChildError.
// Uses errors.As to handle wrapped errors.
func IsInvalidChild(err error) bool {
	var ce *InvalidChildError
	return errors.As(err, &ce)
}

// DuplicateAnnotationError reports an annotation name collision.
//
// Recoverable by the caller (skip, merge, or rename) - the existing
// annotation is never silently overwritten.
type DuplicateAnnotationError struct {
	// Name is the colliding annotation name.
	Name string
}

// Error implements the error interface.
func (e *DuplicateAnnotationError) Error() string {
	return fmt.Sprintf("annotation %q already present", e.Name)
}

// IsDuplicateAnnotation returns true if the error is a DuplicateAnnotationError.
// Uses errors.As to handle wrapped errors.
func IsDuplicateAnnotation(err error) bool {
	var de *DuplicateAnnotationError
	return errors.As(err, &de)
}
