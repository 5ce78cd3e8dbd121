package domain

import (
	"errors"
	"fmt"
)

var ErrMissingField = errors.New("missing required field")

// RecordError reports a source row that cannot be used because a required
// column is NULL.
type RecordError struct {
	Entity string
	ID     int64
	Field  string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %d: %s: %v", e.Entity, e.ID, e.Field, ErrMissingField)
}

func (e *RecordError) Unwrap() error { return ErrMissingField }

// MissingField builds a *RecordError for entity row id.
func MissingField(entity string, id int64, field string) error {
	return &RecordError{Entity: entity, ID: id, Field: field}
}
