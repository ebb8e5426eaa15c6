package model

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("event not found")

// ValidationError is returned when a required field is missing or a value
// can't be coerced into the column type.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func requiredError(field string) *ValidationError {
	return &ValidationError{Field: field, Msg: "is required"}
}

// StoreError wraps a failure talking to the database.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
