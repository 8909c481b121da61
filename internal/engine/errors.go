package engine

import (
	"errors"
	"fmt"
)

// Error is the typed error surface for every engine operation.
//
// Error kinds:
//   - Validation: malformed or empty required input (caller's fault)
//   - Not found: referenced board/column/task is absent
//   - Capacity full: a column's WIP limit rejected an admission
//   - Structural import: malformed export/import payload
//   - Storage: transaction/connection failure (the only retryable kind)
//
// Errors carry structured fields so callers can react without parsing
// messages.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Entity names the entity kind involved ("board", "column", "task").
	Entity string

	// ID identifies the entity, when known.
	ID string

	// ColumnName and Limit describe a capacity rejection.
	ColumnName string
	Limit      int

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// CodeValidation indicates malformed caller input. Never retried.
	CodeValidation ErrorCode = "VALIDATION"

	// CodeNotFound indicates a referenced entity doesn't exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeCapacityFull indicates a column's WIP limit rejected one more
	// task. An expected business condition, surfaced immediately and
	// never retried.
	CodeCapacityFull ErrorCode = "CAPACITY_FULL"

	// CodeStructuralImport indicates a malformed import payload.
	CodeStructuralImport ErrorCode = "STRUCTURAL_IMPORT"

	// CodeStorage indicates a transaction or connection failure.
	CodeStorage ErrorCode = "STORAGE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Code == CodeCapacityFull:
		return fmt.Sprintf("%s: column %q is at its WIP limit (%d)", e.Code, e.ColumnName, e.Limit)
	case e.Entity != "" && e.ID != "":
		return fmt.Sprintf("%s: %s %s: %s", e.Code, e.Entity, e.ID, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a validation error.
// Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsCapacityFull reports whether err is a WIP-limit rejection.
func IsCapacityFull(err error) bool {
	return hasCode(err, CodeCapacityFull)
}

// IsStructuralImport reports whether err is an import-shape error.
func IsStructuralImport(err error) bool {
	return hasCode(err, CodeStructuralImport)
}

// IsStorage reports whether err is a storage failure.
func IsStorage(err error) bool {
	return hasCode(err, CodeStorage)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// NewValidationError creates a validation error.
func NewValidationError(format string, args ...any) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewNotFoundError creates a not-found error for an entity.
func NewNotFoundError(entity, id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: "not found",
		Entity:  entity,
		ID:      id,
	}
}

// NewCapacityError creates a WIP-limit rejection carrying the column's
// name and configured limit.
func NewCapacityError(columnName string, limit int) *Error {
	return &Error{
		Code:       CodeCapacityFull,
		Message:    "column is at its WIP limit",
		ColumnName: columnName,
		Limit:      limit,
	}
}

// NewStructuralImportError creates an import-shape error.
func NewStructuralImportError(message string, cause error) *Error {
	return &Error{
		Code:    CodeStructuralImport,
		Message: message,
		Err:     cause,
	}
}

// NewStorageError wraps a storage failure.
func NewStorageError(op string, cause error) *Error {
	return &Error{
		Code:    CodeStorage,
		Message: op,
		Err:     cause,
	}
}
