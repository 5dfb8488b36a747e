package shared

import (
	"errors"
	"strings"
)

// Error codes shared by the domain and the HTTP layer
const (
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeValidationFailed       = "VALIDATION_FAILED"
	CodeInvalidState           = "INVALID_STATE"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeIncompatibleUnitFamily = "INCOMPATIBLE_UNIT_FAMILY"
	CodeLinkedRecordConflict   = "LINKED_RECORD_CONFLICT"
	CodeConcurrencyConflict    = "CONCURRENCY_CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code.
// This lets errors.Is(err, ErrNotFound) match errors carrying a more specific message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists          = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput           = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrValidationFailed       = NewDomainError(CodeValidationFailed, "Validation failed")
	ErrInvalidState           = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrConcurrencyConflict    = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrInsufficientStock      = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrIncompatibleUnitFamily = NewDomainError(CodeIncompatibleUnitFamily, "Units belong to different measurement families")
	ErrLinkedRecordConflict   = NewDomainError(CodeLinkedRecordConflict, "Record is linked to other records")
)

// NotFoundError creates a not-found error naming the missing entity
func NotFoundError(entity string, id any) *DomainError {
	return NewDomainError(CodeNotFound, entityLabel(entity)+" "+toString(id)+" not found")
}

// ValidationError carries every violated rule of a rejected request.
// It is raised before any persistence or ledger work happens.
type ValidationError struct {
	Violations []string
}

// NewValidationError creates a validation error from the given violations
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrValidationFailed.Message
	}
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// Unwrap exposes the validation error as a DomainError
func (e *ValidationError) Unwrap() error {
	return NewDomainError(CodeValidationFailed, e.Error())
}

// Add appends a violation
func (e *ValidationError) Add(violation string) {
	e.Violations = append(e.Violations, violation)
}

// Merge appends the violations carried by err.
// Errors that are not validation errors are added as a single violation.
func (e *ValidationError) Merge(err error) {
	if err == nil {
		return
	}
	var other *ValidationError
	if errors.As(err, &other) {
		e.Violations = append(e.Violations, other.Violations...)
		return
	}
	e.Add(err.Error())
}

// HasViolations reports whether any violation was recorded
func (e *ValidationError) HasViolations() bool {
	return len(e.Violations) > 0
}

// OrNil returns the error when it has violations and nil otherwise
func (e *ValidationError) OrNil() error {
	if e == nil || !e.HasViolations() {
		return nil
	}
	return e
}

func entityLabel(entity string) string {
	if entity == "" {
		return "Resource"
	}
	return entity
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case interface{ String() string }:
		return t.String()
	default:
		return ""
	}
}
