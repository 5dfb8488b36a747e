package dto

import (
	"net/http"

	"github.com/farmerp/backend/internal/domain/shared"
)

// Domain error codes, passed through to clients unchanged
const (
	ErrCodeNotFound               = shared.CodeNotFound
	ErrCodeAlreadyExists          = shared.CodeAlreadyExists
	ErrCodeInvalidInput           = shared.CodeInvalidInput
	ErrCodeValidationFailed       = shared.CodeValidationFailed
	ErrCodeInvalidState           = shared.CodeInvalidState
	ErrCodeInsufficientStock      = shared.CodeInsufficientStock
	ErrCodeIncompatibleUnitFamily = shared.CodeIncompatibleUnitFamily
	ErrCodeLinkedRecordConflict   = shared.CodeLinkedRecordConflict
	ErrCodeConcurrencyConflict    = shared.CodeConcurrencyConflict
)

// Transport error codes raised by handlers and middleware
const (
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"
	ErrCodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeValidationFailed: http.StatusBadRequest,

	ErrCodeNotFound: http.StatusNotFound,

	// Conflicts with persisted state -> 409
	ErrCodeAlreadyExists:        http.StatusConflict,
	ErrCodeInvalidState:         http.StatusConflict,
	ErrCodeLinkedRecordConflict: http.StatusConflict,
	ErrCodeConcurrencyConflict:  http.StatusConflict,
	ErrCodeDuplicateRequest:     http.StatusConflict,

	// Ledger rule violations -> 422
	ErrCodeInsufficientStock:      http.StatusUnprocessableEntity,
	ErrCodeIncompatibleUnitFamily: http.StatusUnprocessableEntity,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
