package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrSourceUnavailable = New(
		CodeSourceUnavailable,
		"The event feed source is unavailable",
		http.StatusServiceUnavailable,
	)
)

// SourceUnavailable wraps a loader failure so handlers map it to 503.
func SourceUnavailable(err error) *AppError {
	return Wrap(err, CodeSourceUnavailable, "The event feed source is unavailable", http.StatusServiceUnavailable)
}

// RequiredField builds the validation error for a missing field.
func RequiredField(field string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("%s is required", field), http.StatusBadRequest)
}

// InvalidField builds the validation error for a field that failed its rule.
func InvalidField(field string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("%s is invalid", field), http.StatusBadRequest)
}
