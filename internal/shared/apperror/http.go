package apperror

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// HTTPError is the flattened form handlers hand to the response envelope.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP maps any error to an HTTPError. AppErrors keep their code and status,
// validator errors become INVALID_INPUT, everything else is an opaque 500.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		out := HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
		if appErr.Err != nil {
			out.Details = appErr.Err.Error()
		}
		return out
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		mapped := MapValidationError(vErrs)
		if errors.As(mapped, &appErr) {
			return HTTPError{Status: appErr.HTTPStatus, Code: appErr.Code, Message: appErr.Message}
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: ErrInternal.Message,
	}
}
