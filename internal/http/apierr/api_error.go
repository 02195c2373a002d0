package apierr

import (
	"errors"
	"net/http"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/product-service/internal/apperr"
	"github.com/tuanvumaihuynh/product-service/pkg/validator"
	"github.com/tuanvumaihuynh/product-service/pkg/zerror"
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the failure form of the response envelope.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    any          `json:"data"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`

	StatusCode int `json:"-"`
}

var InternalServerErr = ErrorResponse{
	Code:       "INTERNAL_SERVER_ERROR",
	Message:    "an unknown error occurred",
	StatusCode: http.StatusInternalServerError,
}

var httpStatuses = map[zerror.Status]int{
	zerror.StatusBadRequest:          http.StatusBadRequest,
	zerror.StatusValidationFailed:    http.StatusBadRequest,
	zerror.StatusUnauthorized:        http.StatusUnauthorized,
	zerror.StatusForbidden:           http.StatusForbidden,
	zerror.StatusNotFound:            http.StatusNotFound,
	zerror.StatusInternalServerError: http.StatusInternalServerError,
	zerror.StatusServiceUnavailable:  http.StatusServiceUnavailable,
}

// New converts err into the response written to the client. Errors that are
// neither a ZError nor a validation failure become InternalServerErr.
func New(err error) ErrorResponse {
	zErr, ok := asZError(err)
	if !ok {
		return InternalServerErr
	}

	res := ErrorResponse{
		Code:       zErr.Code(),
		Message:    zErr.Msg(),
		StatusCode: HTTPStatus(zErr.Status()),
	}
	for _, d := range zErr.Details() {
		res.Details = append(res.Details, FieldError{Field: d.Field, Message: d.Message})
	}

	return res
}

func HTTPStatus(status zerror.Status) int {
	if code, ok := httpStatuses[status]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func asZError(err error) (zerror.ZError, bool) {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		return zErr, true
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]zerror.Detail, len(validationErrs))
		for i, fe := range validationErrs {
			details[i] = zerror.Detail{
				Field:   fe.Field(),
				Message: validator.ValidationErrorMessage(fe),
			}
		}
		return apperr.ValidationErr.WithDetails(details...).WrapParent(err), true
	}

	return zerror.ZError{}, false
}
