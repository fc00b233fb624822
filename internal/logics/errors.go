package logics

import (
	"errors"
	"fmt"
)

// Service error codes, mapped to HTTP statuses at the controller boundary.
const (
	ErrValidation = "VALIDATION"
	ErrNotFound   = "NOT_FOUND"
	ErrConflict   = "CONFLICT"
	ErrForbidden  = "FORBIDDEN"
)

// ServiceError carries a machine-readable code alongside a caller-facing
// message.
type ServiceError struct {
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// IsServiceError reports whether err is a ServiceError with the given code.
func IsServiceError(err error, code string) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code == code
	}
	return false
}
