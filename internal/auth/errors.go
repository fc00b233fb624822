package auth

import (
	"errors"
	"fmt"
)

// AuthError carries a machine-readable code alongside a caller-facing
// message, so handlers can map failures to HTTP statuses without string
// matching.
type AuthError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func NewAuthError(code, message string) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
	}
}

func NewAuthErrorWithCause(code, message string, cause error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

// IsAuthError reports whether err is an AuthError with the given code.
func IsAuthError(err error, code string) bool {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code == code
	}
	return false
}
