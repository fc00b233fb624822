package controllers

import (
	"errors"
	"net/http"

	"github.com/deepak-shinde14/wellness-platform-backend/configs"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/auth"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/logics"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// respondOK wraps data in the success envelope.
func respondOK(c echo.Context, status int, data interface{}, message string) error {
	body := echo.Map{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	return c.JSON(status, body)
}

// respondError wraps a message in the error envelope.
func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "error": message})
}

// respondServiceError maps service and auth errors onto HTTP statuses.
// Unknown errors are logged and collapsed into a generic 500 so internals
// never leak to clients.
func respondServiceError(c echo.Context, err error) error {
	var svcErr *logics.ServiceError
	if errors.As(err, &svcErr) {
		switch svcErr.Code {
		case logics.ErrValidation:
			return respondError(c, http.StatusBadRequest, svcErr.Message)
		case logics.ErrNotFound:
			return respondError(c, http.StatusNotFound, svcErr.Message)
		case logics.ErrConflict:
			return respondError(c, http.StatusConflict, svcErr.Message)
		case logics.ErrForbidden:
			return respondError(c, http.StatusForbidden, svcErr.Message)
		}
	}

	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		switch authErr.Code {
		case auth.ErrInvalidCredentials, auth.ErrInvalidToken, auth.ErrTokenExpired:
			return respondError(c, http.StatusUnauthorized, authErr.Message)
		case auth.ErrEmailAlreadyExists, auth.ErrUsernameTaken:
			return respondError(c, http.StatusConflict, authErr.Message)
		case auth.ErrUserNotFound:
			return respondError(c, http.StatusNotFound, authErr.Message)
		case auth.ErrAccountLocked:
			return respondError(c, http.StatusForbidden, authErr.Message)
		case auth.ErrResetInvalid, auth.ErrWeakPassword:
			return respondError(c, http.StatusBadRequest, authErr.Message)
		}
	}

	configs.Logger.Error("Unhandled service error",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return respondError(c, http.StatusInternalServerError, "server error")
}
