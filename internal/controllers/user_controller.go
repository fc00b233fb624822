package controllers

import (
	"net/http"

	"github.com/deepak-shinde14/wellness-platform-backend/internal/logics"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/middlewares"

	"github.com/labstack/echo/v4"
)

// UserController handles the dashboard, activity log and settings endpoints.
type UserController struct {
	userService *logics.UserService
}

func NewUserController(userService *logics.UserService) *UserController {
	return &UserController{userService: userService}
}

// Dashboard handles GET /api/users/dashboard
func (uc *UserController) Dashboard(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	dashboard, err := uc.userService.Dashboard(user)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{"dashboard": dashboard}, "")
}

// Activities handles GET /api/users/activities
func (uc *UserController) Activities(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	result, err := uc.userService.Activities(user, parseIntQuery(c, "page"), parseIntQuery(c, "limit"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, result, "")
}

// UpdateSettings handles PUT /api/users/settings
func (uc *UserController) UpdateSettings(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	var params logics.SettingsParams
	if err := c.Bind(&params); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	settings, err := uc.userService.UpdateSettings(user, params)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{"settings": settings}, "Settings updated successfully")
}
