package controllers

import (
	"net/http"

	"github.com/deepak-shinde14/wellness-platform-backend/internal/logics"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/middlewares"

	"github.com/labstack/echo/v4"
)

// AdminController handles administration endpoints. Routes using it are
// gated by the admin middleware.
type AdminController struct {
	adminService   *logics.AdminService
	contentService *logics.ContentService
}

func NewAdminController(adminService *logics.AdminService, contentService *logics.ContentService) *AdminController {
	return &AdminController{adminService: adminService, contentService: contentService}
}

// Stats handles GET /api/admin/stats
func (ac *AdminController) Stats(c echo.Context) error {
	stats, err := ac.adminService.Stats()
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, stats, "")
}

// ListUsers handles GET /api/admin/users
func (ac *AdminController) ListUsers(c echo.Context) error {
	result, err := ac.adminService.ListUsers(
		c.QueryParam("search"),
		parseIntQuery(c, "page"),
		parseIntQuery(c, "limit"),
	)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, result, "")
}

// UpdateUserStatus handles PUT /api/admin/users/:id
func (ac *AdminController) UpdateUserStatus(c echo.Context) error {
	actor, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid user id")
	}

	var params logics.UpdateUserStatusParams
	if err := c.Bind(&params); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	if err := ac.adminService.UpdateUserStatus(actor, id, params); err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{}, "User updated successfully")
}

// CreateContent handles POST /api/admin/content
func (ac *AdminController) CreateContent(c echo.Context) error {
	var params logics.SaveContentParams
	if err := c.Bind(&params); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	content, err := ac.contentService.Create(params)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusCreated, echo.Map{"content": content}, "Content created successfully")
}

// UpdateContent handles PUT /api/admin/content/:id
func (ac *AdminController) UpdateContent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid content id")
	}

	var params logics.SaveContentParams
	if err := c.Bind(&params); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	content, err := ac.contentService.Update(id, params)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{"content": content}, "Content updated successfully")
}

// DeleteContent handles DELETE /api/admin/content/:id
func (ac *AdminController) DeleteContent(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid content id")
	}

	if err := ac.contentService.Delete(id); err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{}, "Content deleted successfully")
}
