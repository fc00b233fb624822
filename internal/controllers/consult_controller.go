package controllers

import (
	"net/http"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/internal/logics"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/middlewares"

	"github.com/labstack/echo/v4"
)

// ConsultController handles consultation booking endpoints.
type ConsultController struct {
	consultService *logics.ConsultService
}

func NewConsultController(consultService *logics.ConsultService) *ConsultController {
	return &ConsultController{consultService: consultService}
}

// Create handles POST /api/consults. Authentication is optional here so
// guests can book.
func (cc *ConsultController) Create(c echo.Context) error {
	var params logics.CreateConsultationParams
	if err := c.Bind(&params); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	user, _ := middlewares.CurrentUser(c)

	consultation, err := cc.consultService.Create(user, params)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusCreated, echo.Map{"consultation": consultation},
		"Consultation booked successfully")
}

// List handles GET /api/consults
func (cc *ConsultController) List(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	result, err := cc.consultService.List(user, logics.ListConsultationsParams{
		Status: c.QueryParam("status"),
		Page:   parseIntQuery(c, "page"),
		Limit:  parseIntQuery(c, "limit"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, result, "")
}

// Get handles GET /api/consults/:id
func (cc *ConsultController) Get(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid consultation id")
	}

	consultation, err := cc.consultService.Get(user, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{"consultation": consultation}, "")
}

// Update handles PUT /api/consults/:id
func (cc *ConsultController) Update(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid consultation id")
	}

	var params logics.UpdateConsultationParams
	if err := c.Bind(&params); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	consultation, err := cc.consultService.Update(user, id, params)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{"consultation": consultation},
		"Consultation updated successfully")
}

// Cancel handles DELETE /api/consults/:id/cancel
func (cc *ConsultController) Cancel(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid consultation id")
	}

	consultation, err := cc.consultService.Cancel(user, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{"consultation": consultation},
		"Consultation cancelled successfully")
}

// ListAll handles GET /api/consults/admin/all
func (cc *ConsultController) ListAll(c echo.Context) error {
	params := logics.ListConsultationsParams{
		Status: c.QueryParam("status"),
		Page:   parseIntQuery(c, "page"),
		Limit:  parseIntQuery(c, "limit"),
	}
	if dateStr := c.QueryParam("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		params.Date = &date
	}

	result, err := cc.consultService.ListAll(params)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, result, "")
}
