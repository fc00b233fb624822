package controllers

import (
	"net/http"
	"strconv"

	"github.com/deepak-shinde14/wellness-platform-backend/internal/logics"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/middlewares"

	"github.com/labstack/echo/v4"
)

// GoalController handles the goal CRUD and progress endpoints.
type GoalController struct {
	goalService *logics.GoalService
}

func NewGoalController(goalService *logics.GoalService) *GoalController {
	return &GoalController{goalService: goalService}
}

func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest)
	}
	return uint(id), nil
}

func parseIntQuery(c echo.Context, name string) int {
	v, _ := strconv.Atoi(c.QueryParam(name))
	return v
}

// Create handles POST /api/goals
func (gc *GoalController) Create(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	var params logics.CreateGoalParams
	if err := c.Bind(&params); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	goal, err := gc.goalService.Create(user, params)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusCreated, echo.Map{"goal": goal}, "Goal created successfully")
}

// List handles GET /api/goals
func (gc *GoalController) List(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	result, err := gc.goalService.List(user, logics.ListGoalsParams{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
		Order:    c.QueryParam("order"),
		Page:     parseIntQuery(c, "page"),
		Limit:    parseIntQuery(c, "limit"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, result, "")
}

// Statistics handles GET /api/goals/statistics
func (gc *GoalController) Statistics(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	result, err := gc.goalService.Statistics(user)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, result, "")
}

// Get handles GET /api/goals/:id
func (gc *GoalController) Get(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid goal id")
	}

	goal, activities, activityCount, err := gc.goalService.Get(user, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{
		"goal":           goal,
		"activities":     activities,
		"activity_count": activityCount,
	}, "")
}

// Update handles PUT /api/goals/:id
func (gc *GoalController) Update(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid goal id")
	}

	var params logics.UpdateGoalParams
	if err := c.Bind(&params); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	goal, err := gc.goalService.Update(user, id, params)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{"goal": goal}, "Goal updated successfully")
}

// UpdateProgress handles PUT /api/goals/:id/progress
func (gc *GoalController) UpdateProgress(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid goal id")
	}

	var params logics.UpdateProgressParams
	if err := c.Bind(&params); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	goal, completed, err := gc.goalService.UpdateProgress(user, id, params)
	if err != nil {
		return respondServiceError(c, err)
	}

	message := "Progress updated successfully"
	if completed {
		message = "Congratulations! Goal completed"
	}

	return respondOK(c, http.StatusOK, echo.Map{
		"goal":      goal,
		"completed": completed,
	}, message)
}

// Delete handles DELETE /api/goals/:id
func (gc *GoalController) Delete(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid goal id")
	}

	if err := gc.goalService.Delete(user, id); err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{}, "Goal deleted successfully")
}
