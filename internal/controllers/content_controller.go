package controllers

import (
	"net/http"

	"github.com/deepak-shinde14/wellness-platform-backend/internal/logics"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/middlewares"

	"github.com/labstack/echo/v4"
)

// ContentController handles the content library and bookmark endpoints.
type ContentController struct {
	contentService *logics.ContentService
}

func NewContentController(contentService *logics.ContentService) *ContentController {
	return &ContentController{contentService: contentService}
}

// List handles GET /api/content
func (cc *ContentController) List(c echo.Context) error {
	result, err := cc.contentService.List(logics.ListContentParams{
		ContentType: c.QueryParam("type"),
		Category:    c.QueryParam("category"),
		Search:      c.QueryParam("search"),
		Featured:    c.QueryParam("featured") == "true",
		Page:        parseIntQuery(c, "page"),
		Limit:       parseIntQuery(c, "limit"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, result, "")
}

// Featured handles GET /api/content/featured
func (cc *ContentController) Featured(c echo.Context) error {
	content, err := cc.contentService.Featured(parseIntQuery(c, "limit"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{"content": content}, "")
}

// Search handles GET /api/content/search
func (cc *ContentController) Search(c echo.Context) error {
	result, err := cc.contentService.Search(c.QueryParam("q"), logics.ListContentParams{
		ContentType: c.QueryParam("type"),
		Category:    c.QueryParam("category"),
		Page:        parseIntQuery(c, "page"),
		Limit:       parseIntQuery(c, "limit"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, result, "")
}

// Get handles GET /api/content/:id. An authenticated caller also gets their
// bookmark state and a view entry in the activity log.
func (cc *ContentController) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid content id")
	}

	user, _ := middlewares.CurrentUser(c)

	detail, err := cc.contentService.Get(user, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, detail, "")
}

// Bookmark handles POST /api/content/:id/bookmark
func (cc *ContentController) Bookmark(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid content id")
	}

	if err := cc.contentService.Bookmark(user, id); err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusCreated, echo.Map{}, "Content bookmarked")
}

// Unbookmark handles DELETE /api/content/:id/bookmark
func (cc *ContentController) Unbookmark(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid content id")
	}

	if err := cc.contentService.Unbookmark(user, id); err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{}, "Bookmark removed")
}

// Bookmarks handles GET /api/content/user/bookmarks
func (cc *ContentController) Bookmarks(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	result, err := cc.contentService.Bookmarks(user, parseIntQuery(c, "page"), parseIntQuery(c, "limit"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, result, "")
}
