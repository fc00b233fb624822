package httpEngine

import (
	"net/http"

	"github.com/deepak-shinde14/wellness-platform-backend/internal/auth"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/controllers"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/logics"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/middlewares"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/repositories"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires every route of the server.
func RegisterRoutes(e *echo.Echo, notifier *logics.Notifier) {
	// Health check endpoint, no auth.
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Wellness Platform API is running")
	})

	db := repositories.DBS.Postgres

	// Services
	tokenManager := auth.NewTokenManager()
	authService := auth.NewAuthService(db, tokenManager)
	goalService := logics.NewGoalService(db, notifier)
	userService := logics.NewUserService(db)
	consultService := logics.NewConsultService(db, notifier)
	contentService := logics.NewContentService(db)
	adminService := logics.NewAdminService(db)

	// Controllers
	authController := controllers.NewAuthController(authService, notifier)
	goalController := controllers.NewGoalController(goalService)
	userController := controllers.NewUserController(userService)
	consultController := controllers.NewConsultController(consultService)
	contentController := controllers.NewContentController(contentService)
	adminController := controllers.NewAdminController(adminService, contentService)

	authMw := middlewares.NewAuthMiddleware(authService)

	api := e.Group("/api")

	// Auth endpoints
	authGroup := api.Group("/auth")
	authGroup.POST("/signup", authController.Signup)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/forgot-password", authController.ForgotPassword)
	authGroup.PUT("/reset-password/:token", authController.ResetPassword)
	authGroup.GET("/me", authController.Me, authMw.Protect)
	authGroup.PUT("/update-profile", authController.UpdateProfile, authMw.Protect)
	authGroup.PUT("/change-password", authController.ChangePassword, authMw.Protect)
	authGroup.POST("/logout", authController.Logout, authMw.Protect)

	// Goal endpoints
	goals := api.Group("/goals", authMw.Protect)
	goals.POST("", goalController.Create)
	goals.GET("", goalController.List)
	goals.GET("/statistics", goalController.Statistics)
	goals.GET("/:id", goalController.Get)
	goals.PUT("/:id", goalController.Update)
	goals.PUT("/:id/progress", goalController.UpdateProgress)
	goals.DELETE("/:id", goalController.Delete)

	// User endpoints
	users := api.Group("/users", authMw.Protect)
	users.GET("/dashboard", userController.Dashboard)
	users.GET("/activities", userController.Activities)
	users.PUT("/settings", userController.UpdateSettings)

	// Consultation endpoints. Booking allows guests.
	consults := api.Group("/consults")
	consults.POST("", consultController.Create, authMw.OptionalAuth)
	consults.GET("", consultController.List, authMw.Protect)
	consults.GET("/admin/all", consultController.ListAll, authMw.Protect, authMw.AdminOnly)
	consults.GET("/:id", consultController.Get, authMw.Protect)
	consults.PUT("/:id", consultController.Update, authMw.Protect)
	consults.DELETE("/:id/cancel", consultController.Cancel, authMw.Protect)

	// Content endpoints
	content := api.Group("/content")
	content.GET("", contentController.List, authMw.OptionalAuth)
	content.GET("/featured", contentController.Featured)
	content.GET("/search", contentController.Search)
	content.GET("/user/bookmarks", contentController.Bookmarks, authMw.Protect)
	content.GET("/:id", contentController.Get, authMw.OptionalAuth)
	content.POST("/:id/bookmark", contentController.Bookmark, authMw.Protect)
	content.DELETE("/:id/bookmark", contentController.Unbookmark, authMw.Protect)

	// Admin endpoints
	admin := api.Group("/admin", authMw.Protect, authMw.AdminOnly)
	admin.GET("/stats", adminController.Stats)
	admin.GET("/users", adminController.ListUsers)
	admin.PUT("/users/:id", adminController.UpdateUserStatus)
	admin.POST("/content", adminController.CreateContent)
	admin.PUT("/content/:id", adminController.UpdateContent)
	admin.DELETE("/content/:id", adminController.DeleteContent)
}
