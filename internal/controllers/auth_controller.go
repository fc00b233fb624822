package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/configs"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/auth"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/logics"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/middlewares"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// forgotPasswordMessage is returned for every forgot-password request,
// whether or not the email is registered, so the endpoint cannot be used to
// probe for accounts.
const forgotPasswordMessage = "If an account with that email exists, a password reset link has been sent"

// AuthController handles signup, login and password management.
type AuthController struct {
	authService *auth.AuthService
	notifier    *logics.Notifier
}

func NewAuthController(authService *auth.AuthService, notifier *logics.Notifier) *AuthController {
	return &AuthController{authService: authService, notifier: notifier}
}

// setTokenCookie attaches the session cookie carrying token.
func (ac *AuthController) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middlewares.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ac.authService.Tokens().Expiry().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   configs.Configs.Service.Environment == "production",
	})
}

// clearTokenCookie expires the session cookie.
func (ac *AuthController) clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middlewares.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   configs.Configs.Service.Environment == "production",
	})
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /api/auth/signup
func (ac *AuthController) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "username, email and password are required")
	}

	user, token, err := ac.authService.Register(auth.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	ac.notifier.NotifySignup(user.Email, user.Username)
	ac.setTokenCookie(c, token)

	return respondOK(c, http.StatusCreated, echo.Map{
		"user":  user,
		"token": token,
	}, "Account created successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (ac *AuthController) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "email and password are required")
	}

	user, token, err := ac.authService.Login(req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	ac.setTokenCookie(c, token)

	return respondOK(c, http.StatusOK, echo.Map{
		"user":  user,
		"token": token,
	}, "")
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword handles POST /api/auth/forgot-password. The response is
// identical for known and unknown emails.
func (ac *AuthController) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" {
		return respondError(c, http.StatusBadRequest, "email is required")
	}

	user, plainToken, err := ac.authService.IssueResetTicket(req.Email)
	if err != nil {
		if !auth.IsAuthError(err, auth.ErrUserNotFound) {
			configs.Logger.Error("Reset ticket issuance failed", zap.Error(err))
		}
		return respondOK(c, http.StatusOK, echo.Map{}, forgotPasswordMessage)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", configs.Configs.Service.FrontendURL, plainToken)
	expiresIn := fmt.Sprintf("%d minutes", configs.Configs.Authn.ResetTicketExpireMin)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()
	// The reset link only exists in this email. If delivery fails the user
	// must not be told one is on its way.
	if err := ac.notifier.NotifyPasswordReset(ctx, user.Email, user.Username, resetURL, expiresIn); err != nil {
		configs.Logger.Error("Reset email delivery failed", zap.Error(err))
		return respondError(c, http.StatusInternalServerError, "server error")
	}

	return respondOK(c, http.StatusOK, echo.Map{}, forgotPasswordMessage)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetPassword handles PUT /api/auth/reset-password/:token
func (ac *AuthController) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Password == "" {
		return respondError(c, http.StatusBadRequest, "new password is required")
	}

	user, err := ac.authService.ConsumeResetTicket(c.Param("token"), req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	ac.notifier.NotifyPasswordResetDone(user.Email, user.Username)

	return respondOK(c, http.StatusOK, echo.Map{}, "Password has been reset successfully")
}

// Me handles GET /api/auth/me
func (ac *AuthController) Me(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}
	return respondOK(c, http.StatusOK, echo.Map{"user": user}, "")
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateProfile handles PUT /api/auth/update-profile
func (ac *AuthController) UpdateProfile(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	updated, err := ac.authService.UpdateProfile(user.ID, req.Username, req.Email)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{"user": updated}, "Profile updated successfully")
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles PUT /api/auth/change-password
func (ac *AuthController) ChangePassword(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return respondError(c, http.StatusUnauthorized, "authentication required")
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return respondError(c, http.StatusBadRequest, "current and new password are required")
	}

	if err := ac.authService.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondServiceError(c, err)
	}

	return respondOK(c, http.StatusOK, echo.Map{}, "Password changed successfully")
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so logging
// out only clears the cookie.
func (ac *AuthController) Logout(c echo.Context) error {
	ac.clearTokenCookie(c)
	return respondOK(c, http.StatusOK, echo.Map{}, "Logged out successfully")
}
