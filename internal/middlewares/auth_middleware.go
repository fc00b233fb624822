package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/configs"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/auth"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/models"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// currentUserKey is the echo context key holding the resolved user.
const currentUserKey = "current_user"

// TokenCookieName is the cookie carrying the session token when the
// Authorization header is absent.
const TokenCookieName = "token"

// AuthMiddleware resolves bearer tokens to user identities.
type AuthMiddleware struct {
	authSvc *auth.AuthService
}

func NewAuthMiddleware(authSvc *auth.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// extractToken pulls the session token from the Authorization header or,
// failing that, the token cookie. Header takes precedence.
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(TokenCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// resolve verifies the token and loads the referenced user. A valid
// signature is not enough: the user must still exist and must not be under
// an active password-reset lock.
func (m *AuthMiddleware) resolve(tokenStr string) (*models.User, *auth.AuthError) {
	claims, err := m.authSvc.Tokens().VerifyToken(tokenStr)
	if err != nil {
		if auth.IsAuthError(err, auth.ErrTokenExpired) {
			return nil, auth.NewAuthError(auth.ErrTokenExpired, "token has expired")
		}
		return nil, auth.NewAuthError(auth.ErrInvalidToken, "token is invalid")
	}

	user, err := m.authSvc.GetUser(claims.UserID)
	if err != nil {
		return nil, auth.NewAuthError(auth.ErrUserNotFound, "account unavailable")
	}
	if user.HasActiveResetLock(time.Now()) {
		return nil, auth.NewAuthError(auth.ErrAccountLocked, "account unavailable")
	}
	return user, nil
}

// Protect rejects requests without a valid session token.
func (m *AuthMiddleware) Protect(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"error":   "authentication required",
			})
		}

		user, authErr := m.resolve(tokenStr)
		if authErr != nil {
			configs.Logger.Warn("Token resolution failed",
				zap.String("code", authErr.Code),
				zap.String("path", c.Request().URL.Path))
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"error":   authErr.Message,
			})
		}

		c.Set(currentUserKey, user)
		return next(c)
	}
}

// OptionalAuth attaches an identity when a valid token is present and
// proceeds anonymously otherwise. A token that is present but bad is still
// rejected rather than silently downgraded.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			return next(c)
		}

		user, authErr := m.resolve(tokenStr)
		if authErr != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"error":   authErr.Message,
			})
		}

		c.Set(currentUserKey, user)
		return next(c)
	}
}

// AdminOnly gates a route on the resolved identity's admin flag. Chain it
// after Protect.
func (m *AuthMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"error":   "authentication required",
			})
		}
		if !user.IsAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{
				"success": false,
				"error":   "admin access required",
			})
		}
		return next(c)
	}
}

// CurrentUser returns the identity attached by Protect or OptionalAuth.
func CurrentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(currentUserKey).(*models.User)
	return user, ok
}
