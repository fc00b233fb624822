package middlewares

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/configs"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/auth"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/models"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/repositories"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	configs.Logger = zap.NewNop()
	configs.Configs.Secrets.JwtSecret = "test-secret"
	configs.Configs.Authn.TokenExpireHours = 1
	configs.Configs.Authn.ResetTicketExpireMin = 30
	os.Exit(m.Run())
}

type fixture struct {
	db      *gorm.DB
	authSvc *auth.AuthService
	mw      *AuthMiddleware
	e       *echo.Echo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrateInOrder(db))

	authSvc := auth.NewAuthService(db, auth.NewTokenManager())
	return &fixture{
		db:      db,
		authSvc: authSvc,
		mw:      NewAuthMiddleware(authSvc),
		e:       echo.New(),
	}
}

func (f *fixture) registerUser(t *testing.T, username, email string, admin bool) (*models.User, string) {
	t.Helper()
	user, token, err := f.authSvc.Register(auth.RegisterParams{
		Username: username,
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	if admin {
		require.NoError(t, f.db.Model(user).Update("is_admin", true).Error)
		user.IsAdmin = true
		// Re-issue so the admin flag is in the token claims.
		token, _, err = f.authSvc.Tokens().IssueToken(user)
		require.NoError(t, err)
	}
	return user, token
}

func okHandler(c echo.Context) error {
	user, _ := CurrentUser(c)
	if user != nil {
		return c.JSON(http.StatusOK, echo.Map{"user_id": user.ID})
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": nil})
}

func (f *fixture) do(handler echo.HandlerFunc, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	_ = handler(c)
	return rec
}

func TestProtectMissingToken(t *testing.T) {
	f := newFixture(t)

	rec := f.do(f.mw.Protect(okHandler), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication required")
}

func TestProtectHeaderToken(t *testing.T) {
	f := newFixture(t)
	user, token := f.registerUser(t, "alice", "alice@example.com", false)

	rec := f.do(f.mw.Protect(okHandler), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), fmt.Sprintf("%d", user.ID))
}

func TestProtectCookieToken(t *testing.T) {
	f := newFixture(t)
	_, token := f.registerUser(t, "alice", "alice@example.com", false)

	rec := f.do(f.mw.Protect(okHandler), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectHeaderTakesPrecedenceOverCookie(t *testing.T) {
	f := newFixture(t)
	_, token := f.registerUser(t, "alice", "alice@example.com", false)

	// A malformed header must not fall back to the valid cookie.
	rec := f.do(f.mw.Protect(okHandler), func(req *http.Request) {
		req.Header.Set("Authorization", "Token abc")
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectInvalidAndExpiredAreDistinct(t *testing.T) {
	f := newFixture(t)
	user, _ := f.registerUser(t, "alice", "alice@example.com", false)

	recInvalid := f.do(f.mw.Protect(okHandler), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer garbage")
	})
	assert.Equal(t, http.StatusUnauthorized, recInvalid.Code)
	assert.Contains(t, recInvalid.Body.String(), "token is invalid")

	expired, _, err := issueExpiredToken(user)
	require.NoError(t, err)

	recExpired := f.do(f.mw.Protect(okHandler), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+expired)
	})
	assert.Equal(t, http.StatusUnauthorized, recExpired.Code)
	assert.Contains(t, recExpired.Body.String(), "token has expired")
}

// issueExpiredToken signs a token that is already past its expiry using the
// configured secret.
func issueExpiredToken(user *models.User) (string, time.Time, error) {
	saved := configs.Configs.Authn.TokenExpireHours
	configs.Configs.Authn.TokenExpireHours = -1
	defer func() { configs.Configs.Authn.TokenExpireHours = saved }()
	return auth.NewTokenManager().IssueToken(user)
}

func TestProtectDeletedUser(t *testing.T) {
	f := newFixture(t)
	user, token := f.registerUser(t, "alice", "alice@example.com", false)

	require.NoError(t, f.db.Delete(&models.User{}, user.ID).Error)

	rec := f.do(f.mw.Protect(okHandler), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "account unavailable")
}

func TestProtectResetLockedUser(t *testing.T) {
	f := newFixture(t)
	_, token := f.registerUser(t, "alice", "alice@example.com", false)

	// An issued reset ticket suspends existing sessions.
	_, _, err := f.authSvc.IssueResetTicket("alice@example.com")
	require.NoError(t, err)

	rec := f.do(f.mw.Protect(okHandler), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "account unavailable")
}

func TestOptionalAuth(t *testing.T) {
	f := newFixture(t)
	user, token := f.registerUser(t, "alice", "alice@example.com", false)

	// No token: anonymous pass-through.
	rec := f.do(f.mw.OptionalAuth(okHandler), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "null")

	// Valid token: identity attached.
	rec = f.do(f.mw.OptionalAuth(okHandler), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), fmt.Sprintf("%d", user.ID))

	// A present but bad token is rejected, not downgraded.
	rec = f.do(f.mw.OptionalAuth(okHandler), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer garbage")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	f := newFixture(t)
	_, userToken := f.registerUser(t, "alice", "alice@example.com", false)
	_, adminToken := f.registerUser(t, "root", "root@example.com", true)

	chain := f.mw.Protect(f.mw.AdminOnly(okHandler))

	rec := f.do(chain, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+userToken)
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin access required")

	rec = f.do(chain, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// AdminOnly without Protect has no identity at all.
	rec = f.do(f.mw.AdminOnly(okHandler), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
