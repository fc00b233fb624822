package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/configs"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/auth"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/logics"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/middlewares"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/repositories"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	configs.Logger = zap.NewNop()
	configs.Configs.Secrets.JwtSecret = "test-secret"
	configs.Configs.Authn.TokenExpireHours = 1
	configs.Configs.Authn.ResetTicketExpireMin = 30
	configs.Configs.Service.FrontendURL = "http://localhost:3000"
	configs.Configs.Service.Environment = "test"
	os.Exit(m.Run())
}

type stubDialer struct {
	mu       sync.Mutex
	messages []*gomail.Message
	err      error
}

func (d *stubDialer) DialAndSend(m ...*gomail.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.messages = append(d.messages, m...)
	return nil
}

func (d *stubDialer) failWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

func (d *stubDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.messages)
}

type testEnv struct {
	e        *echo.Echo
	db       *gorm.DB
	authSvc  *auth.AuthService
	notifier *logics.Notifier
	dialer   *stubDialer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrateInOrder(db))

	dialer := &stubDialer{}
	email := utils.NewEmailServiceWithDialer(dialer, "noreply@example.com", "http://localhost:3000")
	notifier := logics.NewNotifier(email, time.Second)
	t.Cleanup(notifier.Close)

	authSvc := auth.NewAuthService(db, auth.NewTokenManager())
	authCtl := NewAuthController(authSvc, notifier)
	authMw := middlewares.NewAuthMiddleware(authSvc)

	e := echo.New()
	g := e.Group("/api/auth")
	g.POST("/signup", authCtl.Signup)
	g.POST("/login", authCtl.Login)
	g.POST("/forgot-password", authCtl.ForgotPassword)
	g.PUT("/reset-password/:token", authCtl.ResetPassword)
	g.GET("/me", authCtl.Me, authMw.Protect)
	g.PUT("/change-password", authCtl.ChangePassword, authMw.Protect)
	g.POST("/logout", authCtl.Logout, authMw.Protect)

	return &testEnv{e: e, db: db, authSvc: authSvc, notifier: notifier, dialer: dialer}
}

func (env *testEnv) request(method, path string, body interface{}, setup func(*http.Request)) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSignupFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodPost, "/api/auth/signup", echo.Map{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password_hash")

	// Session cookie is set httpOnly.
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	var tokenCookie *http.Cookie
	for _, ck := range cookies {
		if ck.Name == middlewares.TokenCookieName {
			tokenCookie = ck
		}
	}
	require.NotNil(t, tokenCookie)
	assert.True(t, tokenCookie.HttpOnly)
	assert.NotEmpty(t, tokenCookie.Value)

	// Duplicate signup conflicts.
	rec = env.request(http.MethodPost, "/api/auth/signup", echo.Map{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Missing fields.
	rec = env.request(http.MethodPost, "/api/auth/signup", echo.Map{"email": "x@y.z"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)
	env.request(http.MethodPost, "/api/auth/signup", echo.Map{
		"username": "alice", "email": "alice@example.com", "password": "password123",
	}, nil)

	rec := env.request(http.MethodPost, "/api/auth/login", echo.Map{
		"email": "alice@example.com", "password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(http.MethodPost, "/api/auth/login", echo.Map{
		"email": "alice@example.com", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeWithCookie(t *testing.T) {
	env := newTestEnv(t)
	rec := env.request(http.MethodPost, "/api/auth/signup", echo.Map{
		"username": "alice", "email": "alice@example.com", "password": "password123",
	}, nil)
	cookies := rec.Result().Cookies()

	rec = env.request(http.MethodGet, "/api/auth/me", nil, func(req *http.Request) {
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@example.com")

	rec = env.request(http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForgotPasswordResponseIsIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.request(http.MethodPost, "/api/auth/signup", echo.Map{
		"username": "alice", "email": "alice@example.com", "password": "password123",
	}, nil)

	recKnown := env.request(http.MethodPost, "/api/auth/forgot-password",
		echo.Map{"email": "alice@example.com"}, nil)
	recUnknown := env.request(http.MethodPost, "/api/auth/forgot-password",
		echo.Map{"email": "nobody@example.com"}, nil)

	assert.Equal(t, http.StatusOK, recKnown.Code)
	assert.Equal(t, http.StatusOK, recUnknown.Code)
	// Byte-identical bodies: nothing to probe accounts with.
	assert.Equal(t, recKnown.Body.String(), recUnknown.Body.String())

	// Only the real account got a reset email. Draining the notifier first
	// makes the count deterministic (signup queued one welcome email).
	env.notifier.Close()
	assert.Equal(t, 2, env.dialer.count())
}

func TestForgotPasswordFailedDeliveryIsAnError(t *testing.T) {
	env := newTestEnv(t)
	env.request(http.MethodPost, "/api/auth/signup", echo.Map{
		"username": "alice", "email": "alice@example.com", "password": "password123",
	}, nil)

	env.dialer.failWith(errors.New("smtp connection refused"))

	// The reset link travels only in the email, so a failed send for a real
	// account must not claim a link was sent.
	rec := env.request(http.MethodPost, "/api/auth/forgot-password",
		echo.Map{"email": "alice@example.com"}, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	// The internal failure stays in the logs.
	assert.Equal(t, "server error", body["error"])

	// Unknown emails never attempt a send and keep the uniform 200.
	rec = env.request(http.MethodPost, "/api/auth/forgot-password",
		echo.Map{"email": "nobody@example.com"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPasswordFlow(t *testing.T) {
	env := newTestEnv(t)
	env.request(http.MethodPost, "/api/auth/signup", echo.Map{
		"username": "alice", "email": "alice@example.com", "password": "password123",
	}, nil)

	_, plain, err := env.authSvc.IssueResetTicket("alice@example.com")
	require.NoError(t, err)

	rec := env.request(http.MethodPut, "/api/auth/reset-password/"+plain,
		echo.Map{"password": "new-password-456"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Replay of the consumed token fails.
	rec = env.request(http.MethodPut, "/api/auth/reset-password/"+plain,
		echo.Map{"password": "another-password"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// New credentials work.
	rec = env.request(http.MethodPost, "/api/auth/login", echo.Map{
		"email": "alice@example.com", "password": "new-password-456",
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChangePasswordAndLogout(t *testing.T) {
	env := newTestEnv(t)
	rec := env.request(http.MethodPost, "/api/auth/signup", echo.Map{
		"username": "alice", "email": "alice@example.com", "password": "password123",
	}, nil)
	data := decode(t, rec)["data"].(map[string]interface{})
	token := data["token"].(string)

	withAuth := func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec = env.request(http.MethodPut, "/api/auth/change-password", echo.Map{
		"current_password": "wrong", "new_password": "new-password-456",
	}, withAuth)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.request(http.MethodPut, "/api/auth/change-password", echo.Map{
		"current_password": "password123", "new_password": "new-password-456",
	}, withAuth)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(http.MethodPost, "/api/auth/logout", nil, withAuth)
	require.Equal(t, http.StatusOK, rec.Code)

	// Cookie is expired by the logout response.
	var cleared *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middlewares.TokenCookieName {
			cleared = ck
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}
