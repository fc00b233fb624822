package auth

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/configs"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/models"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/repositories"

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

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Named shared-cache memory DB so every pooled connection sees the same
	// schema, isolated per test by name.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrateInOrder(db))
	return db
}

func testService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(testDB(t), NewTokenManager())
}

func register(t *testing.T, svc *AuthService, username, email string) *models.User {
	t.Helper()
	user, token, err := svc.Register(RegisterParams{
		Username: username,
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	svc := testService(t)

	user := register(t, svc, "alice", "Alice@Example.com")
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email) // normalized
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "password123", user.PasswordHash)

	loggedIn, token, err := svc.Login("alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := testService(t)
	register(t, svc, "alice", "alice@example.com")

	_, _, err := svc.Register(RegisterParams{
		Username: "alice2",
		Email:    "ALICE@example.com",
		Password: "password123",
	})
	require.Error(t, err)
	assert.True(t, IsAuthError(err, ErrEmailAlreadyExists))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := testService(t)
	register(t, svc, "alice", "alice@example.com")

	_, _, err := svc.Register(RegisterParams{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
	})
	require.Error(t, err)
	assert.True(t, IsAuthError(err, ErrUsernameTaken))
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := testService(t)

	_, _, err := svc.Register(RegisterParams{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "short",
	})
	require.Error(t, err)
	assert.True(t, IsAuthError(err, ErrWeakPassword))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := testService(t)
	register(t, svc, "alice", "alice@example.com")

	_, _, errUnknown := svc.Login("nobody@example.com", "password123")
	_, _, errWrongPw := svc.Login("alice@example.com", "wrong-password")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	assert.True(t, IsAuthError(errUnknown, ErrInvalidCredentials))
	assert.True(t, IsAuthError(errWrongPw, ErrInvalidCredentials))
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestResetTicketLifecycle(t *testing.T) {
	svc := testService(t)
	user := register(t, svc, "alice", "alice@example.com")

	issued, plain, err := svc.IssueResetTicket("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, issued.ID)
	require.NotNil(t, issued.ResetTokenHash)

	// Only the hash is stored.
	assert.NotEqual(t, plain, *issued.ResetTokenHash)
	assert.Equal(t, HashResetToken(plain), *issued.ResetTokenHash)

	// An active ticket locks the account.
	_, _, err = svc.Login("alice@example.com", "password123")
	require.Error(t, err)
	assert.True(t, IsAuthError(err, ErrAccountLocked))

	// Consume and set a new password.
	consumed, err := svc.ConsumeResetTicket(plain, "new-password-456")
	require.NoError(t, err)
	assert.Equal(t, user.ID, consumed.ID)
	assert.Nil(t, consumed.ResetTokenHash)
	assert.Nil(t, consumed.ResetTokenExpires)

	// Old password is gone, new one works, lock is lifted.
	_, _, err = svc.Login("alice@example.com", "password123")
	require.Error(t, err)
	_, _, err = svc.Login("alice@example.com", "new-password-456")
	require.NoError(t, err)
}

func TestResetTicketConsumeOnce(t *testing.T) {
	svc := testService(t)
	register(t, svc, "alice", "alice@example.com")

	_, plain, err := svc.IssueResetTicket("alice@example.com")
	require.NoError(t, err)

	_, err = svc.ConsumeResetTicket(plain, "new-password-456")
	require.NoError(t, err)

	// Replay fails with the same generic error as an unknown token.
	_, errReplay := svc.ConsumeResetTicket(plain, "another-password")
	_, errUnknown := svc.ConsumeResetTicket("deadbeef", "another-password")
	require.Error(t, errReplay)
	require.Error(t, errUnknown)
	assert.True(t, IsAuthError(errReplay, ErrResetInvalid))
	assert.Equal(t, errUnknown.Error(), errReplay.Error())

	// The replay left the password from the first consume in place.
	_, _, err = svc.Login("alice@example.com", "new-password-456")
	require.NoError(t, err)
}

func TestResetTicketWrongTokenLeavesPasswordUnchanged(t *testing.T) {
	svc := testService(t)
	register(t, svc, "alice", "alice@example.com")

	_, _, err := svc.IssueResetTicket("alice@example.com")
	require.NoError(t, err)

	_, err = svc.ConsumeResetTicket("not-the-token", "attacker-password")
	require.Error(t, err)
	assert.True(t, IsAuthError(err, ErrResetInvalid))

	// Expire the ticket manually so the old credentials work again.
	svc.db.Model(&models.User{}).Where("email = ?", "alice@example.com").
		Updates(map[string]interface{}{"reset_token_hash": nil, "reset_token_expires": nil})

	_, _, err = svc.Login("alice@example.com", "password123")
	require.NoError(t, err)
	_, _, err = svc.Login("alice@example.com", "attacker-password")
	require.Error(t, err)
}

func TestResetTicketReissueSupersedes(t *testing.T) {
	svc := testService(t)
	register(t, svc, "alice", "alice@example.com")

	_, first, err := svc.IssueResetTicket("alice@example.com")
	require.NoError(t, err)
	_, second, err := svc.IssueResetTicket("alice@example.com")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// Only the most recent ticket is redeemable.
	_, err = svc.ConsumeResetTicket(first, "new-password-456")
	require.Error(t, err)
	assert.True(t, IsAuthError(err, ErrResetInvalid))

	_, err = svc.ConsumeResetTicket(second, "new-password-456")
	require.NoError(t, err)
}

func TestResetTicketExpired(t *testing.T) {
	svc := testService(t)
	register(t, svc, "alice", "alice@example.com")

	_, plain, err := svc.IssueResetTicket("alice@example.com")
	require.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, svc.db.Model(&models.User{}).
		Where("email = ?", "alice@example.com").
		Update("reset_token_expires", expired).Error)

	_, err = svc.ConsumeResetTicket(plain, "new-password-456")
	require.Error(t, err)
	assert.True(t, IsAuthError(err, ErrResetInvalid))

	// An expired ticket no longer locks login.
	_, _, err = svc.Login("alice@example.com", "password123")
	require.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	svc := testService(t)
	user := register(t, svc, "alice", "alice@example.com")

	err := svc.ChangePassword(user.ID, "wrong-current", "new-password-456")
	require.Error(t, err)
	assert.True(t, IsAuthError(err, ErrInvalidCredentials))

	err = svc.ChangePassword(user.ID, "password123", "short")
	require.Error(t, err)
	assert.True(t, IsAuthError(err, ErrWeakPassword))

	require.NoError(t, svc.ChangePassword(user.ID, "password123", "new-password-456"))
	_, _, err = svc.Login("alice@example.com", "new-password-456")
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc := testService(t)
	alice := register(t, svc, "alice", "alice@example.com")
	register(t, svc, "bob", "bob@example.com")

	_, err := svc.UpdateProfile(alice.ID, "bob", "")
	require.Error(t, err)
	assert.True(t, IsAuthError(err, ErrUsernameTaken))

	_, err = svc.UpdateProfile(alice.ID, "", "bob@example.com")
	require.Error(t, err)
	assert.True(t, IsAuthError(err, ErrEmailAlreadyExists))

	// Email change resets verification.
	require.NoError(t, svc.db.Model(&models.User{}).
		Where("id = ?", alice.ID).Update("email_verified", true).Error)

	updated, err := svc.UpdateProfile(alice.ID, "alice2", "alice2@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "alice2@example.com", updated.Email)
	assert.False(t, updated.EmailVerified)
}
