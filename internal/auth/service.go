package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/configs"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/models"

	"gorm.io/gorm"
)

// RegisterParams holds signup input.
type RegisterParams struct {
	Username string
	Email    string
	Password string
}

// AuthService is the credential and token authority: it owns password
// hashing, session token issuance and the password-reset ticket lifecycle.
type AuthService struct {
	db     *gorm.DB
	tokens *TokenManager
}

// NewAuthService creates an AuthService over the given database handle.
func NewAuthService(db *gorm.DB, tokens *TokenManager) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// Tokens exposes the token manager for middleware wiring.
func (svc *AuthService) Tokens() *TokenManager {
	return svc.tokens
}

// Register creates a new user account and returns it with a fresh session
// token.
func (svc *AuthService) Register(params RegisterParams) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	username := strings.TrimSpace(params.Username)

	if len(params.Password) < MinPasswordLength {
		return nil, "", NewAuthError(ErrWeakPassword,
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	var existing models.User
	result := svc.db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		return nil, "", NewAuthError(ErrEmailAlreadyExists, "user already exists")
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("user lookup failed: %w", result.Error)
	}

	result = svc.db.Where("username = ?", username).First(&existing)
	if result.Error == nil {
		return nil, "", NewAuthError(ErrUsernameTaken, "username is already taken")
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("user lookup failed: %w", result.Error)
	}

	hashed, err := HashPassword(params.Password)
	if err != nil {
		return nil, "", fmt.Errorf("password hashing failed: %w", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
	}
	if err := svc.db.Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("user creation failed: %w", err)
	}

	token, _, err := svc.tokens.IssueToken(&user)
	if err != nil {
		return nil, "", fmt.Errorf("token issuance failed: %w", err)
	}

	return &user, token, nil
}

// Login verifies credentials and returns the user with a fresh session
// token. Unknown email and wrong password collapse into the same error.
func (svc *AuthService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	result := svc.db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, "", NewAuthError(ErrInvalidCredentials, "invalid email or password")
		}
		return nil, "", fmt.Errorf("user lookup failed: %w", result.Error)
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, "", NewAuthError(ErrInvalidCredentials, "invalid email or password")
	}

	if user.HasActiveResetLock(time.Now()) {
		return nil, "", NewAuthError(ErrAccountLocked, "a password reset is pending for this account")
	}

	token, _, err := svc.tokens.IssueToken(&user)
	if err != nil {
		return nil, "", fmt.Errorf("token issuance failed: %w", err)
	}

	return &user, token, nil
}

// GetUser resolves a user by id.
func (svc *AuthService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := svc.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewAuthError(ErrUserNotFound, "user not found")
		}
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return &user, nil
}

// IssueResetTicket generates a password-reset ticket for the account behind
// email. Only the ticket's hash is stored; any prior ticket is overwritten.
// The plaintext token is returned once for the reset link.
func (svc *AuthService) IssueResetTicket(email string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	result := svc.db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, "", NewAuthError(ErrUserNotFound, "user not found")
		}
		return nil, "", fmt.Errorf("user lookup failed: %w", result.Error)
	}

	plain, err := GenerateResetToken()
	if err != nil {
		return nil, "", fmt.Errorf("reset token generation failed: %w", err)
	}

	hash := HashResetToken(plain)
	expires := time.Now().Add(time.Duration(configs.Configs.Authn.ResetTicketExpireMin) * time.Minute)

	if err := svc.db.Model(&user).Updates(map[string]interface{}{
		"reset_token_hash":    hash,
		"reset_token_expires": expires,
	}).Error; err != nil {
		return nil, "", fmt.Errorf("reset ticket persistence failed: %w", err)
	}

	user.ResetTokenHash = &hash
	user.ResetTokenExpires = &expires
	return &user, plain, nil
}

// ConsumeResetTicket redeems a reset token and sets a new password. All
// failure shapes (unknown, expired, already used) return the same generic
// error so callers cannot probe for issued tickets.
func (svc *AuthService) ConsumeResetTicket(plainToken, newPassword string) (*models.User, error) {
	if len(newPassword) < MinPasswordLength {
		return nil, NewAuthError(ErrWeakPassword,
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash := HashResetToken(plainToken)

	var user models.User
	result := svc.db.Where("reset_token_hash = ? AND reset_token_expires > ?", hash, time.Now()).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, NewAuthError(ErrResetInvalid, "reset token is invalid or has expired")
		}
		return nil, fmt.Errorf("reset ticket lookup failed: %w", result.Error)
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %w", err)
	}

	// New hash and cleared lock fields go in a single update, so a consumed
	// ticket can never be replayed.
	if err := svc.db.Model(&user).Updates(map[string]interface{}{
		"password_hash":       hashed,
		"reset_token_hash":    nil,
		"reset_token_expires": nil,
	}).Error; err != nil {
		return nil, fmt.Errorf("password update failed: %w", err)
	}

	user.PasswordHash = hashed
	user.ResetTokenHash = nil
	user.ResetTokenExpires = nil
	return &user, nil
}

// ChangePassword replaces the password of an authenticated user after
// verifying the current one.
func (svc *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := svc.GetUser(userID)
	if err != nil {
		return err
	}

	if err := VerifyPassword(user.PasswordHash, currentPassword); err != nil {
		return NewAuthError(ErrInvalidCredentials, "current password is incorrect")
	}

	if len(newPassword) < MinPasswordLength {
		return NewAuthError(ErrWeakPassword,
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("password hashing failed: %w", err)
	}

	return svc.db.Model(user).Update("password_hash", hashed).Error
}

// UpdateProfile changes username and/or email, enforcing uniqueness.
func (svc *AuthService) UpdateProfile(userID uint, username, email string) (*models.User, error) {
	user, err := svc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if username = strings.TrimSpace(username); username != "" && username != user.Username {
		var existing models.User
		result := svc.db.Where("username = ? AND id <> ?", username, userID).First(&existing)
		if result.Error == nil {
			return nil, NewAuthError(ErrUsernameTaken, "username is already taken")
		} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user lookup failed: %w", result.Error)
		}
		updates["username"] = username
	}

	if email = strings.ToLower(strings.TrimSpace(email)); email != "" && email != user.Email {
		var existing models.User
		result := svc.db.Where("email = ? AND id <> ?", email, userID).First(&existing)
		if result.Error == nil {
			return nil, NewAuthError(ErrEmailAlreadyExists, "email is already registered")
		} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user lookup failed: %w", result.Error)
		}
		updates["email"] = email
		updates["email_verified"] = false
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := svc.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("profile update failed: %w", err)
	}

	return svc.GetUser(userID)
}
