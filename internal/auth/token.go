package auth

import (
	"errors"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/configs"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the session token claims. The admin flag travels in the token,
// so role changes only take effect after re-issue (no revocation list).
type Claims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret  []byte
	expires time.Duration
	issuer  string
}

// NewTokenManager builds a TokenManager from the loaded configuration.
// Config validation already guarantees a non-empty secret.
func NewTokenManager() *TokenManager {
	return &TokenManager{
		secret:  []byte(configs.Configs.Secrets.JwtSecret),
		expires: time.Duration(configs.Configs.Authn.TokenExpireHours) * time.Hour,
		issuer:  configs.Configs.Service.ServiceName,
	}
}

// Expiry returns the configured token lifetime.
func (tm *TokenManager) Expiry() time.Duration {
	return tm.expires
}

// IssueToken signs a new session token for the user.
func (tm *TokenManager) IssueToken(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.expires)

	claims := Claims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenStr, expiresAt, nil
}

// VerifyToken parses and validates a session token. Expired tokens and
// otherwise invalid tokens fail with distinct error codes so the middleware
// can report them separately.
func (tm *TokenManager) VerifyToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthErrorWithCause(ErrTokenExpired, "token has expired", err)
		}
		return nil, NewAuthErrorWithCause(ErrInvalidToken, "token is invalid", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, "token is invalid")
	}
	return claims, nil
}
