package auth

// Error codes returned by the authentication service.
const (
	ErrInvalidCredentials = "INVALID_CREDENTIALS"
	ErrEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	ErrUsernameTaken      = "USERNAME_TAKEN"
	ErrInvalidToken       = "INVALID_TOKEN"
	ErrTokenExpired       = "TOKEN_EXPIRED"
	ErrUserNotFound       = "USER_NOT_FOUND"
	ErrAccountLocked      = "ACCOUNT_LOCKED"
	ErrResetInvalid       = "RESET_INVALID"
	ErrWeakPassword       = "WEAK_PASSWORD"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8
