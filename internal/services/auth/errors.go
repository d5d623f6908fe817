package auth

import "errors"

// Ошибки сервиса аутентификации. Проверяются через errors.Is.
var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountNotVerified  = errors.New("account not verified")
	ErrUserNotFound        = errors.New("user not found")
	ErrAlreadyVerified     = errors.New("account already verified")
	ErrInvalidCode         = errors.New("invalid verification code")
	ErrCodeExpired         = errors.New("verification code expired")
	ErrNotificationFailure = errors.New("failed to send verification code")
	ErrPasswordTooLong     = errors.New("password must be at most 72 bytes")
)
