// Package auth содержит общие для обработчиков /auth функции:
// перевод ошибок сервиса аутентификации в HTTP-статус.
package auth

import (
	"errors"
	"net/http"

	authservice "github.com/magabrotheeeer/taskflow/internal/services/auth"
)

// MsgInternal сообщение для ошибок, детали которых не отдаются клиенту.
const MsgInternal = "internal error"

var statuses = []struct {
	err  error
	code int
}{
	{authservice.ErrDuplicateEmail, http.StatusConflict},
	{authservice.ErrInvalidCredentials, http.StatusUnauthorized},
	{authservice.ErrAccountNotVerified, http.StatusForbidden},
	{authservice.ErrUserNotFound, http.StatusNotFound},
	{authservice.ErrAlreadyVerified, http.StatusConflict},
	{authservice.ErrInvalidCode, http.StatusBadRequest},
	{authservice.ErrCodeExpired, http.StatusGone},
	{authservice.ErrNotificationFailure, http.StatusFailedDependency},
	{authservice.ErrPasswordTooLong, http.StatusUnprocessableEntity},
}

// Status возвращает HTTP-статус и сообщение для ошибки сервиса.
// Неизвестные ошибки превращаются в 500 без подробностей.
func Status(err error) (int, string) {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.code, s.err.Error()
		}
	}
	return http.StatusInternalServerError, MsgInternal
}
