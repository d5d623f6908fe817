// Package models содержит доменные модели пользователя и задачи.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
//
// VerificationCode и VerificationCodeExpiresAt заданы одновременно
// и только пока аккаунт не подтверждён.
type User struct {
	UUID                      string     // Уникальный идентификатор пользователя
	Username                  string     // Отображаемое имя
	Email                     string     // Электронная почта (уникальная)
	PasswordHash              string     // Хэш пароля пользователя
	Role                      string     // Роль пользователя, admin или user
	Enabled                   bool       // Аккаунт подтверждён
	VerificationCode          *string    // Текущий код подтверждения
	VerificationCodeExpiresAt *time.Time // Срок действия кода
	CreatedAt                 time.Time
}

// IsAdmin сообщает, есть ли у пользователя роль admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserResponse публичное представление пользователя.
// Хэш пароля и код подтверждения наружу не отдаются.
type UserResponse struct {
	UUID     string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Enabled  bool   `json:"enabled"`
	Role     string `json:"role"`
}

// ToResponse строит UserResponse из User.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		UUID:     u.UUID,
		Username: u.Username,
		Email:    u.Email,
		Enabled:  u.Enabled,
		Role:     u.Role,
	}
}
