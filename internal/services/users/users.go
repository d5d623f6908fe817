// Package users отдаёт публичные представления пользователей.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/taskflow/internal/models"
	"github.com/magabrotheeeer/taskflow/internal/storage"
)

// ErrUserNotFound пользователь из токена больше не существует.
var ErrUserNotFound = errors.New("user not found")

// Repository чтение учётных записей.
type Repository interface {
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Service сервис пользователей.
type Service struct {
	repo Repository
}

// New создаёт сервис пользователей.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Me возвращает текущего пользователя.
func (s *Service) Me(ctx context.Context, userUID string) (*models.UserResponse, error) {
	const op = "users.Me"

	u, err := s.repo.GetUserByUID(ctx, userUID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp := u.ToResponse()
	return &resp, nil
}

// ListAll возвращает всех пользователей. Проверка роли выполняется на уровне маршрутов.
func (s *Service) ListAll(ctx context.Context) ([]models.UserResponse, error) {
	const op = "users.ListAll"

	list, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]models.UserResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}
	return out, nil
}
