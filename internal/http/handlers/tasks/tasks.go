// Package tasks содержит общие для обработчиков /tasks функции.
package tasks

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	taskservice "github.com/magabrotheeeer/taskflow/internal/services/tasks"
)

// ErrInvalidID параметр {id} не является положительным числом.
var ErrInvalidID = errors.New("invalid id")

// Status возвращает HTTP-статус и сообщение для ошибки сервиса задач.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, taskservice.ErrInvalidTitle):
		return http.StatusUnprocessableEntity, taskservice.ErrInvalidTitle.Error()
	case errors.Is(err, taskservice.ErrTaskNotFound):
		return http.StatusNotFound, taskservice.ErrTaskNotFound.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// ParseID читает идентификатор задачи из URL.
func ParseID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
