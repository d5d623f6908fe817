// Package toggle реализует HTTP-обработчик переключения статуса задачи.
package toggle

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/taskflow/internal/http/handlers/tasks"
	"github.com/magabrotheeeer/taskflow/internal/http/middlewarectx"
	"github.com/magabrotheeeer/taskflow/internal/http/response"
	"github.com/magabrotheeeer/taskflow/internal/lib/sl"
	"github.com/magabrotheeeer/taskflow/internal/models"
)

// Service описывает переключение статуса.
type Service interface {
	Toggle(ctx context.Context, ownerUID string, id int) (*models.Task, error)
}

// Handler обрабатывает POST /tasks/{id}/toggle.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Переключить статус задачи
// @Description Инвертирует признак выполнения задачи текущего пользователя.
// @Tags Tasks
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID задачи"
// @Success 200 {object} models.TaskResponse "Обновлённая задача"
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Задача не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /tasks/{id}/toggle [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tasks.toggle"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	owner, ok := middlewarectx.UserUIDFromContext(r.Context())
	if !ok {
		log.Error("user uid not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := tasks.ParseID(r)
	if err != nil {
		log.Info("invalid id", slog.String("id", chi.URLParam(r, "id")))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	task, err := h.service.Toggle(r.Context(), owner, id)
	if err != nil {
		code, msg := tasks.Status(err)
		if code == http.StatusInternalServerError {
			log.Error("failed to toggle task", sl.Err(err))
		} else {
			log.Info("task not toggled", slog.Int("id", id), sl.Err(err))
		}
		render.Status(r, code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("task toggled", slog.Int("id", id), slog.Bool("status", task.Status))
	render.JSON(w, r, response.StatusOKWithData(task.ToResponse()))
}
