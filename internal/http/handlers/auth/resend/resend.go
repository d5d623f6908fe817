// Package resend реализует HTTP-обработчик повторной отправки кода подтверждения.
//
// Email берётся из параметра ?email=, а если его нет, из JSON-тела.
package resend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/taskflow/internal/http/handlers/auth"
	"github.com/magabrotheeeer/taskflow/internal/http/response"
	"github.com/magabrotheeeer/taskflow/internal/lib/sl"
)

// Request email неподтверждённого пользователя.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Service описывает повторную отправку кода.
type Service interface {
	ResendVerificationCode(ctx context.Context, email string) error
}

// Handler обрабатывает POST /auth/resend.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Повторная отправка кода
// @Description Выпускает новый код подтверждения (старый перестаёт действовать) и отправляет его на email.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param email query string false "Email пользователя"
// @Param request body Request false "Email пользователя"
// @Success 200 {object} response.Response "Код отправлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Аккаунт уже подтверждён"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 424 {object} response.ErrorResponse "Не удалось отправить код"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/resend [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resend"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if email := r.URL.Query().Get("email"); email != "" {
		req.Email = email
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		errors.As(err, &verrs)
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	if err := h.service.ResendVerificationCode(r.Context(), req.Email); err != nil {
		code, msg := auth.Status(err)
		if code == http.StatusInternalServerError {
			log.Error("resend failed", sl.Err(err))
		} else {
			log.Info("resend rejected", sl.Err(err))
		}
		render.Status(r, code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("verification code resent")
	render.JSON(w, r, response.Message("verification code sent"))
}
