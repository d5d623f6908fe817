// Package verify реализует HTTP-обработчик подтверждения аккаунта кодом из письма.
package verify

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

// Request email и код подтверждения.
// Формат кода не проверяется: неверный код отклоняет сервис.
type Request struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// Service описывает подтверждение аккаунта.
type Service interface {
	VerifyUser(ctx context.Context, email, code string) error
}

// Handler обрабатывает POST /auth/verify.
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
// @Summary Подтверждение аккаунта
// @Description Подтверждает email шестизначным кодом из письма.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Email и код"
// @Success 200 {object} response.Response "Аккаунт подтверждён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неверный код"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Аккаунт уже подтверждён"
// @Failure 410 {object} response.ErrorResponse "Срок действия кода истёк"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
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

	if err := h.service.VerifyUser(r.Context(), req.Email, req.Code); err != nil {
		code, msg := auth.Status(err)
		if code == http.StatusInternalServerError {
			log.Error("verification failed", sl.Err(err))
		} else {
			log.Info("verification rejected", sl.Err(err))
		}
		render.Status(r, code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("account verified")
	render.JSON(w, r, response.Message("account verified"))
}
