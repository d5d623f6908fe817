// Package signup реализует HTTP-обработчик регистрации пользователя.
//
// Handler валидирует тело запроса, создаёт неподтверждённый аккаунт
// через Service и возвращает его публичное представление.
package signup

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/taskflow/internal/http/handlers/auth"
	"github.com/magabrotheeeer/taskflow/internal/http/response"
	"github.com/magabrotheeeer/taskflow/internal/lib/sl"
	"github.com/magabrotheeeer/taskflow/internal/models"
)

// Request входные данные регистрации.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72,maxbytes=72"`
}

// Service описывает регистрацию пользователя.
type Service interface {
	Signup(ctx context.Context, username, email, password string) (*models.User, error)
}

// Handler обрабатывает POST /auth/signup.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	v := validator.New()
	_ = v.RegisterValidation("maxbytes", maxBytes)
	return &Handler{
		log:      log,
		service:  service,
		validate: v,
	}
}

// maxBytes ограничивает длину строки в байтах, а не в рунах:
// bcrypt не принимает пароли длиннее 72 байт.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создаёт неподтверждённый аккаунт и отправляет код подтверждения на email.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 200 {object} models.UserResponse "Созданный пользователь"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 424 {object} response.ErrorResponse "Не удалось отправить код"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

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

	user, err := h.service.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		code, msg := auth.Status(err)
		if code == http.StatusInternalServerError {
			log.Error("signup failed", sl.Err(err))
		} else {
			log.Info("signup rejected", sl.Err(err))
		}
		render.Status(r, code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("user signed up", slog.String("user_uid", user.UUID))
	render.JSON(w, r, response.StatusOKWithData(user.ToResponse()))
}
