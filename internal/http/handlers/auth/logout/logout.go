// Package logout реализует HTTP-обработчик выхода: удаляет cookie сессии.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/taskflow/internal/http/middlewarectx"
	"github.com/magabrotheeeer/taskflow/internal/http/response"
)

// Handler обрабатывает POST /auth/logout.
type Handler struct {
	log          *slog.Logger
	secureCookie bool
}

// New создаёт Handler.
func New(log *slog.Logger, secureCookie bool) *Handler {
	return &Handler{log: log, secureCookie: secureCookie}
}

// ServeHTTP godoc
// @Summary Выход
// @Description Удаляет cookie auth_token. Выданный JWT остаётся валидным до истечения.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Сессия завершена"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	middlewarectx.ClearSessionCookie(w, h.secureCookie)

	h.log.Info("session cookie cleared",
		slog.String("op", "handlers.auth.logout"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	render.JSON(w, r, response.Message("logged out"))
}
