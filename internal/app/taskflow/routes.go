package taskflow

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// регистрирует swagger-спецификацию для /docs
	_ "github.com/magabrotheeeer/taskflow/docs"
	"github.com/magabrotheeeer/taskflow/internal/config"
	"github.com/magabrotheeeer/taskflow/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/taskflow/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/taskflow/internal/http/handlers/auth/resend"
	"github.com/magabrotheeeer/taskflow/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/taskflow/internal/http/handlers/auth/verify"
	"github.com/magabrotheeeer/taskflow/internal/http/handlers/health"
	"github.com/magabrotheeeer/taskflow/internal/http/handlers/tasks/create"
	tasklist "github.com/magabrotheeeer/taskflow/internal/http/handlers/tasks/list"
	"github.com/magabrotheeeer/taskflow/internal/http/handlers/tasks/remove"
	"github.com/magabrotheeeer/taskflow/internal/http/handlers/tasks/toggle"
	userlist "github.com/magabrotheeeer/taskflow/internal/http/handlers/users/list"
	"github.com/magabrotheeeer/taskflow/internal/http/handlers/users/me"
	"github.com/magabrotheeeer/taskflow/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/taskflow/internal/services/auth"
	taskservice "github.com/magabrotheeeer/taskflow/internal/services/tasks"
	userservice "github.com/magabrotheeeer/taskflow/internal/services/users"
)

// Deps зависимости HTTP-слоя.
type Deps struct {
	Auth   *authservice.Service
	Tasks  *taskservice.Service
	Users  *userservice.Service
	Tokens middlewarectx.TokenParser
	DB     health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware,
	)

	r.Get("/health", health.New(logger, deps.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	// Открытые конечные точки
	r.Route("/auth", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RPS, cfg.Burst))
		r.Post("/signup", signup.New(logger, deps.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, deps.Auth, cfg.SecureCookie).ServeHTTP)
		r.Post("/logout", logout.New(logger, cfg.SecureCookie).ServeHTTP)
		r.Post("/verify", verify.New(logger, deps.Auth).ServeHTTP)
		r.Post("/resend", resend.New(logger, deps.Auth).ServeHTTP)
	})

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(deps.Tokens, logger))

		r.Get("/tasks", tasklist.New(logger, deps.Tasks).ServeHTTP)
		r.Post("/tasks", create.New(logger, deps.Tasks).ServeHTTP)
		r.Post("/tasks/{id}/toggle", toggle.New(logger, deps.Tasks).ServeHTTP)
		r.Delete("/tasks/{id}", remove.New(logger, deps.Tasks).ServeHTTP)

		r.Get("/users/me", me.New(logger, deps.Users).ServeHTTP)
		r.With(middlewarectx.AdminOnly(logger)).Get("/users", userlist.New(logger, deps.Users).ServeHTTP)
	})
}
