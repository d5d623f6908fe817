// Package taskflow собирает HTTP-приложение: хранилище, кеш, доставку писем,
// сервисы и маршруты.
package taskflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/taskflow/internal/cache"
	"github.com/magabrotheeeer/taskflow/internal/config"
	"github.com/magabrotheeeer/taskflow/internal/lib/jwt"
	"github.com/magabrotheeeer/taskflow/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/taskflow/internal/lib/sl"
	"github.com/magabrotheeeer/taskflow/internal/lib/smtp"
	"github.com/magabrotheeeer/taskflow/internal/lib/verification"
	"github.com/magabrotheeeer/taskflow/internal/migrations"
	authservice "github.com/magabrotheeeer/taskflow/internal/services/auth"
	"github.com/magabrotheeeer/taskflow/internal/services/sender"
	taskservice "github.com/magabrotheeeer/taskflow/internal/services/tasks"
	userservice "github.com/magabrotheeeer/taskflow/internal/services/users"
	"github.com/magabrotheeeer/taskflow/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-приложение taskflow.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New поднимает зависимости и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "taskflow.New"

	db, err := storage.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	app := &App{logger: logger, db: db}

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		app.close()
		return nil, err
	}

	// без адреса redis список задач всегда читается из базы
	var taskCache taskservice.Cache
	if cfg.AddressRedis != "" {
		app.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, err
		}
		taskCache = app.cache
	} else {
		logger.Info("redis address is empty, task list cache disabled")
	}

	notifier, err := app.newNotifier(cfg)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	deps := Deps{
		Auth: authservice.New(logger, db, notifier,
			verification.NewIssuer(cfg.VerificationCodeTTL),
			jwtMaker,
			authservice.WithAdminEmails(cfg.AdminEmails),
		),
		Tasks:  taskservice.New(logger, db, taskCache, cfg.TaskListTTL),
		Users:  userservice.New(db),
		Tokens: jwtMaker,
		DB:     db.DB,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, deps)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// newNotifier выбирает доставку кода по notification.mode.
func (a *App) newNotifier(cfg *config.Config) (authservice.Notifier, error) {
	switch cfg.Mode {
	case config.NotificationModeSMTP:
		transport := smtp.NewTransport(cfg.SMTP, a.logger)
		return sender.NewSMTPNotifier(a.logger, transport, cfg.From, cfg.VerificationCodeTTL), nil
	case config.NotificationModeResend:
		return sender.NewResendNotifier(a.logger, cfg.ResendAPIKey, cfg.From, cfg.VerificationCodeTTL), nil
	case config.NotificationModeQueue:
		conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		a.conn = conn
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
		if err != nil {
			return nil, err
		}
		a.ch = ch
		return sender.NewQueueNotifier(a.logger, ch), nil
	default:
		return nil, fmt.Errorf("unknown notification mode %q", cfg.Mode)
	}
}

// Run обслуживает запросы до отмены ctx, затем дожидается активных запросов.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
