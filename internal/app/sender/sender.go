// Package sender собирает воркер доставки писем: читает очередь кодов
// подтверждения и отправляет их через SMTP или Resend.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/taskflow/internal/config"
	"github.com/magabrotheeeer/taskflow/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/taskflow/internal/lib/sl"
	"github.com/magabrotheeeer/taskflow/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/taskflow/internal/services/sender"
)

// App воркер notification-sender.
type App struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	worker *senderservice.Worker
	logger *slog.Logger
}

// New подключается к брокеру и готовит обработчик очереди.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "sender.New"

	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("%s: rabbitmq.url is required", op)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &App{
		conn:   conn,
		ch:     ch,
		worker: senderservice.NewWorker(logger, DeliveryNotifier(cfg, logger)),
		logger: logger,
	}, nil
}

// DeliveryNotifier возвращает транспорт, которым воркер отправляет письма:
// Resend при заданном resend.api_key, иначе SMTP.
func DeliveryNotifier(cfg *config.Config, logger *slog.Logger) senderservice.Notifier {
	if cfg.ResendAPIKey != "" {
		return senderservice.NewResendNotifier(logger, cfg.ResendAPIKey, cfg.From, cfg.VerificationCodeTTL)
	}
	return senderservice.NewSMTPNotifier(logger, smtp.NewTransport(cfg.SMTP, logger), cfg.From, cfg.VerificationCodeTTL)
}

// Run обрабатывает очередь до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.VerificationQueue, a.logger, a.worker.HandleVerificationMessage)
	if err != nil {
		a.logger.Error("failed to start verification consumer", sl.Err(err))
		return err
	}
	a.logger.Info("consuming queue", slog.String("queue", rabbitmq.VerificationQueue))

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}

	return nil
}
