package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/taskflow/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/taskflow/internal/lib/sl"
	"github.com/magabrotheeeer/taskflow/internal/metrics"
)

// ErrInvalidMessage сообщение очереди не содержит адреса или кода.
var ErrInvalidMessage = errors.New("invalid verification message")

// QueueNotifier публикует код в очередь, письмо отправляет notification-sender.
type QueueNotifier struct {
	ch  rabbitmq.Publisher
	log *slog.Logger
}

// NewQueueNotifier создаёт QueueNotifier поверх открытого канала.
func NewQueueNotifier(log *slog.Logger, ch rabbitmq.Publisher) *QueueNotifier {
	return &QueueNotifier{ch: ch, log: log}
}

// SendVerificationCode ставит письмо с кодом в очередь notification.verification.
func (q *QueueNotifier) SendVerificationCode(ctx context.Context, email, code string) error {
	const op = "sender.QueueNotifier.SendVerificationCode"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	msg := VerificationMessage{ID: uuid.NewString(), Email: email, Code: code}
	if err := rabbitmq.PublishMessage(q.ch, rabbitmq.NotificationsExchange, rabbitmq.VerificationKey, msg); err != nil {
		metrics.NotificationsSent.WithLabelValues("queue", "error").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.NotificationsSent.WithLabelValues("queue", "ok").Inc()
	q.log.Debug("verification code queued", slog.String("message_id", msg.ID))
	return nil
}

// Notifier доставляет код адресату.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// Worker обрабатывает сообщения очереди notification.verification.
type Worker struct {
	notifier Notifier
	log      *slog.Logger
}

// NewWorker создаёт обработчик очереди, отправляющий письма через notifier.
func NewWorker(log *slog.Logger, notifier Notifier) *Worker {
	return &Worker{notifier: notifier, log: log}
}

// HandleVerificationMessage разбирает сообщение и отправляет письмо.
// Ошибка возвращает сообщение в очередь, поэтому битые сообщения
// логируются и подтверждаются без повторов.
func (w *Worker) HandleVerificationMessage(ctx context.Context, body []byte) error {
	const op = "sender.Worker.HandleVerificationMessage"
	log := w.log.With(sl.Op(op))

	var msg VerificationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		log.Error("failed to unmarshal message body, dropping", sl.Err(err))
		return nil
	}
	if strings.TrimSpace(msg.Email) == "" || strings.TrimSpace(msg.Code) == "" {
		log.Error("dropping message", slog.String("message_id", msg.ID), sl.Err(ErrInvalidMessage))
		return nil
	}

	if err := w.notifier.SendVerificationCode(ctx, msg.Email, msg.Code); err != nil {
		log.Warn("failed to deliver verification code", slog.String("message_id", msg.ID), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
