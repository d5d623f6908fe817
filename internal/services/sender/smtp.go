package sender

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/taskflow/internal/lib/sl"
	"github.com/magabrotheeeer/taskflow/internal/lib/smtp"
	"github.com/magabrotheeeer/taskflow/internal/metrics"
)

// SMTPNotifier отправляет код письмом через SMTP-сервер.
type SMTPNotifier struct {
	transport smtp.TransportInterface
	from      string
	codeTTL   time.Duration
	log       *slog.Logger
}

// NewSMTPNotifier создаёт SMTPNotifier. Пустой from заменяется логином SMTP.
func NewSMTPNotifier(log *slog.Logger, transport smtp.TransportInterface, from string, codeTTL time.Duration) *SMTPNotifier {
	if from == "" {
		from = transport.GetSMTPUser()
	}
	return &SMTPNotifier{
		transport: transport,
		from:      from,
		codeTTL:   codeTTL,
		log:       log,
	}
}

// SendVerificationCode отправляет письмо с кодом на адрес email.
func (s *SMTPNotifier) SendVerificationCode(ctx context.Context, email, code string) error {
	const op = "sender.SMTPNotifier.SendVerificationCode"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	body, err := renderVerificationBody(code, s.codeTTL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sendEmail([]string{email}, verificationSubject, body); err != nil {
		metrics.NotificationsSent.WithLabelValues("smtp", "error").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.NotificationsSent.WithLabelValues("smtp", "ok").Inc()
	return nil
}

func (s *SMTPNotifier) sendEmail(to []string, subject, htmlBody string) error {
	log := s.log.With(slog.Any("to", to))

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.from); err != nil {
		log.Error("failed to set MAIL FROM", slog.String("from", s.from), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	log.Info("email sent successfully")
	return nil
}
