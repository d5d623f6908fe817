package sender

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/magabrotheeeer/taskflow/internal/metrics"
)

// emailAPI часть клиента Resend, которая нужна для отправки.
type emailAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendNotifier отправляет код через HTTP API resend.com.
type ResendNotifier struct {
	emails  emailAPI
	from    string
	codeTTL time.Duration
	log     *slog.Logger
}

// NewResendNotifier создаёт ResendNotifier с клиентом для apiKey.
func NewResendNotifier(log *slog.Logger, apiKey, from string, codeTTL time.Duration) *ResendNotifier {
	return newResendNotifier(log, resend.NewClient(apiKey).Emails, from, codeTTL)
}

func newResendNotifier(log *slog.Logger, emails emailAPI, from string, codeTTL time.Duration) *ResendNotifier {
	return &ResendNotifier{
		emails:  emails,
		from:    from,
		codeTTL: codeTTL,
		log:     log,
	}
}

// SendVerificationCode отправляет письмо с кодом на адрес email.
func (n *ResendNotifier) SendVerificationCode(ctx context.Context, email, code string) error {
	const op = "sender.ResendNotifier.SendVerificationCode"

	body, err := renderVerificationBody(code, n.codeTTL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := n.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{email},
		Subject: verificationSubject,
		Html:    body,
	})
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("resend", "error").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.NotificationsSent.WithLabelValues("resend", "ok").Inc()
	n.log.Info("email sent", slog.String("to", email), slog.String("resend_id", resp.Id))
	return nil
}
