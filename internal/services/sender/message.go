// Package sender доставляет коды подтверждения: через SMTP, HTTP API Resend
// или очередь RabbitMQ, которую читает notification-sender.
package sender

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// VerificationMessage сообщение очереди с кодом подтверждения.
type VerificationMessage struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Code  string `json:"code"`
}

const verificationSubject = "Taskflow: код подтверждения"

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Подтверждение адреса</h2>
  <p>Ваш код подтверждения:</p>
  <p style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
  <p>Код действует {{.Minutes}} минут.</p>
  <p>Если вы не регистрировались в Taskflow, просто проигнорируйте это письмо.</p>
</body>
</html>
`))

// renderVerificationBody собирает HTML-тело письма с кодом.
func renderVerificationBody(code string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := verificationTemplate.Execute(&buf, struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: int(ttl / time.Minute)})
	if err != nil {
		return "", fmt.Errorf("render verification email: %w", err)
	}
	return buf.String(), nil
}
