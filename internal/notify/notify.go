// notify — граница отправки уведомлений (приветственные письма и т.п.).
// Сервис вызывает Mailer только в fire-and-forget режиме: результат отправки
// логируется и никогда не влияет на исход запроса.
package notify

import (
	"context"
	"log/slog"

	"github.com/pribylovaa/qrmenu-backend/internal/pkg/redact"
)

// Message — письмо для отправки.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer — контракт внешней доставки писем.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer — реализация по умолчанию: пишет факт отправки в лог.
// Используется в local/dev окружениях и как fallback, пока не подключён
// реальный провайдер доставки.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(l *slog.Logger) *LogMailer {
	if l == nil {
		l = slog.Default()
	}

	return &LogMailer{log: l}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("mail_send",
		slog.String("to", redact.Email(msg.To)),
		slog.String("subject", msg.Subject),
	)

	return nil
}
