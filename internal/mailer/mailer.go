package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"

	"github.com/ignatzorin/pata-backend/internal/config"
)

// SMTPMailer отправляет письма через SMTP-сервер.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer создаёт отправителя по настройкам SMTP.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send отправляет текстовое письмо одному получателю.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg, err := BuildMessage(m.cfg.From, to, subject, body)
	if err != nil {
		return err
	}

	timeout := m.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(timeout),
	}
	if m.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.User),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("mailer: configurar cliente smtp: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailer: enviar a %s: %w", to, err)
	}
	return nil
}

// BuildMessage собирает письмо в формате text/plain.
func BuildMessage(from, to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("mailer: remitente inválido %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("mailer: destinatario inválido %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

// LogMailer только пишет письмо в лог. Используется, когда SMTP не настроен.
type LogMailer struct {
	Logger *logrus.Logger
}

// Send логирует письмо и никогда не возвращает ошибку.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	if m.Logger == nil {
		return nil
	}
	m.Logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("mailer: SMTP no configurado, correo solo registrado")
	m.Logger.Debug(body)
	return nil
}
