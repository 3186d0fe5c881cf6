package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"innkeeper/config"
	"innkeeper/infras/otel"
	"innkeeper/shared/constant"
	"innkeeper/shared/metrics"

	"github.com/rs/zerolog/log"
)

var ErrDisabled = errors.New("smtp delivery is disabled")

// Mailer delivers transactional email. Callers must treat delivery failure
// as non-fatal: the enclosing operation continues and surfaces a fallback
// where one exists.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpMailer struct {
	config *config.Config
	otel   otel.Otel
}

func New(config *config.Config, otel otel.Otel) Mailer {
	if !config.SMTP.Enable {
		log.Warn().Msg("SMTP delivery disabled, emails will not be sent")
	}

	return &smtpMailer{
		config: config,
		otel:   otel,
	}
}

func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) (err error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".mailer.Send")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !m.config.SMTP.Enable {
		return ErrDisabled
	}

	addr := net.JoinHostPort(m.config.SMTP.Host, m.config.SMTP.Port)

	var auth smtp.Auth
	if m.config.SMTP.Username != "" {
		auth = smtp.PlainAuth("", m.config.SMTP.Username, m.config.SMTP.Password, m.config.SMTP.Host)
	}

	msg := strings.Join([]string{
		"From: " + m.config.SMTP.Sender,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	if err = smtp.SendMail(addr, auth, m.config.SMTP.Sender, []string{to}, []byte(msg)); err != nil {
		metrics.EmailFailed()
		log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("failed to send email")

		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Str("to", to).Str("subject", subject).Msg("email sent")

	return nil
}
