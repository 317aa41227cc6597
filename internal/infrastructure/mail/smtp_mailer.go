package mail

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/Puntoventa-api/internal/application/auth"
	"github.com/jhoicas/Puntoventa-api/pkg/config"
)

var _ auth.Mailer = (*SMTPMailer)(nil)

// SMTPMailer envía correos transaccionales vía SMTP (gomail).
type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

// NewSMTPMailer construye el mailer con la configuración SMTP.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		baseURL: cfg.BaseURL,
	}
}

// SendVerificationEmail envía el enlace de verificación de cuenta.
func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, username, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.baseURL, token)
	body := fmt.Sprintf(
		"Hola %s,<br><br>Confirma tu cuenta haciendo clic en el siguiente enlace:<br><a href=%q>%s</a><br><br>El enlace expira en 24 horas.",
		username, link, link,
	)
	return m.send(ctx, to, "Verifica tu cuenta", body)
}

// SendPasswordResetEmail envía el enlace de restablecimiento de contraseña.
func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, to, username, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.baseURL, token)
	body := fmt.Sprintf(
		"Hola %s,<br><br>Para restablecer tu contraseña haz clic en el siguiente enlace:<br><a href=%q>%s</a><br><br>El enlace expira en 1 hora. Si no solicitaste el cambio, ignora este correo.",
		username, link, link,
	)
	return m.send(ctx, to, "Restablecer contraseña", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar correo: %w", err)
	}
	return nil
}
