package mail

import (
	"context"

	"github.com/jhoicas/Puntoventa-api/internal/application/auth"
	"github.com/jhoicas/Puntoventa-api/pkg/logger"
)

var _ auth.Mailer = (*LogMailer)(nil)

// LogMailer no envía nada: escribe el token en el log. Para development,
// cuando no hay servidor SMTP configurado.
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de desarrollo.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// SendVerificationEmail registra el token de verificación en el log.
func (m *LogMailer) SendVerificationEmail(_ context.Context, to, username, token string) error {
	m.log.Info().
		Str("to", to).
		Str("username", username).
		Str("token", token).
		Msg("correo de verificación (modo development, no enviado)")
	return nil
}

// SendPasswordResetEmail registra el token de reset en el log.
func (m *LogMailer) SendPasswordResetEmail(_ context.Context, to, username, token string) error {
	m.log.Info().
		Str("to", to).
		Str("username", username).
		Str("token", token).
		Msg("correo de reset de contraseña (modo development, no enviado)")
	return nil
}
