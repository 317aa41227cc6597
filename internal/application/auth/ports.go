package auth

import (
	"context"
	"time"
)

// TokenStore almacén durable de tokens de un solo uso (verificación de email
// y reset de contraseña) con expiración. Consume borra el token al leerlo:
// cada token sirve exactamente una vez.
type TokenStore interface {
	SaveVerificationToken(ctx context.Context, token, userID string, ttl time.Duration) error
	ConsumeVerificationToken(ctx context.Context, token string) (userID string, err error)
	SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, token string) (userID string, err error)
}

// Mailer envío de correos transaccionales.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, username, token string) error
	SendPasswordResetEmail(ctx context.Context, to, username, token string) error
}
