package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Puntoventa-api/internal/application/auth"
	"github.com/jhoicas/Puntoventa-api/internal/domain"
	"github.com/jhoicas/Puntoventa-api/pkg/config"
)

var _ auth.TokenStore = (*TokenStore)(nil)

// Prefijos de clave por tipo de token.
const (
	verificationPrefix = "verify:"
	resetPrefix        = "reset:"
)

// TokenStore almacén de tokens de un solo uso sobre Redis.
// La expiración la maneja Redis con el TTL de cada clave; GETDEL garantiza
// que consumir un token lo invalida atómicamente.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore conecta a Redis y verifica la conexión.
func NewTokenStore(ctx context.Context, cfg config.RedisConfig) (*TokenStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &TokenStore{client: client}, nil
}

// Close cierra la conexión con Redis.
func (s *TokenStore) Close() error {
	return s.client.Close()
}

// SaveVerificationToken guarda un token de verificación de email con TTL.
func (s *TokenStore) SaveVerificationToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.save(ctx, verificationPrefix+token, userID, ttl)
}

// ConsumeVerificationToken lee y borra el token. ErrInvalidToken si no existe o expiró.
func (s *TokenStore) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	return s.consume(ctx, verificationPrefix+token)
}

// SaveResetToken guarda un token de reset de contraseña con TTL.
func (s *TokenStore) SaveResetToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.save(ctx, resetPrefix+token, userID, ttl)
}

// ConsumeResetToken lee y borra el token. ErrInvalidToken si no existe o expiró.
func (s *TokenStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	return s.consume(ctx, resetPrefix+token)
}

func (s *TokenStore) save(ctx context.Context, key, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("guardar token: %w", err)
	}
	return nil
}

func (s *TokenStore) consume(ctx context.Context, key string) (string, error) {
	userID, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrInvalidToken
		}
		return "", fmt.Errorf("consumir token: %w", err)
	}
	return userID, nil
}
