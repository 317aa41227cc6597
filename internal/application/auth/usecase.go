package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Puntoventa-api/internal/application/dto"
	"github.com/jhoicas/Puntoventa-api/internal/domain"
	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
	"github.com/jhoicas/Puntoventa-api/pkg/jwt"
	"github.com/jhoicas/Puntoventa-api/pkg/logger"
)

// TTLs de los tokens de un solo uso.
const (
	VerificationTokenTTL = 24 * time.Hour
	ResetTokenTTL        = 1 * time.Hour
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro con verificación de
// email, login, y recuperación/cambio de contraseña.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	tokenStore TokenStore
	mailer     Mailer
	jwtCfg     JWTConfig
	log        *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tokenStore TokenStore, mailer Mailer, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tokenStore: tokenStore, mailer: mailer, jwtCfg: jwtCfg, log: log}
}

// Register crea un usuario inactivo: hashea password con bcrypt, persiste y
// emite un token de verificación con TTL de 24h. Si el envío del correo falla
// el registro no se revierte; el token sigue siendo válido.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.Username == "" || in.Email == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameAlreadyExists
	}
	existing, err = uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleCajero
	}
	if role != entity.RoleAdmin && role != entity.RoleCajero {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token := uuid.New().String()
	if err := uc.tokenStore.SaveVerificationToken(ctx, token, user.ID, VerificationTokenTTL); err != nil {
		return nil, err
	}
	if err := uc.mailer.SendVerificationEmail(ctx, user.Email, user.Username, token); err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("fallo al enviar correo de verificación")
	}
	return toUserResponse(user), nil
}

// Login verifica username/password, exige cuenta activa y genera el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// VerifyEmail consume el token de verificación y activa la cuenta.
// El token sirve una sola vez; repetir la llamada devuelve ErrInvalidToken.
func (uc *AuthUseCase) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidToken
	}
	userID, err := uc.tokenStore.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrInvalidToken
	}
	return uc.userRepo.Activate(ctx, user.ID)
}

// ForgotPassword emite un token de reset (TTL 1h) y lo envía por correo.
// Responde igual exista o no el email para no filtrar qué cuentas existen.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, email string) error {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	token := uuid.New().String()
	if err := uc.tokenStore.SaveResetToken(ctx, token, user.ID, ResetTokenTTL); err != nil {
		return err
	}
	if err := uc.mailer.SendPasswordResetEmail(ctx, user.Email, user.Username, token); err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("fallo al enviar correo de reset")
	}
	return nil
}

// ResetPassword consume el token de reset y fija la nueva contraseña.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || len(newPassword) < 8 {
		return domain.ErrInvalidInput
	}
	userID, err := uc.tokenStore.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrInvalidToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, user.ID, string(hash))
}

// ChangePassword cambia la contraseña de un usuario autenticado verificando la actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	if len(in.NewPassword) < 8 {
		return domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrUnauthorized
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, user.ID, string(hash))
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
