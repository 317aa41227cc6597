package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Puntoventa-api/internal/application/auth"
	"github.com/jhoicas/Puntoventa-api/internal/application/dto"
	"github.com/jhoicas/Puntoventa-api/internal/domain"
	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/Puntoventa-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	if u, ok := r.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (r *memUserRepo) Activate(_ context.Context, id string) error {
	if u, ok := r.users[id]; ok {
		u.IsActive = true
	}
	return nil
}

func (r *memUserRepo) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

// memTokenStore almacena tokens en mapas; Consume borra (un solo uso).
type memTokenStore struct {
	verification map[string]string
	reset        map[string]string
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{
		verification: make(map[string]string),
		reset:        make(map[string]string),
	}
}

func (s *memTokenStore) SaveVerificationToken(_ context.Context, token, userID string, _ time.Duration) error {
	s.verification[token] = userID
	return nil
}

func (s *memTokenStore) ConsumeVerificationToken(_ context.Context, token string) (string, error) {
	userID, ok := s.verification[token]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	delete(s.verification, token)
	return userID, nil
}

func (s *memTokenStore) SaveResetToken(_ context.Context, token, userID string, _ time.Duration) error {
	s.reset[token] = userID
	return nil
}

func (s *memTokenStore) ConsumeResetToken(_ context.Context, token string) (string, error) {
	userID, ok := s.reset[token]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	delete(s.reset, token)
	return userID, nil
}

// memMailer captura los envíos para inspección.
type memMailer struct {
	verificationTokens []string
	resetTokens        []string
}

func (m *memMailer) SendVerificationEmail(_ context.Context, _, _, token string) error {
	m.verificationTokens = append(m.verificationTokens, token)
	return nil
}

func (m *memMailer) SendPasswordResetEmail(_ context.Context, _, _, token string) error {
	m.resetTokens = append(m.resetTokens, token)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc     *auth.AuthUseCase
	repo   *memUserRepo
	tokens *memTokenStore
	mailer *memMailer
}

func newFixture() *fixture {
	repo := newMemUserRepo()
	tokens := newMemTokenStore()
	mailer := &memMailer{}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := auth.NewAuthUseCase(repo, tokens, mailer, auth.JWTConfig{
		Secret:     "test-secret",
		ExpMinutes: 60,
		Issuer:     "puntoventa-test",
	}, log)
	return &fixture{uc: uc, repo: repo, tokens: tokens, mailer: mailer}
}

func (f *fixture) register(t *testing.T) *dto.UserResponse {
	t.Helper()
	out, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Username: "cajero1",
		Email:    "cajero1@tienda.co",
		Password: "secreta123",
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CreaCuentaInactivaYEnviaToken(t *testing.T) {
	f := newFixture()
	out := f.register(t)

	assert.Equal(t, "cajero1", out.Username)
	assert.Equal(t, entity.RoleCajero, out.Role, "rol por defecto debe ser cajero")
	assert.False(t, out.IsActive, "la cuenta debe nacer inactiva")

	require.Len(t, f.mailer.verificationTokens, 1)
	token := f.mailer.verificationTokens[0]
	assert.Equal(t, out.ID, f.tokens.verification[token],
		"el token enviado debe apuntar al usuario registrado")
}

func TestRegister_UsernameDuplicado(t *testing.T) {
	f := newFixture()
	f.register(t)

	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Username: "cajero1",
		Email:    "otro@tienda.co",
		Password: "secreta123",
	})
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	f := newFixture()
	f.register(t)

	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Username: "cajero2",
		Email:    "cajero1@tienda.co",
		Password: "secreta123",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_RolInvalido(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Username: "x",
		Email:    "x@tienda.co",
		Password: "secreta123",
		Role:     "superadmin",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_CuentaSinVerificar_Forbidden(t *testing.T) {
	f := newFixture()
	f.register(t)

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{
		Username: "cajero1",
		Password: "secreta123",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestVerifyEmail_ActivaCuentaYPermiteLogin(t *testing.T) {
	f := newFixture()
	f.register(t)
	token := f.mailer.verificationTokens[0]

	require.NoError(t, f.uc.VerifyEmail(context.Background(), token))

	out, err := f.uc.Login(context.Background(), dto.LoginRequest{
		Username: "cajero1",
		Password: "secreta123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.True(t, out.User.IsActive)
}

func TestVerifyEmail_TokenDeUnSoloUso(t *testing.T) {
	f := newFixture()
	f.register(t)
	token := f.mailer.verificationTokens[0]

	require.NoError(t, f.uc.VerifyEmail(context.Background(), token))
	err := f.uc.VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken,
		"repetir la verificación con el mismo token debe fallar")
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	f := newFixture()
	out := f.register(t)
	require.NoError(t, f.uc.VerifyEmail(context.Background(), f.mailer.verificationTokens[0]))
	_ = out

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{
		Username: "cajero1",
		Password: "equivocada",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Login(context.Background(), dto.LoginRequest{
		Username: "nadie",
		Password: "loquesea",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestForgotYResetPassword_FlujoCompleto(t *testing.T) {
	f := newFixture()
	f.register(t)
	require.NoError(t, f.uc.VerifyEmail(context.Background(), f.mailer.verificationTokens[0]))

	require.NoError(t, f.uc.ForgotPassword(context.Background(), "cajero1@tienda.co"))
	require.Len(t, f.mailer.resetTokens, 1)

	token := f.mailer.resetTokens[0]
	require.NoError(t, f.uc.ResetPassword(context.Background(), token, "nuevaclave99"))

	// La vieja ya no sirve, la nueva sí
	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "nuevaclave99"})
	assert.NoError(t, err)

	// El token de reset es de un solo uso
	err = f.uc.ResetPassword(context.Background(), token, "otraclave123")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestForgotPassword_EmailInexistente_NoFallaNiEnvia(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.uc.ForgotPassword(context.Background(), "nadie@tienda.co"))
	assert.Empty(t, f.mailer.resetTokens,
		"no debe enviarse correo para emails no registrados")
}

func TestChangePassword_VerificaLaActual(t *testing.T) {
	f := newFixture()
	out := f.register(t)
	require.NoError(t, f.uc.VerifyEmail(context.Background(), f.mailer.verificationTokens[0]))

	err := f.uc.ChangePassword(context.Background(), out.ID, dto.ChangePasswordRequest{
		CurrentPassword: "equivocada",
		NewPassword:     "nuevaclave99",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = f.uc.ChangePassword(context.Background(), out.ID, dto.ChangePasswordRequest{
		CurrentPassword: "secreta123",
		NewPassword:     "nuevaclave99",
	})
	require.NoError(t, err)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "nuevaclave99"})
	assert.NoError(t, err)
}
